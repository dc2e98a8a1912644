package models

// MemberRole represents the role a member holds in the association
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Member represents a registered alumnus in the database
type Member struct {
	Base
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"not null" json:"-"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          string     `json:"phone"`
	Role           MemberRole `gorm:"not null;default:member" json:"role"`
	OfficePosition *string    `json:"office_position,omitempty"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`

	Contributions []Contribution `gorm:"foreignKey:MemberID" json:"contributions,omitempty"`
	Expenses      []Expense      `gorm:"foreignKey:SubmittedByID" json:"expenses,omitempty"`
}

// IsAdmin reports whether the member holds the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}
