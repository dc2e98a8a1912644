package models

import "time"

// ContributionType represents the type of contribution
type ContributionType string

const (
	ContributionTypeBasic      ContributionType = "basic"
	ContributionTypeAdditional ContributionType = "additional"
)

// EntryStatus represents the approval state of a ledger entry.
// Shared by contributions and expenses.
type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

// Contribution represents a monetary contribution split across the two funds.
// Amounts are stored in minor units (cents). LiftAmount + AAAmount always
// equals Amount: the calculator rounds the LIFT share half-up and assigns
// the remainder to the alumni-association side.
type Contribution struct {
	Base
	MemberID       uint             `gorm:"not null;index" json:"member_id"`
	Amount         int64            `gorm:"type:bigint;not null" json:"amount"`
	Date           time.Time        `gorm:"not null" json:"date"`
	Type           ContributionType `gorm:"not null" json:"type"`
	Status         EntryStatus      `gorm:"not null;default:pending" json:"status"`
	LiftPercentage float64          `gorm:"not null" json:"lift_percentage"`
	AAPercentage   float64          `gorm:"not null" json:"aa_percentage"`
	LiftAmount     int64            `gorm:"type:bigint;not null" json:"lift_amount"`
	AAAmount       int64            `gorm:"type:bigint;not null" json:"aa_amount"`
	Notes          *string          `json:"notes,omitempty"`
	CreatedByID    uint             `gorm:"not null" json:"created_by_id"`
	ApprovedByID   *uint            `json:"approved_by_id,omitempty"`
	ApprovedAt     *time.Time       `json:"approved_at,omitempty"`

	// Relationships
	Member     Member  `gorm:"foreignKey:MemberID" json:"member"`
	ApprovedBy *Member `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
}
