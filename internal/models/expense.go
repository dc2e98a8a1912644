package models

import "time"

// Bucket identifies one of the two funds money is tracked against
type Bucket string

const (
	BucketLift   Bucket = "lift"
	BucketAlumni Bucket = "alumni_association"
)

// Valid reports whether the bucket is one of the two known funds.
func (b Bucket) Valid() bool {
	return b == BucketLift || b == BucketAlumni
}

// Expense represents money spent out of exactly one bucket.
// Amounts are stored in minor units (cents).
type Expense struct {
	Base
	Amount        int64       `gorm:"type:bigint;not null" json:"amount"`
	Vendor        *string     `json:"vendor,omitempty"`
	Purpose       string      `gorm:"not null" json:"purpose"`
	Date          time.Time   `gorm:"not null" json:"date"`
	Category      string      `gorm:"index" json:"category"`
	Bucket        Bucket      `gorm:"not null;index" json:"bucket"`
	EventID       *uint       `gorm:"index" json:"event_id,omitempty"`
	Status        EntryStatus `gorm:"not null;default:pending" json:"status"`
	SubmittedByID uint        `gorm:"not null;index" json:"submitted_by_id"`
	ApprovedByID  *uint       `json:"approved_by_id,omitempty"`
	ApprovedAt    *time.Time  `json:"approved_at,omitempty"`

	// Relationships
	Event       *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	SubmittedBy Member  `gorm:"foreignKey:SubmittedByID" json:"submitted_by"`
	ApprovedBy  *Member `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
}
