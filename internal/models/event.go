package models

import "time"

// Event represents an association gathering (reunion, fundraiser, meeting).
// Minutes holds the recorded meeting minutes as free text.
type Event struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Date        time.Time `gorm:"not null" json:"date"`
	Venue       string    `json:"venue"`
	Minutes     string    `gorm:"type:text" json:"minutes,omitempty"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`

	Expenses []Expense `gorm:"foreignKey:EventID" json:"expenses,omitempty"`
}
