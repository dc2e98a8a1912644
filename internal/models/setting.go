package models

// Well-known setting keys.
const (
	// SettingBasicSplitLift holds the default percentage of a basic
	// contribution allocated to the LIFT bucket, as a string-encoded
	// number in [0,100].
	SettingBasicSplitLift = "basic_contribution_split_lift"
)

// Setting is an administrator-editable key/value pair.
// Values are strings interpreted by the application.
type Setting struct {
	Base
	Key         string `gorm:"uniqueIndex;not null" json:"key"`
	Value       string `gorm:"not null" json:"value"`
	Description string `json:"description"`
	UpdatedByID *uint  `json:"updated_by_id,omitempty"`
}
