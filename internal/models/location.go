package models

// LocationLevel is the tier of an administrative area
type LocationLevel string

const (
	LocationLevelDistrict  LocationLevel = "district"
	LocationLevelCounty    LocationLevel = "county"
	LocationLevelSubcounty LocationLevel = "subcounty"
)

// Location is one node of the administrative-area hierarchy used by the
// lookup service. Rows are seeded externally and read-only here.
type Location struct {
	Base
	Name     string        `gorm:"not null;index" json:"name"`
	Level    LocationLevel `gorm:"not null;index" json:"level"`
	ParentID *uint         `gorm:"index" json:"parent_id,omitempty"`

	Parent   *Location  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Location `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
