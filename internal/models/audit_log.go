package models

// AuditEntityType identifies which ledger an audit entry refers to
type AuditEntityType string

const (
	AuditEntityContribution AuditEntityType = "contribution"
	AuditEntityExpense      AuditEntityType = "expense"
)

// AuditAction is the approval action recorded in the trail
type AuditAction string

const (
	AuditActionApproved AuditAction = "approved"
	AuditActionRejected AuditAction = "rejected"
)

// AuditLogEntry records an approval or rejection on a ledger entry.
// Entries are append-only: the trail has no update or delete path, and the
// entity reference is weak — deleting the entity leaves its trail intact.
type AuditLogEntry struct {
	Base
	EntityType   AuditEntityType `gorm:"not null;index:idx_audit_entity" json:"entity_type"`
	EntityID     uint            `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action       AuditAction     `gorm:"not null" json:"action"`
	ActingUserID uint            `gorm:"not null" json:"acting_user_id"`
	Note         string          `json:"note,omitempty"`

	ActingUser Member `gorm:"foreignKey:ActingUserID" json:"acting_user"`
}
