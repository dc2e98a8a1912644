package services

import (
	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/models"
)

// auditService handles the append-only approval trail.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Append records one approval action. Entries are immutable once written;
// the trail deliberately has no update or delete path. The error propagates
// because a lost trail row would break the tamper-evident approval history.
func (s *auditService) Append(
	entityType models.AuditEntityType,
	entityID uint,
	action models.AuditAction,
	actingUserID uint,
	note string,
) (*models.AuditLogEntry, error) {
	entry := &models.AuditLogEntry{
		EntityType:   entityType,
		EntityID:     entityID,
		Action:       action,
		ActingUserID: actingUserID,
		Note:         note,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// ListFor returns the trail of one entity, newest first.
func (s *auditService) ListFor(entityType models.AuditEntityType, entityID uint) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := s.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
