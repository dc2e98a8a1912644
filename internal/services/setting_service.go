package services

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "lift/internal/errors"
	"lift/internal/logger"
	"lift/internal/models"
)

// settingService handles system settings.
type settingService struct {
	db *gorm.DB
}

// NewSettingService creates a new SettingServicer.
func NewSettingService(db *gorm.DB) SettingServicer {
	return &settingService{db: db}
}

// Get retrieves a setting by key.
func (s *settingService) Get(key string) (*models.Setting, error) {
	var setting models.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &setting, nil
}

// Set upserts a setting. For the basic-split key the value must be a
// number in [0,100].
func (s *settingService) Set(key, value, description string, actingAdminID uint) (*models.Setting, error) {
	if key == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "setting key is required")
	}

	if key == models.SettingBasicSplitLift {
		pct, err := strconv.ParseFloat(value, 64)
		if err != nil || pct < 0 || pct > 100 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidSetting, "split percentage must be a number between 0 and 100")
		}
	}

	setting := &models.Setting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedByID: &actingAdminID,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_by_id", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.Get(key)
}

// BasicSplitPercent returns the current default LIFT percentage for basic
// contributions. Callers read it fresh on every basic create/update so a
// settings change takes effect immediately; historical defaults are not
// preserved on edit.
func (s *settingService) BasicSplitPercent() float64 {
	setting, err := s.Get(models.SettingBasicSplitLift)
	if err != nil {
		return DefaultLiftSplitPercent
	}

	pct, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || pct < 0 || pct > 100 {
		// Only reachable through direct DB edits; Set validates the range.
		logger.Get().Warnw("unusable basic split setting, falling back to default",
			"value", setting.Value,
			"default", DefaultLiftSplitPercent,
		)
		return DefaultLiftSplitPercent
	}
	return pct
}
