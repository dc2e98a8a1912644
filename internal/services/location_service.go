package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/models"
	"lift/internal/pagination"
)

// locationService serves the read-only administrative-area lookup.
type locationService struct {
	db *gorm.DB
}

// NewLocationService creates a new LocationServicer.
func NewLocationService(db *gorm.DB) LocationServicer {
	return &locationService{db: db}
}

// GetLocationByID retrieves one area with its parent expanded
func (s *locationService) GetLocationByID(id uint) (*models.Location, error) {
	var location models.Location
	if err := s.db.Preload("Parent").First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &location, nil
}

// ListLocations returns areas matching the filter, alphabetically. Query
// matches a case-insensitive name prefix.
func (s *locationService) ListLocations(filter LocationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Location], error) {
	page.Defaults()

	base := s.db.Model(&models.Location{})
	if filter.Level != nil {
		base = base.Where("level = ?", *filter.Level)
	}
	if filter.ParentID != nil {
		base = base.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Query != "" {
		base = base.Where("LOWER(name) LIKE LOWER(?)", filter.Query+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var locations []models.Location
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC, id ASC").
		Find(&locations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(locations, page.Page, page.PageSize, totalItems)
	return &result, nil
}
