package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/logger"
	"lift/internal/models"
	"lift/internal/pagination"
)

// eventService handles events and their meeting minutes.
type eventService struct {
	db       *gorm.DB
	expenses ExpenseServicer
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB, expenses ExpenseServicer) EventServicer {
	return &eventService{db: db, expenses: expenses}
}

// CreateEvent records a new event
func (s *eventService) CreateEvent(name string, date time.Time, venue, minutes string, actingID uint) (*models.Event, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event name is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	event := &models.Event{
		Name:        name,
		Date:        date,
		Venue:       venue,
		Minutes:     minutes,
		CreatedByID: actingID,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

// GetEventByID retrieves an event with its attached expenses
func (s *eventService) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.Preload("Expenses").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// ListEvents returns events newest first.
func (s *eventService) ListEvents(page pagination.PageRequest) (*pagination.PageResponse[models.Event], error) {
	page.Defaults()

	base := s.db.Model(&models.Event{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.Event
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateEvent applies a partial update
func (s *eventService) UpdateEvent(id uint, update EventUpdate) (*models.Event, error) {
	event, err := s.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event name cannot be empty")
		}
		updates["name"] = *update.Name
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Venue != nil {
		updates["venue"] = *update.Venue
	}
	if update.Minutes != nil {
		updates["minutes"] = *update.Minutes
	}

	if len(updates) > 0 {
		if err := s.db.Model(event).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetEventByID(id)
}

// DeleteEvent removes the event after detaching its expenses. The expense
// rows survive with their event reference cleared.
func (s *eventService) DeleteEvent(id uint) error {
	event, err := s.GetEventByID(id)
	if err != nil {
		return err
	}

	cleared, err := s.expenses.ClearEventRefs(id)
	if err != nil {
		return err
	}
	if cleared > 0 {
		logger.Get().Infow("detached expenses from deleted event",
			"event_id", id,
			"expenses", cleared,
		)
	}

	if err := s.db.Delete(event).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
