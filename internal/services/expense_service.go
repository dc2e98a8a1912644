package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/logger"
	"lift/internal/models"
	"lift/internal/pagination"
)

// expenseService handles the expense ledger.
type expenseService struct {
	db           *gorm.DB
	auditService AuditServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, auditService AuditServicer) ExpenseServicer {
	return &expenseService{db: db, auditService: auditService}
}

// validateInput checks the business rules of one expense spec.
func (s *expenseService) validateInput(in ExpenseInput) error {
	if in.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if in.Purpose == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "purpose is required")
	}
	if !in.Bucket.Valid() {
		return apperrors.ErrInvalidBucket
	}
	return nil
}

func (s *expenseService) buildExpense(in ExpenseInput, actingAdminID uint) *models.Expense {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &models.Expense{
		Amount:        in.Amount,
		Vendor:        in.Vendor,
		Purpose:       in.Purpose,
		Date:          date,
		Category:      in.Category,
		Bucket:        in.Bucket,
		EventID:       in.EventID,
		SubmittedByID: actingAdminID,
	}
}

// Create records a single expense charged wholly to one bucket.
func (s *expenseService) Create(in ExpenseInput, actingAdminID uint) (*models.Expense, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	expense := s.buildExpense(in, actingAdminID)
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetByID(expense.ID)
}

// CreateBulk records a batch of expenses in two explicit phases.
//
// Phase one validates the bucket of every item before any write: a single
// missing or invalid bucket rejects the whole batch with nothing persisted.
// Phase two writes each item independently with no cross-item transaction;
// a failure on item k is reported in its result slot and does not block or
// roll back the other items.
func (s *expenseService) CreateBulk(in []ExpenseInput, actingAdminID uint) ([]BulkExpenseResult, error) {
	if len(in) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one expense is required")
	}

	for i, item := range in {
		if !item.Bucket.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidBucket,
				fmt.Sprintf("item %d: bucket must be 'lift' or 'alumni_association'", i))
		}
	}

	results := make([]BulkExpenseResult, 0, len(in))
	for i, item := range in {
		result := BulkExpenseResult{Index: i}

		if err := s.validateInput(item); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		expense := s.buildExpense(item, actingAdminID)
		if err := s.db.Create(expense).Error; err != nil {
			logger.Get().Errorw("bulk expense item failed to persist",
				"index", i,
				"error", err,
			)
			result.Error = apperrors.ErrInternalServer.Message
			results = append(results, result)
			continue
		}

		result.Expense = expense
		results = append(results, result)
	}
	return results, nil
}

// Update applies a partial update. An explicit null on Vendor or EventID
// clears the column; absent fields are left unchanged.
func (s *expenseService) Update(id uint, update ExpenseUpdate, actingAdminID uint) (*models.Expense, error) {
	expense, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.ErrInvalidAmount
		}
		updates["amount"] = *update.Amount
	}
	if update.Purpose != nil {
		if *update.Purpose == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "purpose cannot be empty")
		}
		updates["purpose"] = *update.Purpose
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Bucket != nil {
		if !update.Bucket.Valid() {
			return nil, apperrors.ErrInvalidBucket
		}
		updates["bucket"] = *update.Bucket
	}
	if update.Vendor.Set {
		if update.Vendor.Valid {
			updates["vendor"] = update.Vendor.Value
		} else {
			updates["vendor"] = nil
		}
	}
	if update.EventID.Set {
		if update.EventID.Valid {
			var count int64
			s.db.Model(&models.Event{}).Where("id = ?", update.EventID.Value).Count(&count)
			if count == 0 {
				return nil, apperrors.ErrEventNotFound
			}
			updates["event_id"] = update.EventID.Value
		} else {
			updates["event_id"] = nil
		}
	}
	if update.Status != nil {
		updates["status"] = *update.Status
		switch *update.Status {
		case models.EntryStatusApproved, models.EntryStatusRejected:
			updates["approved_by_id"] = actingAdminID
			updates["approved_at"] = time.Now()
		default:
			updates["approved_by_id"] = nil
			updates["approved_at"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetByID(id)
}

// Approve marks the expense approved and appends one audit entry. Like the
// contribution ledger, re-approving re-stamps and adds another trail row.
func (s *expenseService) Approve(id, actingAdminID uint, note string) (*models.Expense, error) {
	return s.transition(id, models.EntryStatusApproved, models.AuditActionApproved, actingAdminID, note)
}

// Reject marks the expense rejected and appends one audit entry.
func (s *expenseService) Reject(id, actingAdminID uint, note string) (*models.Expense, error) {
	return s.transition(id, models.EntryStatusRejected, models.AuditActionRejected, actingAdminID, note)
}

func (s *expenseService) transition(
	id uint,
	status models.EntryStatus,
	action models.AuditAction,
	actingAdminID uint,
	note string,
) (*models.Expense, error) {
	expense, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         status,
		"approved_by_id": actingAdminID,
		"approved_at":    now,
	}
	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.auditService.Append(models.AuditEntityExpense, id, action, actingAdminID, note); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete soft-deletes an expense. Trail rows referencing it are kept; the
// audit reference is intentionally weak.
func (s *expenseService) Delete(id uint) error {
	expense, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetByID retrieves an expense with its submitter expanded.
func (s *expenseService) GetByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("SubmittedBy").First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// List returns expenses matching the filter, newest created first.
func (s *expenseService) List(filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Bucket != nil {
		base = base.Where("bucket = ?", *filter.Bucket)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.EventID != nil {
		base = base.Where("event_id = ?", *filter.EventID)
	}
	if filter.SubmittedByID != nil {
		base = base.Where("submitted_by_id = ?", *filter.SubmittedByID)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("SubmittedBy").
		Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ClearEventRefs nulls the event reference on every expense tied to the
// event. Called when the event is deleted; the expenses themselves remain.
func (s *expenseService) ClearEventRefs(eventID uint) (int64, error) {
	result := s.db.Model(&models.Expense{}).
		Where("event_id = ?", eventID).
		Update("event_id", nil)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}
