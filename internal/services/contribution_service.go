package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/models"
	"lift/internal/pagination"
)

// contributionService handles the contribution ledger.
type contributionService struct {
	db           *gorm.DB
	settings     SettingServicer
	auditService AuditServicer
}

// NewContributionService creates a new ContributionServicer.
func NewContributionService(db *gorm.DB, settings SettingServicer, auditService AuditServicer) ContributionServicer {
	return &contributionService{db: db, settings: settings, auditService: auditService}
}

// Create records an admin-authored contribution. Records entered by an
// administrator are approved at creation; there is no pending intake step
// on this path.
func (s *contributionService) Create(in ContributionInput, actingAdminID uint) (*models.Contribution, error) {
	contribution, err := s.buildContribution(in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	contribution.Status = models.EntryStatusApproved
	contribution.CreatedByID = actingAdminID
	contribution.ApprovedByID = &actingAdminID
	contribution.ApprovedAt = &now

	if err := s.db.Create(contribution).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetByID(contribution.ID)
}

// SelfCreate records a contribution submitted by the member themselves.
// The status is left to the schema default (pending) and no approver is
// stamped.
func (s *contributionService) SelfCreate(in ContributionInput) (*models.Contribution, error) {
	contribution, err := s.buildContribution(in)
	if err != nil {
		return nil, err
	}

	contribution.CreatedByID = in.MemberID

	if err := s.db.Create(contribution).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetByID(contribution.ID)
}

// buildContribution validates the input and computes the fund split.
func (s *contributionService) buildContribution(in ContributionInput) (*models.Contribution, error) {
	if in.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if in.MemberID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member ID is required")
	}

	var member models.Member
	if err := s.db.First(&member, in.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	split, err := ComputeSplit(in.Amount, in.Type, in.LiftPercentage, in.AAPercentage, s.settings.BasicSplitPercent())
	if err != nil {
		return nil, err
	}

	return &models.Contribution{
		MemberID:       in.MemberID,
		Amount:         in.Amount,
		Date:           date,
		Type:           in.Type,
		LiftPercentage: split.LiftPercentage,
		AAPercentage:   split.AAPercentage,
		LiftAmount:     split.LiftAmount,
		AAAmount:       split.AAAmount,
		Notes:          in.Notes,
	}, nil
}

// Update applies a partial update and recomputes the fund split.
//
// For an effective type of basic the percentages are re-derived from the
// current system default unconditionally: editing a contribution that
// predates a settings change re-applies the current default rather than
// preserving the historical one. For additional, payload percentages are
// used when present (falling back per side to the stored value) and must
// satisfy the 100-sum rule.
//
// A status change through Update re-stamps the approver and timestamp but
// writes no audit entry; only Approve and Reject touch the trail.
func (s *contributionService) Update(id uint, update ContributionUpdate, actingAdminID uint) (*models.Contribution, error) {
	contribution, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	amount := contribution.Amount
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.ErrInvalidAmount
		}
		amount = *update.Amount
	}

	effectiveType := contribution.Type
	if update.Type != nil {
		effectiveType = *update.Type
	}

	liftPct := contribution.LiftPercentage
	aaPct := contribution.AAPercentage
	if update.LiftPercentage != nil {
		liftPct = *update.LiftPercentage
	}
	if update.AAPercentage != nil {
		aaPct = *update.AAPercentage
	}

	split, err := ComputeSplit(amount, effectiveType, &liftPct, &aaPct, s.settings.BasicSplitPercent())
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"amount":          amount,
		"type":            effectiveType,
		"lift_percentage": split.LiftPercentage,
		"aa_percentage":   split.AAPercentage,
		"lift_amount":     split.LiftAmount,
		"aa_amount":       split.AAAmount,
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Notes.Set {
		if update.Notes.Valid {
			updates["notes"] = update.Notes.Value
		} else {
			updates["notes"] = nil
		}
	}
	if update.Status != nil {
		updates["status"] = *update.Status
		switch *update.Status {
		case models.EntryStatusApproved, models.EntryStatusRejected:
			updates["approved_by_id"] = actingAdminID
			updates["approved_at"] = time.Now()
		default:
			// approved_at is only meaningful on approved/rejected records
			updates["approved_by_id"] = nil
			updates["approved_at"] = nil
		}
	}

	if err := s.db.Model(contribution).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetByID(id)
}

// Approve marks the contribution approved and appends one audit entry.
// Permitted from any current status: re-approving re-stamps the approver
// and adds another trail row rather than deduplicating.
func (s *contributionService) Approve(id, actingAdminID uint, note string) (*models.Contribution, error) {
	return s.transition(id, models.EntryStatusApproved, models.AuditActionApproved, actingAdminID, note)
}

// Reject marks the contribution rejected and appends one audit entry.
func (s *contributionService) Reject(id, actingAdminID uint, note string) (*models.Contribution, error) {
	return s.transition(id, models.EntryStatusRejected, models.AuditActionRejected, actingAdminID, note)
}

func (s *contributionService) transition(
	id uint,
	status models.EntryStatus,
	action models.AuditAction,
	actingAdminID uint,
	note string,
) (*models.Contribution, error) {
	contribution, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         status,
		"approved_by_id": actingAdminID,
		"approved_at":    now,
	}
	if err := s.db.Model(contribution).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.auditService.Append(models.AuditEntityContribution, id, action, actingAdminID, note); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// GetByID retrieves a contribution with its owning member expanded.
func (s *contributionService) GetByID(id uint) (*models.Contribution, error) {
	var contribution models.Contribution
	if err := s.db.Preload("Member").First(&contribution, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContributionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &contribution, nil
}

// List returns contributions matching the filter, newest created first.
func (s *contributionService) List(filter ContributionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Contribution], error) {
	page.Defaults()

	base := s.db.Model(&models.Contribution{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.MemberID != nil {
		base = base.Where("member_id = ?", *filter.MemberID)
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

	var contributions []models.Contribution
	if err := base.Preload("Member").
		Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(contributions, page.Page, page.PageSize, totalItems)
	return &result, nil
}
