package services

import (
	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/models"
)

// reportService aggregates both ledgers into budget reports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// BudgetReport builds the aggregate view of contributions and expenses.
//
// The overall contribution total honors the bucket filter by summing the
// matching split column (lift_amount or aa_amount) instead of the gross
// amount. The per-bucket breakdown always covers both funds in full; the
// bucket filter narrows the headline totals, not the breakdown.
//
// Non-admin callers are scoped to contributions they own and expenses they
// submitted; the report then reads as a personal statement.
func (s *reportService) BudgetReport(filter ReportFilter, callerRole models.MemberRole, callerID uint) (*BudgetReport, error) {
	status := models.EntryStatusApproved
	if filter.Status != nil {
		status = *filter.Status
	}

	report := &BudgetReport{
		Buckets:             make(map[models.Bucket]BucketTotals, 2),
		ContributionsByType: make(map[models.ContributionType]int64, 2),
		ExpensesByCategory:  []CategoryTotal{},
		ExpensesByBucket:    []CategoryBucketTotal{},
	}

	scoped := callerRole != models.MemberRoleAdmin

	contributions := func() *gorm.DB {
		q := s.db.Model(&models.Contribution{}).Where("status = ?", status)
		if filter.Type != nil {
			q = q.Where("type = ?", *filter.Type)
		}
		if filter.FromDate != nil {
			q = q.Where("date >= ?", *filter.FromDate)
		}
		if filter.ToDate != nil {
			q = q.Where("date <= ?", *filter.ToDate)
		}
		if scoped {
			q = q.Where("member_id = ?", callerID)
		}
		return q
	}

	expenses := func() *gorm.DB {
		q := s.db.Model(&models.Expense{}).Where("status = ?", status)
		if filter.EventID != nil {
			q = q.Where("event_id = ?", *filter.EventID)
		}
		if filter.FromDate != nil {
			q = q.Where("date >= ?", *filter.FromDate)
		}
		if filter.ToDate != nil {
			q = q.Where("date <= ?", *filter.ToDate)
		}
		if scoped {
			q = q.Where("submitted_by_id = ?", callerID)
		}
		return q
	}

	// Headline contribution total. With a bucket filter only that fund's
	// share of each contribution counts.
	contributionColumn := "COALESCE(SUM(amount), 0)"
	if filter.Bucket != nil {
		switch *filter.Bucket {
		case models.BucketLift:
			contributionColumn = "COALESCE(SUM(lift_amount), 0)"
		case models.BucketAlumni:
			contributionColumn = "COALESCE(SUM(aa_amount), 0)"
		default:
			return nil, apperrors.ErrInvalidBucket
		}
	}
	if err := contributions().Select(contributionColumn).Scan(&report.TotalContributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expenseTotals := expenses()
	if filter.Bucket != nil {
		expenseTotals = expenseTotals.Where("bucket = ?", *filter.Bucket)
	}
	if err := expenseTotals.Select("COALESCE(SUM(amount), 0)").Scan(&report.TotalExpenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report.Remaining = report.TotalContributions - report.TotalExpenses

	for bucket, column := range map[models.Bucket]string{
		models.BucketLift:   "COALESCE(SUM(lift_amount), 0)",
		models.BucketAlumni: "COALESCE(SUM(aa_amount), 0)",
	} {
		var in, out int64
		if err := contributions().Select(column).Scan(&in).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := expenses().Where("bucket = ?", bucket).
			Select("COALESCE(SUM(amount), 0)").Scan(&out).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		report.Buckets[bucket] = BucketTotals{
			Contributions: in,
			Expenses:      out,
			Balance:       in - out,
		}
	}

	var byType []struct {
		Type  models.ContributionType
		Total int64
	}
	if err := contributions().
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range byType {
		report.ContributionsByType[row.Type] = row.Total
	}

	if err := expenses().
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("category ASC").
		Scan(&report.ExpensesByCategory).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := expenses().
		Select("category, bucket, COALESCE(SUM(amount), 0) AS total").
		Group("category, bucket").
		Order("category ASC, bucket ASC").
		Scan(&report.ExpensesByBucket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return report, nil
}
