package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "lift/internal/errors"
	"lift/internal/models"
	"lift/internal/services"
)

// ReportHandler handles budget reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetBudgetReport handles the budget report
// @Summary     Get budget report
// @Description Aggregate contributions and expenses into totals, per-bucket balances, and breakdowns. Approved entries only unless a status filter is given. A bucket filter narrows the headline totals (contributions count only that fund's share) but the per-bucket breakdown always covers both funds. Non-admin callers see only their own records.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (pending, approved, rejected); default approved"
// @Param       type      query string false "Filter contributions by type (basic, additional)"
// @Param       bucket    query string false "Narrow headline totals to one bucket (lift, alumni_association)"
// @Param       event_id  query int    false "Filter expenses by event ID"
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} services.BudgetReport "Budget report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/budget [get]
func (h *ReportHandler) GetBudgetReport(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.BudgetReport(filter, getRole(c), memberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func parseReportFilter(c *gin.Context) (services.ReportFilter, error) {
	var filter services.ReportFilter

	if v := c.Query("status"); v != "" {
		status := models.EntryStatus(v)
		switch status {
		case models.EntryStatusPending, models.EntryStatusApproved, models.EntryStatusRejected:
			filter.Status = &status
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status, must be pending, approved, or rejected")
		}
	}

	if v := c.Query("type"); v != "" {
		ctype := models.ContributionType(v)
		switch ctype {
		case models.ContributionTypeBasic, models.ContributionTypeAdditional:
			filter.Type = &ctype
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be basic or additional")
		}
	}

	if v := c.Query("bucket"); v != "" {
		bucket := models.Bucket(v)
		if !bucket.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid bucket, must be lift or alumni_association")
		}
		filter.Bucket = &bucket
	}

	if v := c.Query("event_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid event_id")
		}
		eventID := uint(id)
		filter.EventID = &eventID
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	return filter, nil
}
