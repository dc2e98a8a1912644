package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lift/internal/errors"
	"lift/internal/models"
	"lift/internal/pagination"
	"lift/internal/patch"
	"lift/internal/services"
)

// ContributionHandler handles contribution ledger requests.
type ContributionHandler struct {
	contributionService services.ContributionServicer
	auditService        services.AuditServicer
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(contributionService services.ContributionServicer, auditService services.AuditServicer) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService, auditService: auditService}
}

// CreateContributionRequest represents the request payload for recording a
// contribution. Percentages are required for additional contributions and
// ignored for basic ones.
type CreateContributionRequest struct {
	MemberID       uint                    `json:"member_id"`
	Amount         int64                   `json:"amount" binding:"required,gt=0"`
	Type           models.ContributionType `json:"type" binding:"required,contribution_type"`
	Date           *string                 `json:"date"`
	Notes          *string                 `json:"notes" binding:"omitempty,max=500"`
	LiftPercentage *float64                `json:"lift_percentage"`
	AAPercentage   *float64                `json:"aa_percentage"`
}

// ContributionResponse represents a contribution in the response
type ContributionResponse struct {
	ID             uint                    `json:"id"`
	MemberID       uint                    `json:"member_id"`
	Amount         int64                   `json:"amount"`
	Type           models.ContributionType `json:"type"`
	Status         models.EntryStatus      `json:"status"`
	LiftPercentage float64                 `json:"lift_percentage"`
	AAPercentage   float64                 `json:"aa_percentage"`
	LiftAmount     int64                   `json:"lift_amount"`
	AAAmount       int64                   `json:"aa_amount"`
	Date           time.Time               `json:"date"`
}

func (h *ContributionHandler) bindInput(c *gin.Context) (*services.ContributionInput, error) {
	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	in := services.ContributionInput{
		MemberID:       req.MemberID,
		Amount:         req.Amount,
		Type:           req.Type,
		Notes:          req.Notes,
		LiftPercentage: req.LiftPercentage,
		AAPercentage:   req.AAPercentage,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseFlexibleTime(*req.Date)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD")
		}
		in.Date = parsed
	}
	return &in, nil
}

// CreateContribution records a contribution on behalf of a member
// @Summary     Record a contribution (admin)
// @Description Record a contribution for any member. Admin-entered contributions are approved immediately.
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateContributionRequest true "Contribution details"
// @Success     201 {object} ContributionResponse "Contribution recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or split"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions [post]
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	adminID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in, err := h.bindInput(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contribution, err := h.contributionService.Create(*in, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contribution": contribution})
}

// SelfCreateContribution records the caller's own contribution
// @Summary     Submit own contribution
// @Description Submit a contribution for the authenticated member. Self-submitted contributions enter as pending.
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateContributionRequest true "Contribution details (member_id is ignored)"
// @Success     201 {object} ContributionResponse "Contribution submitted"
// @Failure     400 {object} ErrorResponse "Invalid input or split"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/self [post]
func (h *ContributionHandler) SelfCreateContribution(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in, err := h.bindInput(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The caller can only submit for themselves.
	in.MemberID = memberID

	contribution, err := h.contributionService.SelfCreate(*in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contribution": contribution})
}

// UpdateContributionRequest represents a partial contribution update.
// notes set to null clears the notes; omitting it leaves them unchanged.
type UpdateContributionRequest struct {
	Amount         *int64                   `json:"amount" binding:"omitempty,gt=0"`
	Type           *models.ContributionType `json:"type" binding:"omitempty,contribution_type"`
	Status         *models.EntryStatus      `json:"status" binding:"omitempty,entry_status"`
	Date           *string                  `json:"date"`
	Notes          patch.Field[string]      `json:"notes"`
	LiftPercentage *float64                 `json:"lift_percentage"`
	AAPercentage   *float64                 `json:"aa_percentage"`
}

// UpdateContribution handles partial updates of a contribution
// @Summary     Update contribution
// @Description Update a contribution. The fund split is recomputed from the effective amount and type; basic contributions re-derive percentages from the current system default.
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Contribution ID"
// @Param       request body UpdateContributionRequest true "Fields to update"
// @Success     200 {object} ContributionResponse "Updated contribution"
// @Failure     400 {object} ErrorResponse "Invalid input or split"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id} [put]
func (h *ContributionHandler) UpdateContribution(c *gin.Context) {
	adminID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ContributionUpdate{
		Amount:         req.Amount,
		Type:           req.Type,
		Status:         req.Status,
		LiftPercentage: req.LiftPercentage,
		AAPercentage:   req.AAPercentage,
		Notes:          req.Notes,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		update.Date = &parsed
	}

	contribution, err := h.contributionService.Update(id, update, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// ReviewRequest carries the optional note attached to an approval decision.
type ReviewRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// ApproveContribution approves a contribution
// @Summary     Approve contribution
// @Description Approve a contribution. Approval is recorded in the audit trail; re-approving re-stamps and appends another trail entry.
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true  "Contribution ID"
// @Param       request body ReviewRequest false "Optional note"
// @Success     200 {object} ContributionResponse "Approved contribution"
// @Failure     400 {object} ErrorResponse "Invalid contribution ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id}/approve [post]
func (h *ContributionHandler) ApproveContribution(c *gin.Context) {
	h.review(c, h.contributionService.Approve)
}

// RejectContribution rejects a contribution
// @Summary     Reject contribution
// @Description Reject a contribution. The decision is recorded in the audit trail.
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true  "Contribution ID"
// @Param       request body ReviewRequest false "Optional note"
// @Success     200 {object} ContributionResponse "Rejected contribution"
// @Failure     400 {object} ErrorResponse "Invalid contribution ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id}/reject [post]
func (h *ContributionHandler) RejectContribution(c *gin.Context) {
	h.review(c, h.contributionService.Reject)
}

func (h *ContributionHandler) review(c *gin.Context, decide func(id, adminID uint, note string) (*models.Contribution, error)) {
	adminID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	contribution, err := decide(id, adminID, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// GetContributionByID handles the retrieval of a specific contribution
// @Summary     Get contribution by ID
// @Description Get a specific contribution with its member
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Contribution ID"
// @Success     200 {object} ContributionResponse "Contribution details"
// @Failure     400 {object} ErrorResponse "Invalid contribution ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id} [get]
func (h *ContributionHandler) GetContributionByID(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contribution, err := h.contributionService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Members can only read their own contributions.
	if getRole(c) != models.MemberRoleAdmin && contribution.MemberID != memberID {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// ListContributions handles the retrieval of contributions
// @Summary     List contributions
// @Description Get a paginated list of contributions with optional filters. Non-admin callers only see their own.
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Filter by status (pending, approved, rejected)"
// @Param       type      query string false "Filter by type (basic, additional)"
// @Param       member_id query int    false "Filter by member ID (admin only)"
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Contribution] "Paginated contributions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions [get]
func (h *ContributionHandler) ListContributions(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseContributionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Non-admin callers are always scoped to their own records.
	if getRole(c) != models.MemberRoleAdmin {
		filter.MemberID = &memberID
	}

	result, err := h.contributionService.List(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseContributionFilter(c *gin.Context) (services.ContributionFilter, error) {
	var filter services.ContributionFilter

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

	if v := c.Query("member_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid member_id")
		}
		memberID := uint(id)
		filter.MemberID = &memberID
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

// GetContributionAudit handles the retrieval of a contribution's audit trail
// @Summary     Get contribution audit trail
// @Description Get the approval history of a contribution, newest first
// @Tags        contributions,audit
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Contribution ID"
// @Success     200 {object} map[string][]models.AuditLogEntry "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid contribution ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id}/audit [get]
func (h *ContributionHandler) GetContributionAudit(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.contributionService.GetByID(id); err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.auditService.ListFor(models.AuditEntityContribution, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": entries})
}
