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

// ExpenseHandler handles expense ledger requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an
// expense. Every expense is charged wholly to one bucket.
type CreateExpenseRequest struct {
	Amount   int64         `json:"amount" binding:"required,gt=0"`
	Vendor   *string       `json:"vendor" binding:"omitempty,max=255"`
	Purpose  string        `json:"purpose" binding:"required,max=500"`
	Date     *string       `json:"date"`
	Category string        `json:"category" binding:"max=100"`
	Bucket   models.Bucket `json:"bucket" binding:"required,bucket"`
	EventID  *uint         `json:"event_id"`
}

// ExpenseResponse represents an expense in the response
type ExpenseResponse struct {
	ID       uint               `json:"id"`
	Amount   int64              `json:"amount"`
	Vendor   *string            `json:"vendor,omitempty"`
	Purpose  string             `json:"purpose"`
	Category string             `json:"category"`
	Bucket   models.Bucket      `json:"bucket"`
	Status   models.EntryStatus `json:"status"`
	EventID  *uint              `json:"event_id,omitempty"`
	Date     time.Time          `json:"date"`
}

func (r CreateExpenseRequest) toInput() (services.ExpenseInput, error) {
	in := services.ExpenseInput{
		Amount:   r.Amount,
		Vendor:   r.Vendor,
		Purpose:  r.Purpose,
		Category: r.Category,
		Bucket:   r.Bucket,
		EventID:  r.EventID,
	}
	if r.Date != nil && *r.Date != "" {
		parsed, err := parseFlexibleTime(*r.Date)
		if err != nil {
			return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD")
		}
		in.Date = parsed
	}
	return in, nil
}

// CreateExpense records a single expense
// @Summary     Record an expense
// @Description Record an expense charged to one fund bucket
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseResponse "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or bucket"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	adminID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Create(in, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// BulkCreateExpenseRequest represents the request payload for a bulk create.
type BulkCreateExpenseRequest struct {
	Expenses []CreateExpenseRequest `json:"expenses" binding:"required,min=1,max=100,dive"`
}

// BulkCreateExpenses records a batch of expenses
// @Summary     Record expenses in bulk
// @Description Record several expenses at once. The whole batch is rejected if any item is missing a valid bucket; otherwise items are written independently and a per-item result is returned.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkCreateExpenseRequest true "Batch of expenses"
// @Success     207 {object} map[string][]services.BulkExpenseResult "Per-item results"
// @Failure     400 {object} ErrorResponse "Invalid input or a missing bucket"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/bulk [post]
func (h *ExpenseHandler) BulkCreateExpenses(c *gin.Context) {
	adminID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkCreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.ExpenseInput, 0, len(req.Expenses))
	for _, item := range req.Expenses {
		in, convErr := item.toInput()
		if convErr != nil {
			respondWithError(c, convErr)
			return
		}
		inputs = append(inputs, in)
	}

	results, err := h.expenseService.CreateBulk(inputs, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusMultiStatus, gin.H{"results": results})
}

// UpdateExpenseRequest represents a partial expense update. vendor and
// event_id set to null clear the columns; omitting them leaves them as is.
type UpdateExpenseRequest struct {
	Amount   *int64              `json:"amount" binding:"omitempty,gt=0"`
	Vendor   patch.Field[string] `json:"vendor"`
	Purpose  *string             `json:"purpose" binding:"omitempty,max=500"`
	Date     *string             `json:"date"`
	Category *string             `json:"category" binding:"omitempty,max=100"`
	Bucket   *models.Bucket      `json:"bucket" binding:"omitempty,bucket"`
	EventID  patch.Field[uint]   `json:"event_id"`
	Status   *models.EntryStatus `json:"status" binding:"omitempty,entry_status"`
}

// UpdateExpense handles partial updates of an expense
// @Summary     Update expense
// @Description Update an expense. A status change here re-stamps the approver but does not append an audit entry; use the approve/reject endpoints for audited decisions.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} ExpenseResponse "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or bucket"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Expense or event not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
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

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{
		Amount:   req.Amount,
		Vendor:   req.Vendor,
		Purpose:  req.Purpose,
		Category: req.Category,
		Bucket:   req.Bucket,
		EventID:  req.EventID,
		Status:   req.Status,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		update.Date = &parsed
	}

	expense, err := h.expenseService.Update(id, update, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// ApproveExpense approves an expense
// @Summary     Approve expense
// @Description Approve an expense. The decision is recorded in the audit trail.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true  "Expense ID"
// @Param       request body ReviewRequest false "Optional note"
// @Success     200 {object} ExpenseResponse "Approved expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	h.review(c, h.expenseService.Approve)
}

// RejectExpense rejects an expense
// @Summary     Reject expense
// @Description Reject an expense. The decision is recorded in the audit trail.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true  "Expense ID"
// @Param       request body ReviewRequest false "Optional note"
// @Success     200 {object} ExpenseResponse "Rejected expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	h.review(c, h.expenseService.Reject)
}

func (h *ExpenseHandler) review(c *gin.Context, decide func(id, adminID uint, note string) (*models.Expense, error)) {
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

	expense, err := decide(id, adminID, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// GetExpenseByID handles the retrieval of a specific expense
// @Summary     Get expense by ID
// @Description Get a specific expense with its submitter
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} ExpenseResponse "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles the deletion of an expense
// @Summary     Delete expense
// @Description Delete an expense by ID. Its audit trail entries are kept.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// ListExpenses handles the retrieval of expenses
// @Summary     List expenses
// @Description Get a paginated list of expenses with optional filters
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Filter by status (pending, approved, rejected)"
// @Param       bucket    query string false "Filter by bucket (lift, alumni_association)"
// @Param       category  query string false "Filter by category"
// @Param       event_id  query int    false "Filter by event ID"
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.List(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("status"); v != "" {
		status := models.EntryStatus(v)
		switch status {
		case models.EntryStatusPending, models.EntryStatusApproved, models.EntryStatusRejected:
			filter.Status = &status
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status, must be pending, approved, or rejected")
		}
	}

	if v := c.Query("bucket"); v != "" {
		bucket := models.Bucket(v)
		if !bucket.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid bucket, must be lift or alumni_association")
		}
		filter.Bucket = &bucket
	}

	if v := c.Query("category"); v != "" {
		filter.Category = &v
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

// GetExpenseAudit handles the retrieval of an expense's audit trail
// @Summary     Get expense audit trail
// @Description Get the approval history of an expense, newest first
// @Tags        expenses,audit
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} map[string][]models.AuditLogEntry "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/audit [get]
func (h *ExpenseHandler) GetExpenseAudit(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.expenseService.GetByID(id); err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.auditService.ListFor(models.AuditEntityExpense, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": entries})
}
