package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lift/internal/models"
	"lift/internal/pagination"
	"lift/internal/services"
	"lift/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock services ---

type mockMemberService struct {
	createMemberFn     func(email, password, firstName, lastName, phone string, role models.MemberRole) (*models.Member, error)
	getMemberByEmailFn func(email string) (*models.Member, error)
	getMemberByIDFn    func(id uint) (*models.Member, error)
	attemptLoginFn     func(email, password string) (*models.Member, error)
	updateMemberFn     func(id uint, update services.MemberUpdate) (*models.Member, error)
}

func (m *mockMemberService) CreateMember(email, password, firstName, lastName, phone string, role models.MemberRole) (*models.Member, error) {
	if m.createMemberFn != nil {
		return m.createMemberFn(email, password, firstName, lastName, phone, role)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) GetMemberByEmail(email string) (*models.Member, error) {
	if m.getMemberByEmailFn != nil {
		return m.getMemberByEmailFn(email)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) GetMemberByID(id uint) (*models.Member, error) {
	if m.getMemberByIDFn != nil {
		return m.getMemberByIDFn(id)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) AttemptLogin(email, password string) (*models.Member, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) UpdateMember(id uint, update services.MemberUpdate) (*models.Member, error) {
	if m.updateMemberFn != nil {
		return m.updateMemberFn(id, update)
	}
	return &models.Member{}, nil
}

type mockContributionService struct {
	createFn     func(in services.ContributionInput, actingAdminID uint) (*models.Contribution, error)
	selfCreateFn func(in services.ContributionInput) (*models.Contribution, error)
	updateFn     func(id uint, update services.ContributionUpdate, actingAdminID uint) (*models.Contribution, error)
	approveFn    func(id, actingAdminID uint, note string) (*models.Contribution, error)
	rejectFn     func(id, actingAdminID uint, note string) (*models.Contribution, error)
	getByIDFn    func(id uint) (*models.Contribution, error)
	listFn       func(filter services.ContributionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Contribution], error)
}

func (m *mockContributionService) Create(in services.ContributionInput, actingAdminID uint) (*models.Contribution, error) {
	if m.createFn != nil {
		return m.createFn(in, actingAdminID)
	}
	return &models.Contribution{}, nil
}

func (m *mockContributionService) SelfCreate(in services.ContributionInput) (*models.Contribution, error) {
	if m.selfCreateFn != nil {
		return m.selfCreateFn(in)
	}
	return &models.Contribution{}, nil
}

func (m *mockContributionService) Update(id uint, update services.ContributionUpdate, actingAdminID uint) (*models.Contribution, error) {
	if m.updateFn != nil {
		return m.updateFn(id, update, actingAdminID)
	}
	return &models.Contribution{}, nil
}

func (m *mockContributionService) Approve(id, actingAdminID uint, note string) (*models.Contribution, error) {
	if m.approveFn != nil {
		return m.approveFn(id, actingAdminID, note)
	}
	return &models.Contribution{}, nil
}

func (m *mockContributionService) Reject(id, actingAdminID uint, note string) (*models.Contribution, error) {
	if m.rejectFn != nil {
		return m.rejectFn(id, actingAdminID, note)
	}
	return &models.Contribution{}, nil
}

func (m *mockContributionService) GetByID(id uint) (*models.Contribution, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.Contribution{}, nil
}

func (m *mockContributionService) List(filter services.ContributionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Contribution], error) {
	if m.listFn != nil {
		return m.listFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Contribution{}, 1, 20, 0)
	return &resp, nil
}

type mockExpenseService struct {
	createFn        func(in services.ExpenseInput, actingAdminID uint) (*models.Expense, error)
	createBulkFn    func(in []services.ExpenseInput, actingAdminID uint) ([]services.BulkExpenseResult, error)
	updateFn        func(id uint, update services.ExpenseUpdate, actingAdminID uint) (*models.Expense, error)
	approveFn       func(id, actingAdminID uint, note string) (*models.Expense, error)
	rejectFn        func(id, actingAdminID uint, note string) (*models.Expense, error)
	deleteFn        func(id uint) error
	getByIDFn       func(id uint) (*models.Expense, error)
	listFn          func(filter services.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	clearEventRefFn func(eventID uint) (int64, error)
}

func (m *mockExpenseService) Create(in services.ExpenseInput, actingAdminID uint) (*models.Expense, error) {
	if m.createFn != nil {
		return m.createFn(in, actingAdminID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) CreateBulk(in []services.ExpenseInput, actingAdminID uint) ([]services.BulkExpenseResult, error) {
	if m.createBulkFn != nil {
		return m.createBulkFn(in, actingAdminID)
	}
	return nil, nil
}

func (m *mockExpenseService) Update(id uint, update services.ExpenseUpdate, actingAdminID uint) (*models.Expense, error) {
	if m.updateFn != nil {
		return m.updateFn(id, update, actingAdminID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Approve(id, actingAdminID uint, note string) (*models.Expense, error) {
	if m.approveFn != nil {
		return m.approveFn(id, actingAdminID, note)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Reject(id, actingAdminID uint, note string) (*models.Expense, error) {
	if m.rejectFn != nil {
		return m.rejectFn(id, actingAdminID, note)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Delete(id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockExpenseService) GetByID(id uint) (*models.Expense, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) List(filter services.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listFn != nil {
		return m.listFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) ClearEventRefs(eventID uint) (int64, error) {
	if m.clearEventRefFn != nil {
		return m.clearEventRefFn(eventID)
	}
	return 0, nil
}

type mockAuditService struct {
	appendFn  func(entityType models.AuditEntityType, entityID uint, action models.AuditAction, actingUserID uint, note string) (*models.AuditLogEntry, error)
	listForFn func(entityType models.AuditEntityType, entityID uint) ([]models.AuditLogEntry, error)
}

func (m *mockAuditService) Append(entityType models.AuditEntityType, entityID uint, action models.AuditAction, actingUserID uint, note string) (*models.AuditLogEntry, error) {
	if m.appendFn != nil {
		return m.appendFn(entityType, entityID, action, actingUserID, note)
	}
	return &models.AuditLogEntry{}, nil
}

func (m *mockAuditService) ListFor(entityType models.AuditEntityType, entityID uint) ([]models.AuditLogEntry, error) {
	if m.listForFn != nil {
		return m.listForFn(entityType, entityID)
	}
	return nil, nil
}

type mockSettingService struct {
	getFn func(key string) (*models.Setting, error)
	setFn func(key, value, description string, actingAdminID uint) (*models.Setting, error)
}

func (m *mockSettingService) Get(key string) (*models.Setting, error) {
	if m.getFn != nil {
		return m.getFn(key)
	}
	return &models.Setting{}, nil
}

func (m *mockSettingService) Set(key, value, description string, actingAdminID uint) (*models.Setting, error) {
	if m.setFn != nil {
		return m.setFn(key, value, description, actingAdminID)
	}
	return &models.Setting{}, nil
}

func (m *mockSettingService) BasicSplitPercent() float64 { return 50 }

type mockReportService struct {
	budgetReportFn func(filter services.ReportFilter, callerRole models.MemberRole, callerID uint) (*services.BudgetReport, error)
}

func (m *mockReportService) BudgetReport(filter services.ReportFilter, callerRole models.MemberRole, callerID uint) (*services.BudgetReport, error) {
	if m.budgetReportFn != nil {
		return m.budgetReportFn(filter, callerRole, callerID)
	}
	return &services.BudgetReport{}, nil
}

// --- test helpers ---

func injectAuth(memberID uint, role models.MemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("memberID", memberID)
		c.Set("role", role)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
