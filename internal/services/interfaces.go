package services

import (
	"time"

	"lift/internal/models"
	"lift/internal/pagination"
	"lift/internal/patch"
)

// MemberServicer defines the contract for member-related business logic.
type MemberServicer interface {
	CreateMember(email, password, firstName, lastName, phone string, role models.MemberRole) (*models.Member, error)
	GetMemberByEmail(email string) (*models.Member, error)
	GetMemberByID(id uint) (*models.Member, error)
	AttemptLogin(email, password string) (*models.Member, error)
	UpdateMember(id uint, update MemberUpdate) (*models.Member, error)
}

// MemberUpdate holds the optional fields of a member update payload.
// OfficePosition distinguishes "absent" from an explicit null (step down
// from office) via the patch field.
type MemberUpdate struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	OfficePosition patch.Field[string]
	IsActive       *bool
}

// SettingServicer defines the contract for system settings.
type SettingServicer interface {
	Get(key string) (*models.Setting, error)
	Set(key, value, description string, actingAdminID uint) (*models.Setting, error)
	// BasicSplitPercent returns the current default LIFT percentage for
	// basic contributions, falling back to DefaultLiftSplitPercent when the
	// setting is unset, unparsable, or out of range.
	BasicSplitPercent() float64
}

// ContributionInput holds the fields for creating a contribution.
type ContributionInput struct {
	MemberID       uint
	Amount         int64
	Date           time.Time
	Type           models.ContributionType
	Notes          *string
	LiftPercentage *float64
	AAPercentage   *float64
}

// ContributionUpdate holds the optional fields of a contribution update
// payload. Nil pointer fields are left unchanged.
type ContributionUpdate struct {
	Amount         *int64
	Date           *time.Time
	Type           *models.ContributionType
	Status         *models.EntryStatus
	LiftPercentage *float64
	AAPercentage   *float64
	Notes          patch.Field[string]
}

// ContributionFilter holds optional filter parameters for listing contributions.
type ContributionFilter struct {
	Status   *models.EntryStatus
	Type     *models.ContributionType
	MemberID *uint
	FromDate *time.Time
	ToDate   *time.Time
}

// ContributionServicer defines the contract for the contribution ledger.
type ContributionServicer interface {
	// Create is the admin-authored path: records are approved on entry.
	Create(in ContributionInput, actingAdminID uint) (*models.Contribution, error)
	// SelfCreate is the alumni self-service path: records enter as pending.
	SelfCreate(in ContributionInput) (*models.Contribution, error)
	Update(id uint, update ContributionUpdate, actingAdminID uint) (*models.Contribution, error)
	Approve(id, actingAdminID uint, note string) (*models.Contribution, error)
	Reject(id, actingAdminID uint, note string) (*models.Contribution, error)
	GetByID(id uint) (*models.Contribution, error)
	List(filter ContributionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Contribution], error)
}

// ExpenseInput holds the fields for creating an expense.
type ExpenseInput struct {
	Amount   int64
	Vendor   *string
	Purpose  string
	Date     time.Time
	Category string
	Bucket   models.Bucket
	EventID  *uint
}

// ExpenseUpdate holds the optional fields of an expense update payload.
// Vendor and EventID use patch fields so an explicit null clears them.
type ExpenseUpdate struct {
	Amount   *int64
	Vendor   patch.Field[string]
	Purpose  *string
	Date     *time.Time
	Category *string
	Bucket   *models.Bucket
	EventID  patch.Field[uint]
	Status   *models.EntryStatus
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Status        *models.EntryStatus
	Bucket        *models.Bucket
	Category      *string
	EventID       *uint
	SubmittedByID *uint
	FromDate      *time.Time
	ToDate        *time.Time
}

// BulkExpenseResult reports the outcome of one item in a bulk create.
// Exactly one of Expense and Error is set.
type BulkExpenseResult struct {
	Index   int             `json:"index"`
	Expense *models.Expense `json:"expense,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ExpenseServicer defines the contract for the expense ledger.
type ExpenseServicer interface {
	Create(in ExpenseInput, actingAdminID uint) (*models.Expense, error)
	// CreateBulk validates every item's bucket before any write
	// (all-or-nothing), then persists items independently: a failure on one
	// item does not roll back the others.
	CreateBulk(in []ExpenseInput, actingAdminID uint) ([]BulkExpenseResult, error)
	Update(id uint, update ExpenseUpdate, actingAdminID uint) (*models.Expense, error)
	Approve(id, actingAdminID uint, note string) (*models.Expense, error)
	Reject(id, actingAdminID uint, note string) (*models.Expense, error)
	Delete(id uint) error
	GetByID(id uint) (*models.Expense, error)
	List(filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	// ClearEventRefs nulls the event reference on every expense tied to the
	// event. Returns the number of rows touched.
	ClearEventRefs(eventID uint) (int64, error)
}

// AuditServicer defines the contract for the append-only approval trail.
type AuditServicer interface {
	Append(entityType models.AuditEntityType, entityID uint, action models.AuditAction, actingUserID uint, note string) (*models.AuditLogEntry, error)
	ListFor(entityType models.AuditEntityType, entityID uint) ([]models.AuditLogEntry, error)
}

// ReportFilter holds optional filter parameters for the budget report.
// A nil Status defaults to approved entries only.
type ReportFilter struct {
	Status   *models.EntryStatus
	Type     *models.ContributionType
	Bucket   *models.Bucket
	EventID  *uint
	FromDate *time.Time
	ToDate   *time.Time
}

// BucketTotals holds the complete totals of one fund.
type BucketTotals struct {
	Contributions int64 `json:"contributions"`
	Expenses      int64 `json:"expenses"`
	Balance       int64 `json:"balance"`
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// CategoryBucketTotal is the expense total of one (category, bucket) pair.
type CategoryBucketTotal struct {
	Category string        `json:"category"`
	Bucket   models.Bucket `json:"bucket"`
	Total    int64         `json:"total"`
}

// BudgetReport aggregates both ledgers. All sums are 0 when nothing
// matches, never null.
type BudgetReport struct {
	TotalContributions int64 `json:"total_contributions"`
	TotalExpenses      int64 `json:"total_expenses"`
	Remaining          int64 `json:"remaining"`

	// Buckets always covers both funds in full, regardless of any bucket
	// filter on the overall totals.
	Buckets map[models.Bucket]BucketTotals `json:"buckets"`

	ContributionsByType map[models.ContributionType]int64 `json:"contributions_by_type"`
	ExpensesByCategory  []CategoryTotal                   `json:"expenses_by_category"`
	ExpensesByBucket    []CategoryBucketTotal             `json:"expenses_by_category_bucket"`
}

// ReportServicer defines the contract for budget reporting.
type ReportServicer interface {
	// BudgetReport aggregates per the filter. Non-admin callers are scoped
	// to contributions they own and expenses they submitted.
	BudgetReport(filter ReportFilter, callerRole models.MemberRole, callerID uint) (*BudgetReport, error)
}

// EventUpdate holds the optional fields of an event update payload.
type EventUpdate struct {
	Name    *string
	Date    *time.Time
	Venue   *string
	Minutes *string
}

// EventServicer defines the contract for events and meeting minutes.
type EventServicer interface {
	CreateEvent(name string, date time.Time, venue, minutes string, actingID uint) (*models.Event, error)
	GetEventByID(id uint) (*models.Event, error)
	ListEvents(page pagination.PageRequest) (*pagination.PageResponse[models.Event], error)
	UpdateEvent(id uint, update EventUpdate) (*models.Event, error)
	// DeleteEvent removes the event and nulls the event reference on its
	// expenses; the expenses themselves survive.
	DeleteEvent(id uint) error
}

// LocationFilter holds optional filter parameters for location lookup.
type LocationFilter struct {
	Level    *models.LocationLevel
	ParentID *uint
	Query    string
}

// LocationServicer defines the contract for the location lookup service.
type LocationServicer interface {
	GetLocationByID(id uint) (*models.Location, error)
	ListLocations(filter LocationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Location], error)
}
