package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"lift/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestMember creates an active member with a hashed password and
// unique email.
func CreateTestMember(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()
	return createMemberWithRole(t, db, models.MemberRoleMember)
}

// CreateTestAdmin creates an active member holding the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()
	return createMemberWithRole(t, db, models.MemberRoleAdmin)
}

func createMemberWithRole(t *testing.T, db *gorm.DB, role models.MemberRole) *models.Member {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	member := &models.Member{
		Email:    fmt.Sprintf("member%d@test.com", nextID()),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestContribution creates an approved contribution with an even
// 50/50 split of the given amount (in cents).
func CreateTestContribution(t *testing.T, db *gorm.DB, memberID uint, amount int64) *models.Contribution {
	t.Helper()
	return CreateTestContributionWithSplit(t, db, memberID, amount, 50, 50)
}

// CreateTestContributionWithSplit creates an approved contribution with the
// given percentages. The LIFT share is rounded half-up and the remainder
// goes to the alumni-association side, matching the calculator.
func CreateTestContributionWithSplit(t *testing.T, db *gorm.DB, memberID uint, amount int64, liftPct, aaPct float64) *models.Contribution {
	t.Helper()

	liftAmount := int64(float64(amount)*liftPct/100 + 0.5)
	contribution := &models.Contribution{
		MemberID:       memberID,
		Amount:         amount,
		Date:           time.Now(),
		Type:           models.ContributionTypeBasic,
		Status:         models.EntryStatusApproved,
		LiftPercentage: liftPct,
		AAPercentage:   aaPct,
		LiftAmount:     liftAmount,
		AAAmount:       amount - liftAmount,
		CreatedByID:    memberID,
	}
	if err := db.Create(contribution).Error; err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return contribution
}

// CreateTestExpense creates an approved expense charged to the given bucket
// with the given amount (in cents).
func CreateTestExpense(t *testing.T, db *gorm.DB, submittedByID uint, bucket models.Bucket, amount int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Amount:        amount,
		Purpose:       fmt.Sprintf("Test Purpose %d", nextID()),
		Date:          time.Now(),
		Category:      "supplies",
		Bucket:        bucket,
		Status:        models.EntryStatusApproved,
		SubmittedByID: submittedByID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestEvent creates an event.
func CreateTestEvent(t *testing.T, db *gorm.DB, createdByID uint) *models.Event {
	t.Helper()

	event := &models.Event{
		Name:        fmt.Sprintf("Test Event %d", nextID()),
		Date:        time.Now(),
		Venue:       "Main Hall",
		CreatedByID: createdByID,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateTestLocation creates one administrative area at the given level.
func CreateTestLocation(t *testing.T, db *gorm.DB, name string, level models.LocationLevel, parentID *uint) *models.Location {
	t.Helper()

	location := &models.Location{
		Name:     name,
		Level:    level,
		ParentID: parentID,
	}
	if err := db.Create(location).Error; err != nil {
		t.Fatalf("failed to create test location: %v", err)
	}
	return location
}

// SetSplitSetting stores the basic-contribution split default directly.
func SetSplitSetting(t *testing.T, db *gorm.DB, value string) {
	t.Helper()

	setting := &models.Setting{
		Key:   models.SettingBasicSplitLift,
		Value: value,
	}
	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("failed to create split setting: %v", err)
	}
}
