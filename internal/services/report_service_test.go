package services

import (
	"testing"

	"lift/internal/models"
	"lift/internal/testutil"
)

func TestBudgetReport(t *testing.T) {
	t.Run("totals_and_bucket_balances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		// 10000 at 50/50 and 20000 at 70/30.
		testutil.CreateTestContribution(t, db, member.ID, 10000)
		testutil.CreateTestContributionWithSplit(t, db, member.ID, 20000, 70, 30)

		testutil.CreateTestExpense(t, db, admin.ID, models.BucketLift, 4000)
		testutil.CreateTestExpense(t, db, admin.ID, models.BucketAlumni, 1000)

		report, err := svc.BudgetReport(ReportFilter{}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)

		if report.TotalContributions != 30000 {
			t.Errorf("expected 30000 contributions, got %d", report.TotalContributions)
		}
		if report.TotalExpenses != 5000 {
			t.Errorf("expected 5000 expenses, got %d", report.TotalExpenses)
		}
		if report.Remaining != 25000 {
			t.Errorf("expected 25000 remaining, got %d", report.Remaining)
		}

		lift := report.Buckets[models.BucketLift]
		if lift.Contributions != 19000 { // 5000 + 14000
			t.Errorf("expected 19000 lift contributions, got %d", lift.Contributions)
		}
		if lift.Expenses != 4000 || lift.Balance != 15000 {
			t.Errorf("expected lift 4000 spent / 15000 balance, got %d/%d", lift.Expenses, lift.Balance)
		}

		aa := report.Buckets[models.BucketAlumni]
		if aa.Contributions != 11000 || aa.Expenses != 1000 || aa.Balance != 10000 {
			t.Errorf("unexpected alumni bucket totals: %+v", aa)
		}
	})

	t.Run("empty_ledgers_report_zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)

		report, err := svc.BudgetReport(ReportFilter{}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)

		if report.TotalContributions != 0 || report.TotalExpenses != 0 || report.Remaining != 0 {
			t.Errorf("expected all-zero totals, got %+v", report)
		}
		for bucket, totals := range report.Buckets {
			if totals.Contributions != 0 || totals.Expenses != 0 || totals.Balance != 0 {
				t.Errorf("expected zero totals for %s, got %+v", bucket, totals)
			}
		}
	})

	t.Run("defaults_to_approved_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		approved := testutil.CreateTestContribution(t, db, member.ID, 10000)
		_ = approved
		pending := testutil.CreateTestContribution(t, db, member.ID, 99999)
		if err := db.Model(pending).Update("status", models.EntryStatusPending).Error; err != nil {
			t.Fatalf("failed to set pending: %v", err)
		}

		report, err := svc.BudgetReport(ReportFilter{}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)
		if report.TotalContributions != 10000 {
			t.Errorf("expected only approved contributions counted, got %d", report.TotalContributions)
		}

		status := models.EntryStatusPending
		report, err = svc.BudgetReport(ReportFilter{Status: &status}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)
		if report.TotalContributions != 99999 {
			t.Errorf("expected pending filter to count the pending row, got %d", report.TotalContributions)
		}
	})

	t.Run("bucket_filter_narrows_headline_not_breakdown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		testutil.CreateTestContributionWithSplit(t, db, member.ID, 10000, 70, 30)
		testutil.CreateTestExpense(t, db, admin.ID, models.BucketLift, 2000)
		testutil.CreateTestExpense(t, db, admin.ID, models.BucketAlumni, 500)

		bucket := models.BucketLift
		report, err := svc.BudgetReport(ReportFilter{Bucket: &bucket}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)

		// Headline contributions count only the LIFT share.
		if report.TotalContributions != 7000 {
			t.Errorf("expected 7000 lift-share contributions, got %d", report.TotalContributions)
		}
		if report.TotalExpenses != 2000 {
			t.Errorf("expected 2000 lift expenses, got %d", report.TotalExpenses)
		}
		if report.Remaining != 5000 {
			t.Errorf("expected 5000 remaining, got %d", report.Remaining)
		}

		// The breakdown still covers both funds.
		if len(report.Buckets) != 2 {
			t.Fatalf("expected both buckets in the breakdown, got %d", len(report.Buckets))
		}
		aa := report.Buckets[models.BucketAlumni]
		if aa.Contributions != 3000 || aa.Expenses != 500 {
			t.Errorf("expected alumni bucket unaffected by the filter, got %+v", aa)
		}
	})

	t.Run("non_admin_scoped_to_own_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)
		member1 := testutil.CreateTestMember(t, db)
		member2 := testutil.CreateTestMember(t, db)

		testutil.CreateTestContribution(t, db, member1.ID, 10000)
		testutil.CreateTestContribution(t, db, member2.ID, 50000)
		testutil.CreateTestExpense(t, db, admin.ID, models.BucketLift, 4000)

		report, err := svc.BudgetReport(ReportFilter{}, models.MemberRoleMember, member1.ID)
		testutil.AssertNoError(t, err)

		if report.TotalContributions != 10000 {
			t.Errorf("expected member1 to see only own contributions, got %d", report.TotalContributions)
		}
		if report.TotalExpenses != 0 {
			t.Errorf("expected member1 to see no admin-submitted expenses, got %d", report.TotalExpenses)
		}
	})

	t.Run("contributions_by_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		testutil.CreateTestContribution(t, db, member.ID, 10000)
		additional := testutil.CreateTestContributionWithSplit(t, db, member.ID, 20000, 70, 30)
		if err := db.Model(additional).Update("type", models.ContributionTypeAdditional).Error; err != nil {
			t.Fatalf("failed to set type: %v", err)
		}

		report, err := svc.BudgetReport(ReportFilter{}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)

		if report.ContributionsByType[models.ContributionTypeBasic] != 10000 {
			t.Errorf("expected 10000 basic, got %d", report.ContributionsByType[models.ContributionTypeBasic])
		}
		if report.ContributionsByType[models.ContributionTypeAdditional] != 20000 {
			t.Errorf("expected 20000 additional, got %d", report.ContributionsByType[models.ContributionTypeAdditional])
		}
	})

	t.Run("expenses_by_category_and_bucket", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		admin := testutil.CreateTestAdmin(t, db)

		// Fixture expenses use the "supplies" category.
		testutil.CreateTestExpense(t, db, admin.ID, models.BucketLift, 1000)
		testutil.CreateTestExpense(t, db, admin.ID, models.BucketAlumni, 2000)
		other := testutil.CreateTestExpense(t, db, admin.ID, models.BucketLift, 500)
		if err := db.Model(other).Update("category", "printing").Error; err != nil {
			t.Fatalf("failed to set category: %v", err)
		}

		report, err := svc.BudgetReport(ReportFilter{}, models.MemberRoleAdmin, admin.ID)
		testutil.AssertNoError(t, err)

		byCategory := map[string]int64{}
		for _, row := range report.ExpensesByCategory {
			byCategory[row.Category] = row.Total
		}
		if byCategory["supplies"] != 3000 || byCategory["printing"] != 500 {
			t.Errorf("unexpected category totals: %v", byCategory)
		}

		type key struct {
			category string
			bucket   models.Bucket
		}
		byPair := map[key]int64{}
		for _, row := range report.ExpensesByBucket {
			byPair[key{row.Category, row.Bucket}] = row.Total
		}
		if byPair[key{"supplies", models.BucketLift}] != 1000 {
			t.Errorf("expected supplies/lift 1000, got %d", byPair[key{"supplies", models.BucketLift}])
		}
		if byPair[key{"supplies", models.BucketAlumni}] != 2000 {
			t.Errorf("expected supplies/alumni 2000, got %d", byPair[key{"supplies", models.BucketAlumni}])
		}
	})
}
