package services

import (
	"testing"

	"lift/internal/models"
	"lift/internal/pagination"
	"lift/internal/patch"
	"lift/internal/testutil"
)

func TestContributionCreate(t *testing.T) {
	t.Run("admin_create_is_approved_immediately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		contribution, err := svc.Create(ContributionInput{
			MemberID: member.ID,
			Amount:   10000,
			Type:     models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertNoError(t, err)

		if contribution.Status != models.EntryStatusApproved {
			t.Errorf("expected approved, got %s", contribution.Status)
		}
		if contribution.ApprovedByID == nil || *contribution.ApprovedByID != admin.ID {
			t.Error("expected approver stamped on admin create")
		}
		if contribution.ApprovedAt == nil {
			t.Error("expected approval timestamp on admin create")
		}
	})

	t.Run("basic_uses_current_default_split", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		settings := NewSettingService(db)
		svc := NewContributionService(db, settings, NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)
		testutil.SetSplitSetting(t, db, "60")

		contribution, err := svc.Create(ContributionInput{
			MemberID: member.ID,
			Amount:   10000,
			Type:     models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertNoError(t, err)

		if contribution.LiftAmount != 6000 || contribution.AAAmount != 4000 {
			t.Errorf("expected 6000/4000 under the 60 setting, got %d/%d",
				contribution.LiftAmount, contribution.AAAmount)
		}
	})

	t.Run("basic_without_setting_uses_fifty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		contribution, err := svc.Create(ContributionInput{
			MemberID: member.ID,
			Amount:   10001,
			Type:     models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertNoError(t, err)

		// 10001 at 50%: LIFT rounds half-up to 5001, remainder 5000 to AA.
		if contribution.LiftAmount != 5001 || contribution.AAAmount != 5000 {
			t.Errorf("expected 5001/5000, got %d/%d", contribution.LiftAmount, contribution.AAAmount)
		}
		if contribution.LiftAmount+contribution.AAAmount != contribution.Amount {
			t.Error("shares must sum to the amount exactly")
		}
	})

	t.Run("additional_with_custom_split", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		contribution, err := svc.Create(ContributionInput{
			MemberID:       member.ID,
			Amount:         20000,
			Type:           models.ContributionTypeAdditional,
			LiftPercentage: floatPtr(75),
			AAPercentage:   floatPtr(25),
		}, admin.ID)
		testutil.AssertNoError(t, err)

		if contribution.LiftAmount != 15000 || contribution.AAAmount != 5000 {
			t.Errorf("expected 15000/5000, got %d/%d", contribution.LiftAmount, contribution.AAAmount)
		}
	})

	t.Run("additional_without_split_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		_, err := svc.Create(ContributionInput{
			MemberID: member.ID,
			Amount:   20000,
			Type:     models.ContributionTypeAdditional,
		}, admin.ID)
		testutil.AssertAppError(t, err, "MISSING_SPLIT")
	})

	t.Run("zero_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		_, err := svc.Create(ContributionInput{
			MemberID: member.ID,
			Amount:   0,
			Type:     models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("unknown_member_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)

		_, err := svc.Create(ContributionInput{
			MemberID: 9999,
			Amount:   10000,
			Type:     models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})
}

func TestContributionSelfCreate(t *testing.T) {
	t.Run("enters_as_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		member := testutil.CreateTestMember(t, db)

		contribution, err := svc.SelfCreate(ContributionInput{
			MemberID: member.ID,
			Amount:   5000,
			Type:     models.ContributionTypeBasic,
		})
		testutil.AssertNoError(t, err)

		if contribution.Status != models.EntryStatusPending {
			t.Errorf("expected pending, got %s", contribution.Status)
		}
		if contribution.ApprovedByID != nil {
			t.Error("expected no approver on self-submitted contribution")
		}
		if contribution.CreatedByID != member.ID {
			t.Errorf("expected creator %d, got %d", member.ID, contribution.CreatedByID)
		}
	})
}

func TestContributionApproveReject(t *testing.T) {
	t.Run("approve_stamps_and_audits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		audit := NewAuditService(db)
		svc := NewContributionService(db, NewSettingService(db), audit)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		pending, err := svc.SelfCreate(ContributionInput{
			MemberID: member.ID, Amount: 5000, Type: models.ContributionTypeBasic,
		})
		testutil.AssertNoError(t, err)

		approved, err := svc.Approve(pending.ID, admin.ID, "looks good")
		testutil.AssertNoError(t, err)

		if approved.Status != models.EntryStatusApproved {
			t.Errorf("expected approved, got %s", approved.Status)
		}
		if approved.ApprovedByID == nil || *approved.ApprovedByID != admin.ID {
			t.Error("expected approver stamped")
		}

		entries, err := audit.ListFor(models.AuditEntityContribution, pending.ID)
		testutil.AssertNoError(t, err)
		if len(entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(entries))
		}
		if entries[0].Action != models.AuditActionApproved {
			t.Errorf("expected approved action, got %s", entries[0].Action)
		}
		if entries[0].Note != "looks good" {
			t.Errorf("expected note to be recorded, got %q", entries[0].Note)
		}
	})

	t.Run("double_approve_appends_two_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		audit := NewAuditService(db)
		svc := NewContributionService(db, NewSettingService(db), audit)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		pending, err := svc.SelfCreate(ContributionInput{
			MemberID: member.ID, Amount: 5000, Type: models.ContributionTypeBasic,
		})
		testutil.AssertNoError(t, err)

		_, err = svc.Approve(pending.ID, admin.ID, "")
		testutil.AssertNoError(t, err)
		_, err = svc.Approve(pending.ID, admin.ID, "")
		testutil.AssertNoError(t, err)

		entries, err := audit.ListFor(models.AuditEntityContribution, pending.ID)
		testutil.AssertNoError(t, err)
		if len(entries) != 2 {
			t.Errorf("expected 2 audit entries after double approve, got %d", len(entries))
		}
	})

	t.Run("reject_after_approve_overrides", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		audit := NewAuditService(db)
		svc := NewContributionService(db, NewSettingService(db), audit)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		pending, err := svc.SelfCreate(ContributionInput{
			MemberID: member.ID, Amount: 5000, Type: models.ContributionTypeBasic,
		})
		testutil.AssertNoError(t, err)

		_, err = svc.Approve(pending.ID, admin.ID, "")
		testutil.AssertNoError(t, err)
		rejected, err := svc.Reject(pending.ID, admin.ID, "duplicate entry")
		testutil.AssertNoError(t, err)

		if rejected.Status != models.EntryStatusRejected {
			t.Errorf("expected rejected, got %s", rejected.Status)
		}

		entries, err := audit.ListFor(models.AuditEntityContribution, pending.ID)
		testutil.AssertNoError(t, err)
		if len(entries) != 2 {
			t.Fatalf("expected 2 audit entries, got %d", len(entries))
		}
		// Newest first.
		if entries[0].Action != models.AuditActionRejected {
			t.Errorf("expected newest entry to be the rejection, got %s", entries[0].Action)
		}
	})

	t.Run("missing_contribution_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)

		_, err := svc.Approve(9999, admin.ID, "")
		testutil.AssertAppError(t, err, "CONTRIBUTION_NOT_FOUND")
	})
}

func TestContributionUpdate(t *testing.T) {
	t.Run("amount_change_recomputes_split", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		created, err := svc.Create(ContributionInput{
			MemberID: member.ID, Amount: 10000, Type: models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertNoError(t, err)

		newAmount := int64(20000)
		updated, err := svc.Update(created.ID, ContributionUpdate{Amount: &newAmount}, admin.ID)
		testutil.AssertNoError(t, err)

		if updated.LiftAmount != 10000 || updated.AAAmount != 10000 {
			t.Errorf("expected recomputed 10000/10000, got %d/%d", updated.LiftAmount, updated.AAAmount)
		}
	})

	t.Run("basic_edit_reapplies_current_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		settings := NewSettingService(db)
		svc := NewContributionService(db, settings, NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		created, err := svc.Create(ContributionInput{
			MemberID: member.ID, Amount: 10000, Type: models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertNoError(t, err)
		if created.LiftAmount != 5000 {
			t.Fatalf("expected 5000 before the setting change, got %d", created.LiftAmount)
		}

		// Change the default, then touch the record: the split follows the
		// setting now in force, not the one at creation time.
		_, err = settings.Set(models.SettingBasicSplitLift, "80", "", admin.ID)
		testutil.AssertNoError(t, err)

		note := "re-checked"
		updated, err := svc.Update(created.ID, ContributionUpdate{Notes: patch.Of(note)}, admin.ID)
		testutil.AssertNoError(t, err)

		if updated.LiftAmount != 8000 || updated.AAAmount != 2000 {
			t.Errorf("expected 8000/2000 under the new default, got %d/%d",
				updated.LiftAmount, updated.AAAmount)
		}
	})

	t.Run("additional_percentages_fall_back_to_stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		created, err := svc.Create(ContributionInput{
			MemberID:       member.ID,
			Amount:         10000,
			Type:           models.ContributionTypeAdditional,
			LiftPercentage: floatPtr(70),
			AAPercentage:   floatPtr(30),
		}, admin.ID)
		testutil.AssertNoError(t, err)

		newAmount := int64(30000)
		updated, err := svc.Update(created.ID, ContributionUpdate{Amount: &newAmount}, admin.ID)
		testutil.AssertNoError(t, err)

		if updated.LiftPercentage != 70 {
			t.Errorf("expected stored 70%% retained, got %v", updated.LiftPercentage)
		}
		if updated.LiftAmount != 21000 || updated.AAAmount != 9000 {
			t.Errorf("expected 21000/9000, got %d/%d", updated.LiftAmount, updated.AAAmount)
		}
	})

	t.Run("partial_percentages_must_still_sum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		created, err := svc.Create(ContributionInput{
			MemberID:       member.ID,
			Amount:         10000,
			Type:           models.ContributionTypeAdditional,
			LiftPercentage: floatPtr(70),
			AAPercentage:   floatPtr(30),
		}, admin.ID)
		testutil.AssertNoError(t, err)

		// Supplying only one side leaves the other at its stored value;
		// 40 + 30 fails the sum rule.
		_, err = svc.Update(created.ID, ContributionUpdate{LiftPercentage: floatPtr(40)}, admin.ID)
		testutil.AssertAppError(t, err, "INVALID_SPLIT")
	})

	t.Run("notes_null_clears", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		note := "initial note"
		created, err := svc.Create(ContributionInput{
			MemberID: member.ID, Amount: 10000, Type: models.ContributionTypeBasic, Notes: &note,
		}, admin.ID)
		testutil.AssertNoError(t, err)

		updated, err := svc.Update(created.ID, ContributionUpdate{Notes: patch.Null[string]()}, admin.ID)
		testutil.AssertNoError(t, err)
		if updated.Notes != nil {
			t.Errorf("expected notes cleared, got %q", *updated.Notes)
		}

		// Absent notes field leaves the value untouched.
		note2 := "second note"
		updated, err = svc.Update(created.ID, ContributionUpdate{Notes: patch.Of(note2)}, admin.ID)
		testutil.AssertNoError(t, err)
		newAmount := int64(12000)
		updated, err = svc.Update(created.ID, ContributionUpdate{Amount: &newAmount}, admin.ID)
		testutil.AssertNoError(t, err)
		if updated.Notes == nil || *updated.Notes != "second note" {
			t.Error("expected absent notes field to leave notes unchanged")
		}
	})

	t.Run("status_change_writes_no_audit_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		audit := NewAuditService(db)
		svc := NewContributionService(db, NewSettingService(db), audit)
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		created, err := svc.SelfCreate(ContributionInput{
			MemberID: member.ID, Amount: 5000, Type: models.ContributionTypeBasic,
		})
		testutil.AssertNoError(t, err)

		status := models.EntryStatusApproved
		updated, err := svc.Update(created.ID, ContributionUpdate{Status: &status}, admin.ID)
		testutil.AssertNoError(t, err)

		if updated.Status != models.EntryStatusApproved {
			t.Errorf("expected approved, got %s", updated.Status)
		}
		if updated.ApprovedByID == nil || *updated.ApprovedByID != admin.ID {
			t.Error("expected approver stamped on status change")
		}

		entries, err := audit.ListFor(models.AuditEntityContribution, created.ID)
		testutil.AssertNoError(t, err)
		if len(entries) != 0 {
			t.Errorf("expected no audit entries from a plain update, got %d", len(entries))
		}
	})

	t.Run("back_to_pending_clears_approver", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		admin := testutil.CreateTestAdmin(t, db)
		member := testutil.CreateTestMember(t, db)

		created, err := svc.Create(ContributionInput{
			MemberID: member.ID, Amount: 10000, Type: models.ContributionTypeBasic,
		}, admin.ID)
		testutil.AssertNoError(t, err)

		status := models.EntryStatusPending
		updated, err := svc.Update(created.ID, ContributionUpdate{Status: &status}, admin.ID)
		testutil.AssertNoError(t, err)

		if updated.Status != models.EntryStatusPending {
			t.Errorf("expected pending, got %s", updated.Status)
		}
		if updated.ApprovedByID != nil || updated.ApprovedAt != nil {
			t.Error("expected approver cleared when moved back to pending")
		}
	})
}

func TestContributionList(t *testing.T) {
	t.Run("filters_by_member_and_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		member1 := testutil.CreateTestMember(t, db)
		member2 := testutil.CreateTestMember(t, db)

		testutil.CreateTestContribution(t, db, member1.ID, 10000)
		testutil.CreateTestContribution(t, db, member1.ID, 20000)
		testutil.CreateTestContribution(t, db, member2.ID, 30000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.List(ContributionFilter{MemberID: &member1.ID}, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 contributions for member1, got %d", result.TotalItems)
		}

		status := models.EntryStatusPending
		result, err = svc.List(ContributionFilter{Status: &status}, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no pending contributions, got %d", result.TotalItems)
		}
	})

	t.Run("newest_created_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewContributionService(db, NewSettingService(db), NewAuditService(db))
		member := testutil.CreateTestMember(t, db)

		first := testutil.CreateTestContribution(t, db, member.ID, 10000)
		second := testutil.CreateTestContribution(t, db, member.ID, 20000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.List(ContributionFilter{}, page)
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 items, got %d", len(result.Data))
		}
		if result.Data[0].ID != second.ID || result.Data[1].ID != first.ID {
			t.Error("expected newest contribution first")
		}
	})
}
