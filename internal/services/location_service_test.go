package services

import (
	"testing"

	"lift/internal/models"
	"lift/internal/pagination"
	"lift/internal/testutil"
)

func TestLocationLookup(t *testing.T) {
	t.Run("get_with_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLocationService(db)

		district := testutil.CreateTestLocation(t, db, "Gulu", models.LocationLevelDistrict, nil)
		county := testutil.CreateTestLocation(t, db, "Aswa", models.LocationLevelCounty, &district.ID)

		got, err := svc.GetLocationByID(county.ID)
		testutil.AssertNoError(t, err)

		if got.Parent == nil || got.Parent.Name != "Gulu" {
			t.Error("expected parent district expanded")
		}
	})

	t.Run("missing_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLocationService(db)

		_, err := svc.GetLocationByID(9999)
		testutil.AssertAppError(t, err, "LOCATION_NOT_FOUND")
	})

	t.Run("filter_by_level_and_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLocationService(db)

		district := testutil.CreateTestLocation(t, db, "Gulu", models.LocationLevelDistrict, nil)
		testutil.CreateTestLocation(t, db, "Aswa", models.LocationLevelCounty, &district.ID)
		testutil.CreateTestLocation(t, db, "Omoro", models.LocationLevelCounty, &district.ID)
		other := testutil.CreateTestLocation(t, db, "Lira", models.LocationLevelDistrict, nil)
		testutil.CreateTestLocation(t, db, "Erute", models.LocationLevelCounty, &other.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		level := models.LocationLevelCounty
		result, err := svc.ListLocations(LocationFilter{Level: &level, ParentID: &district.ID}, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 counties under Gulu, got %d", result.TotalItems)
		}
	})

	t.Run("name_prefix_search", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLocationService(db)

		testutil.CreateTestLocation(t, db, "Gulu", models.LocationLevelDistrict, nil)
		testutil.CreateTestLocation(t, db, "Gomba", models.LocationLevelDistrict, nil)
		testutil.CreateTestLocation(t, db, "Lira", models.LocationLevelDistrict, nil)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.ListLocations(LocationFilter{Query: "g"}, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 matches for prefix 'g', got %d", result.TotalItems)
		}
	})
}
