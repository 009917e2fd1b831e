package repos_test

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/repos"
	"github.com/policydesk/policydesk-backend/internal/repos/testutil"
	"github.com/policydesk/policydesk-backend/internal/types"
)

// seedAggregate inserts a policy with holder, one driver and one vehicle
// (with coverage) straight through the repos, bypassing the service layer.
func seedAggregate(t *testing.T, db *gorm.DB, userID uint, policyNo, holderFirst, vehicleMake string) *types.Policy {
	t.Helper()
	ctx := context.Background()
	log := testutil.NewTestLogger()
	policyRepo := repos.NewPolicyRepo(db, log)
	holderRepo := repos.NewPolicyHolderRepo(db, log)
	addressRepo := repos.NewAddressRepo(db, log)
	driverRepo := repos.NewDriverRepo(db, log)
	vehicleRepo := repos.NewVehicleRepo(db, log)
	coverageRepo := repos.NewVehicleCoverageRepo(db, log)

	policy, err := policyRepo.Create(ctx, nil, &types.Policy{
		PolicyNo:             policyNo,
		PolicyStatus:         types.PolicyStatusActive,
		PolicyType:           "Auto",
		PolicyEffectiveDate:  datatypes.Date{},
		PolicyExpirationDate: datatypes.Date{},
		UserID:               userID,
	})
	if err != nil {
		t.Fatalf("create policy: %v", err)
	}
	holderAddr, err := addressRepo.Create(ctx, nil, &types.Address{Street: "5 Pine St", City: "Boise", State: "ID", Zip: "83702"})
	if err != nil {
		t.Fatalf("create holder address: %v", err)
	}
	if _, err := holderRepo.Create(ctx, nil, &types.PolicyHolder{
		PolicyID:  policy.ID,
		FirstName: holderFirst,
		LastName:  "Quill",
		AddressID: holderAddr.ID,
	}); err != nil {
		t.Fatalf("create holder: %v", err)
	}
	if _, err := driverRepo.Create(ctx, nil, []*types.Driver{{
		PolicyID:      policy.ID,
		FirstName:     holderFirst,
		LastName:      "Quill",
		Age:           30,
		Gender:        "Male",
		MaritalStatus: "Single",
		LicenseNumber: "L-" + policyNo,
		LicenseState:  "ID",
		LicenseStatus: "Valid",
		LicenseClass:  "D",
	}}); err != nil {
		t.Fatalf("create driver: %v", err)
	}
	garaging, err := addressRepo.Create(ctx, nil, &types.Address{Street: "5 Pine St", City: "Boise", State: "ID", Zip: "83702"})
	if err != nil {
		t.Fatalf("create garaging address: %v", err)
	}
	vehicle, err := vehicleRepo.Create(ctx, nil, &types.Vehicle{
		PolicyID:          policy.ID,
		Year:              2021,
		Make:              vehicleMake,
		Model:             "Outback",
		VIN:               "VIN-" + policyNo,
		Usage:             "Personal",
		PrimaryUse:        "Commute",
		AnnualMileage:     9000,
		Ownership:         "Owned",
		GaragingAddressID: garaging.ID,
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	if _, err := coverageRepo.Create(ctx, nil, []*types.VehicleCoverage{{
		VehicleID:     vehicle.ID,
		CoverageType:  "Liability",
		CoverageLimit: "100/300",
		Deductible:    "500",
	}}); err != nil {
		t.Fatalf("create coverage: %v", err)
	}
	return policy
}

func TestGetAggregateByIDPreloadsEverything(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.SeedUser(t, db, "repo@example.com")
	seeded := seedAggregate(t, db, user.ID, "PR-1001", "Peter", "Subaru")

	policyRepo := repos.NewPolicyRepo(db, testutil.NewTestLogger())
	got, err := policyRepo.GetAggregateByID(context.Background(), nil, seeded.ID)
	if err != nil {
		t.Fatalf("GetAggregateByID: %v", err)
	}
	if got.Holder == nil || got.Holder.Address == nil {
		t.Fatalf("holder or holder address not loaded: %+v", got.Holder)
	}
	if len(got.Drivers) != 1 {
		t.Fatalf("drivers = %d, want 1", len(got.Drivers))
	}
	if len(got.Vehicles) != 1 {
		t.Fatalf("vehicles = %d, want 1", len(got.Vehicles))
	}
	if got.Vehicles[0].GaragingAddress == nil {
		t.Fatal("garaging address not loaded")
	}
	if len(got.Vehicles[0].Coverages) != 1 {
		t.Fatalf("coverages = %d, want 1", len(got.Vehicles[0].Coverages))
	}
}

func TestPolicyNoExistsExcludesSelf(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.SeedUser(t, db, "repo@example.com")
	seeded := seedAggregate(t, db, user.ID, "PR-2001", "Peter", "Subaru")

	policyRepo := repos.NewPolicyRepo(db, testutil.NewTestLogger())
	ctx := context.Background()

	taken, err := policyRepo.PolicyNoExists(ctx, nil, "PR-2001", 0)
	if err != nil {
		t.Fatalf("PolicyNoExists: %v", err)
	}
	if !taken {
		t.Fatal("expected PR-2001 to be taken")
	}
	taken, err = policyRepo.PolicyNoExists(ctx, nil, "PR-2001", seeded.ID)
	if err != nil {
		t.Fatalf("PolicyNoExists with exclude: %v", err)
	}
	if taken {
		t.Fatal("a policy's own number must not count as taken")
	}
	taken, err = policyRepo.PolicyNoExists(ctx, nil, "PR-9999", 0)
	if err != nil {
		t.Fatalf("PolicyNoExists unknown: %v", err)
	}
	if taken {
		t.Fatal("unknown number reported as taken")
	}
}

func TestListScopesAndSearches(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.SeedUser(t, db, "repo@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	seedAggregate(t, db, user.ID, "PR-3001", "Alice", "Subaru")
	seedAggregate(t, db, user.ID, "PR-3002", "Bruno", "Toyota")
	seedAggregate(t, db, other.ID, "PR-3003", "Casey", "Honda")

	policyRepo := repos.NewPolicyRepo(db, testutil.NewTestLogger())
	ctx := context.Background()

	rows, total, err := policyRepo.List(ctx, nil, repos.PolicyListQuery{
		UserID: user.ID, Sort: "policy_no", SortDir: "asc", Page: 1, PerPage: 10,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total = %d, rows = %d; other user's policy leaked?", total, len(rows))
	}
	if rows[0].Holder == nil || len(rows[0].Vehicles) == 0 {
		t.Fatal("summary relations not preloaded")
	}

	rows, total, err = policyRepo.List(ctx, nil, repos.PolicyListQuery{
		UserID: user.ID, Search: "Bruno", Sort: "created_at", SortDir: "desc", Page: 1, PerPage: 10,
	})
	if err != nil {
		t.Fatalf("List search holder: %v", err)
	}
	if total != 1 || rows[0].PolicyNo != "PR-3002" {
		t.Fatalf("holder search: total = %d rows = %+v", total, rows)
	}

	rows, total, err = policyRepo.List(ctx, nil, repos.PolicyListQuery{
		UserID: user.ID, Search: "Toyota", Sort: "created_at", SortDir: "desc", Page: 1, PerPage: 10,
	})
	if err != nil {
		t.Fatalf("List search make: %v", err)
	}
	if total != 1 || rows[0].PolicyNo != "PR-3002" {
		t.Fatalf("make search: total = %d rows = %+v", total, rows)
	}

	// Honda belongs to the other user and must stay invisible.
	_, total, err = policyRepo.List(ctx, nil, repos.PolicyListQuery{
		UserID: user.ID, Search: "Honda", Sort: "created_at", SortDir: "desc", Page: 1, PerPage: 10,
	})
	if err != nil {
		t.Fatalf("List search cross-user: %v", err)
	}
	if total != 0 {
		t.Fatalf("cross-user search leaked %d rows", total)
	}
}

func TestUserScopedCounts(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.SeedUser(t, db, "repo@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	seedAggregate(t, db, user.ID, "PR-4001", "Alice", "Subaru")
	seedAggregate(t, db, user.ID, "PR-4002", "Bruno", "Toyota")
	seedAggregate(t, db, other.ID, "PR-4003", "Casey", "Honda")

	log := testutil.NewTestLogger()
	ctx := context.Background()

	if n, err := repos.NewPolicyRepo(db, log).CountByUser(ctx, nil, user.ID); err != nil || n != 2 {
		t.Fatalf("policy count = %d, err = %v", n, err)
	}
	if n, err := repos.NewDriverRepo(db, log).CountByUser(ctx, nil, user.ID); err != nil || n != 2 {
		t.Fatalf("driver count = %d, err = %v", n, err)
	}
	if n, err := repos.NewVehicleRepo(db, log).CountByUser(ctx, nil, user.ID); err != nil || n != 2 {
		t.Fatalf("vehicle count = %d, err = %v", n, err)
	}
	// Two addresses per seeded policy.
	if n, err := repos.NewAddressRepo(db, log).CountOwnedByUser(ctx, nil, user.ID); err != nil || n != 4 {
		t.Fatalf("address count = %d, err = %v", n, err)
	}

	counts, err := repos.NewPolicyRepo(db, log).StatusCountsByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("StatusCountsByUser: %v", err)
	}
	if counts[types.PolicyStatusActive] != 2 {
		t.Fatalf("status counts = %+v", counts)
	}
}

func TestDriverAndVehicleProjections(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.SeedUser(t, db, "repo@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	seedAggregate(t, db, user.ID, "PR-5001", "Alice", "Subaru")
	seedAggregate(t, db, other.ID, "PR-5002", "Casey", "Honda")

	log := testutil.NewTestLogger()
	ctx := context.Background()

	drivers, err := repos.NewDriverRepo(db, log).ListByUserID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("ListByUserID drivers: %v", err)
	}
	if len(drivers) != 1 || drivers[0].FirstName != "Alice" {
		t.Fatalf("drivers = %+v", drivers)
	}
	if drivers[0].Policy == nil || drivers[0].Policy.PolicyNo != "PR-5001" {
		t.Fatalf("driver policy not loaded: %+v", drivers[0].Policy)
	}

	vehicles, err := repos.NewVehicleRepo(db, log).ListByUserID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("ListByUserID vehicles: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].Make != "Subaru" {
		t.Fatalf("vehicles = %+v", vehicles)
	}
}

func TestDeleteByPolicyID(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.SeedUser(t, db, "repo@example.com")
	keep := seedAggregate(t, db, user.ID, "PR-6001", "Alice", "Subaru")
	drop := seedAggregate(t, db, user.ID, "PR-6002", "Bruno", "Toyota")

	log := testutil.NewTestLogger()
	ctx := context.Background()
	driverRepo := repos.NewDriverRepo(db, log)

	if err := driverRepo.DeleteByPolicyID(ctx, nil, drop.ID); err != nil {
		t.Fatalf("DeleteByPolicyID: %v", err)
	}
	remaining, err := driverRepo.ListByPolicyID(ctx, nil, drop.ID)
	if err != nil {
		t.Fatalf("ListByPolicyID: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("drivers left = %d", len(remaining))
	}
	kept, err := driverRepo.ListByPolicyID(ctx, nil, keep.ID)
	if err != nil {
		t.Fatalf("ListByPolicyID kept: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("kept drivers = %d, want 1", len(kept))
	}
}
