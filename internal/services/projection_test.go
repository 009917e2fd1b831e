package services_test

import (
	"context"
	"testing"

	"github.com/policydesk/policydesk-backend/internal/repos"
	"github.com/policydesk/policydesk-backend/internal/repos/testutil"
	"github.com/policydesk/policydesk-backend/internal/services"
)

// The projection services flatten the aggregate into per-entity overviews.
// Seed through the policy service so the fixtures match real writes.
func TestProjectionsFollowAggregate(t *testing.T) {
	svc, db, user := newPolicyService(t)
	ctx := context.Background()
	log := testutil.NewTestLogger()

	payload := samplePayload("PJ-1001")
	payload.Vehicles = append(payload.Vehicles, payload.Vehicles[0])
	payload.Vehicles[1].Make = "Mazda"
	payload.Vehicles[1].Model = "3"
	payload.Vehicles[1].VIN = "JM1BK32F781123456"
	if _, err := svc.CreatePolicy(ctx, user.ID, payload); err != nil {
		t.Fatalf("seed policy: %v", err)
	}
	other := testutil.SeedUser(t, db, "other@example.com")
	if _, err := svc.CreatePolicy(ctx, other.ID, samplePayload("PJ-1002")); err != nil {
		t.Fatalf("seed other policy: %v", err)
	}

	addresses, err := services.NewAddressService(db, log, repos.NewPolicyRepo(db, log)).ListAddresses(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListAddresses: %v", err)
	}
	// One holder address plus two garaging addresses.
	if len(addresses) != 3 {
		t.Fatalf("addresses = %d, want 3: %+v", len(addresses), addresses)
	}
	holders, vehicles := 0, 0
	for _, row := range addresses {
		if row.PolicyNumber != "PJ-1001" {
			t.Fatalf("address from wrong policy: %+v", row)
		}
		switch row.Type {
		case "PolicyHolder":
			holders++
		case "Vehicle":
			vehicles++
		}
	}
	if holders != 1 || vehicles != 2 {
		t.Fatalf("holder rows = %d, vehicle rows = %d", holders, vehicles)
	}

	drivers, err := services.NewDriverService(db, log, repos.NewDriverRepo(db, log)).ListDrivers(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListDrivers: %v", err)
	}
	if len(drivers) != 1 || drivers[0].PolicyNumber != "PJ-1001" {
		t.Fatalf("drivers = %+v", drivers)
	}
	if drivers[0].LicenseEffectiveDate != "2020-03-15" {
		t.Fatalf("license effective date = %q", drivers[0].LicenseEffectiveDate)
	}

	rows, err := services.NewVehicleService(db, log, repos.NewVehicleRepo(db, log)).ListVehicles(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListVehicles: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("vehicles = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.PolicyNumber != "PJ-1001" {
			t.Fatalf("vehicle from wrong policy: %+v", row)
		}
	}
}
