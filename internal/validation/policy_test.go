package validation

import (
	"testing"

	"github.com/policydesk/policydesk-backend/internal/types"
)

func validPayload() *types.PolicyPayload {
	return &types.PolicyPayload{
		PolicyNo:             "PN-0001",
		PolicyStatus:         "Active",
		PolicyType:           "Auto",
		PolicyEffectiveDate:  "2026-01-01",
		PolicyExpirationDate: "2027-01-01",
		PolicyHolder: &types.PolicyHolderPayload{
			FirstName: "Dana",
			LastName:  "Reyes",
			Address:   &types.AddressPayload{Street: "1 Main St", City: "Austin", State: "TX", Zip: "78701"},
		},
		Drivers: []types.DriverPayload{{
			FirstName:             "Dana",
			LastName:              "Reyes",
			Age:                   40,
			Gender:                "Female",
			MaritalStatus:         "Single",
			LicenseNumber:         "R0001",
			LicenseState:          "TX",
			LicenseStatus:         "Valid",
			LicenseEffectiveDate:  "2018-06-01",
			LicenseExpirationDate: "2028-06-01",
			LicenseClass:          "C",
		}},
		Vehicles: []types.VehiclePayload{{
			Year:            2020,
			Make:            "Ford",
			Model:           "Focus",
			VIN:             "1FADP3F20EL123456",
			Usage:           "Personal",
			PrimaryUse:      "Pleasure",
			AnnualMileage:   8000,
			Ownership:       "Owned",
			GaragingAddress: &types.AddressPayload{Street: "1 Main St", City: "Austin", State: "TX", Zip: "78701"},
			Coverages:       []types.CoveragePayload{{Type: "Liability", Limit: "50/100", Deductible: "250"}},
		}},
	}
}

func TestValidPayloadPasses(t *testing.T) {
	if errs := ValidatePolicyPayload(validPayload(), false); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestNilPayload(t *testing.T) {
	errs := ValidatePolicyPayload(nil, false)
	if len(errs["payload"]) == 0 {
		t.Fatalf("expected payload error, got %v", errs)
	}
}

func TestUpdateRequiresPolicyID(t *testing.T) {
	p := validPayload()
	if errs := ValidatePolicyPayload(p, true); len(errs["policyId"]) == 0 {
		t.Fatalf("expected policyId error, got %v", errs)
	}
	p.PolicyID = 7
	if errs := ValidatePolicyPayload(p, true); errs != nil {
		t.Fatalf("expected no errors with id set, got %v", errs)
	}
}

func TestCollectsEveryViolation(t *testing.T) {
	p := validPayload()
	p.PolicyNo = " "
	p.PolicyExpirationDate = "01/01/2027"
	p.PolicyHolder.Address.Zip = ""
	p.Drivers[0].Age = 17
	p.Drivers[0].LicenseEffectiveDate = ""
	p.Vehicles[0].Year = 0
	p.Vehicles[0].Coverages[0].Deductible = ""

	errs := ValidatePolicyPayload(p, false)
	if errs == nil {
		t.Fatal("expected errors")
	}
	for _, field := range []string{
		"policyNo",
		"policyExpirationDate",
		"policyHolder.address.zip",
		"drivers.0.age",
		"drivers.0.licenseEffectiveDate",
		"vehicles.0.year",
		"vehicles.0.coverages.0.deductible",
	} {
		if len(errs[field]) == 0 {
			t.Errorf("missing violation for %q", field)
		}
	}
}

func TestMissingCollectionsAndHolder(t *testing.T) {
	p := validPayload()
	p.PolicyHolder = nil
	p.Drivers = nil
	p.Vehicles = nil

	errs := ValidatePolicyPayload(p, false)
	for _, field := range []string{"policyHolder", "drivers", "vehicles"} {
		if len(errs[field]) == 0 {
			t.Errorf("missing violation for %q", field)
		}
	}
}

func TestMinimumDriverAgeBoundary(t *testing.T) {
	p := validPayload()
	p.Drivers[0].Age = 18
	if errs := ValidatePolicyPayload(p, false); errs != nil {
		t.Fatalf("age 18 should pass, got %v", errs)
	}
}

func TestStandaloneAddress(t *testing.T) {
	if errs := ValidateAddressPayload(nil); len(errs["address"]) == 0 {
		t.Fatalf("expected address error, got %v", errs)
	}
	errs := ValidateAddressPayload(&types.AddressPayload{Street: "2 Oak", City: "", State: "CA", Zip: "90001"})
	if len(errs["address.city"]) == 0 {
		t.Fatalf("expected address.city error, got %v", errs)
	}
}
