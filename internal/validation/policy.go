// Package validation checks aggregate payloads field by field and reports
// every violation at once, keyed by the field path the client sent
// ("policyHolder.address.street", "drivers.0.age"). Uniqueness of policy_no
// is a persistence concern and is checked by the service, not here.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/policydesk/policydesk-backend/internal/types"
)

const dateLayout = "2006-01-02"

// minimum driver age, enforced at the input boundary
const minDriverAge = 18

// Errors maps a field path to its violation messages.
type Errors map[string][]string

func (e Errors) add(path, msg string) {
	e[path] = append(e[path], msg)
}

func (e Errors) requireString(path, val string) {
	if strings.TrimSpace(val) == "" {
		e.add(path, fmt.Sprintf("The %s field is required.", path))
	}
}

func (e Errors) requireDate(path, val string) {
	if strings.TrimSpace(val) == "" {
		e.add(path, fmt.Sprintf("The %s field is required.", path))
		return
	}
	if _, err := time.Parse(dateLayout, val); err != nil {
		e.add(path, fmt.Sprintf("The %s field must be a valid date.", path))
	}
}

func (e Errors) requirePositiveInt(path string, val int) {
	if val <= 0 {
		e.add(path, fmt.Sprintf("The %s field is required.", path))
	}
}

// ValidatePolicyPayload batch-validates a policy aggregate payload. On update
// the payload must also carry a policy id. A nil result means the payload is
// valid.
func ValidatePolicyPayload(p *types.PolicyPayload, forUpdate bool) Errors {
	errs := Errors{}
	if p == nil {
		errs.add("payload", "The request body is required.")
		return errs
	}

	if forUpdate && p.PolicyID == 0 {
		errs.add("policyId", "The policyId field is required.")
	}

	errs.requireString("policyNo", p.PolicyNo)
	errs.requireString("policyStatus", p.PolicyStatus)
	errs.requireString("policyType", p.PolicyType)
	errs.requireDate("policyEffectiveDate", p.PolicyEffectiveDate)
	errs.requireDate("policyExpirationDate", p.PolicyExpirationDate)

	if p.PolicyHolder == nil {
		errs.add("policyHolder", "The policyHolder field is required.")
	} else {
		errs.requireString("policyHolder.firstName", p.PolicyHolder.FirstName)
		errs.requireString("policyHolder.lastName", p.PolicyHolder.LastName)
		validateAddress(errs, "policyHolder.address", p.PolicyHolder.Address)
	}

	if len(p.Drivers) == 0 {
		errs.add("drivers", "The drivers field is required.")
	}
	for i, d := range p.Drivers {
		prefix := fmt.Sprintf("drivers.%d", i)
		errs.requireString(prefix+".firstName", d.FirstName)
		errs.requireString(prefix+".lastName", d.LastName)
		if d.Age < minDriverAge {
			errs.add(prefix+".age", fmt.Sprintf("The %s.age field must be an integer of at least %d.", prefix, minDriverAge))
		}
		errs.requireString(prefix+".gender", d.Gender)
		errs.requireString(prefix+".maritalStatus", d.MaritalStatus)
		errs.requireString(prefix+".licenseNumber", d.LicenseNumber)
		errs.requireString(prefix+".licenseState", d.LicenseState)
		errs.requireString(prefix+".licenseStatus", d.LicenseStatus)
		errs.requireDate(prefix+".licenseEffectiveDate", d.LicenseEffectiveDate)
		errs.requireDate(prefix+".licenseExpirationDate", d.LicenseExpirationDate)
		errs.requireString(prefix+".licenseClass", d.LicenseClass)
	}

	if len(p.Vehicles) == 0 {
		errs.add("vehicles", "The vehicles field is required.")
	}
	for i, v := range p.Vehicles {
		prefix := fmt.Sprintf("vehicles.%d", i)
		errs.requirePositiveInt(prefix+".year", v.Year)
		errs.requireString(prefix+".make", v.Make)
		errs.requireString(prefix+".model", v.Model)
		errs.requireString(prefix+".vin", v.VIN)
		errs.requireString(prefix+".usage", v.Usage)
		errs.requireString(prefix+".primaryUse", v.PrimaryUse)
		errs.requirePositiveInt(prefix+".annualMileage", v.AnnualMileage)
		errs.requireString(prefix+".ownership", v.Ownership)
		validateAddress(errs, prefix+".garagingAddress", v.GaragingAddress)
		if len(v.Coverages) == 0 {
			errs.add(prefix+".coverages", fmt.Sprintf("The %s.coverages field is required.", prefix))
		}
		for j, c := range v.Coverages {
			cPrefix := fmt.Sprintf("%s.coverages.%d", prefix, j)
			errs.requireString(cPrefix+".type", c.Type)
			errs.requireString(cPrefix+".limit", c.Limit)
			errs.requireString(cPrefix+".deductible", c.Deductible)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateAddress(errs Errors, prefix string, a *types.AddressPayload) {
	if a == nil {
		errs.add(prefix, fmt.Sprintf("The %s field is required.", prefix))
		return
	}
	errs.requireString(prefix+".street", a.Street)
	errs.requireString(prefix+".city", a.City)
	errs.requireString(prefix+".state", a.State)
	errs.requireString(prefix+".zip", a.Zip)
}

// ValidateAddressPayload validates a standalone address body.
func ValidateAddressPayload(a *types.AddressPayload) Errors {
	errs := Errors{}
	validateAddress(errs, "address", a)
	if len(errs) == 0 {
		return nil
	}
	return errs
}
