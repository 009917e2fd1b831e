package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/policydesk/policydesk-backend/internal/types"
)

const dateLayout = "2006-01-02"

// Output DTOs. These own the snake_case → camelCase mapping at the boundary.

type AddressDTO struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type PolicyHolderDTO struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Address   *AddressDTO `json:"address"`
}

type DriverDTO struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Age                   int    `json:"age"`
	Gender                string `json:"gender"`
	MaritalStatus         string `json:"maritalStatus"`
	LicenseNumber         string `json:"licenseNumber"`
	LicenseState          string `json:"licenseState"`
	LicenseStatus         string `json:"licenseStatus"`
	LicenseEffectiveDate  string `json:"licenseEffectiveDate"`
	LicenseExpirationDate string `json:"licenseExpirationDate"`
	LicenseClass          string `json:"licenseClass"`
}

type CoverageDTO struct {
	Type       string `json:"type"`
	Limit      string `json:"limit"`
	Deductible string `json:"deductible"`
}

type VehicleDTO struct {
	Year            int           `json:"year"`
	Make            string        `json:"make"`
	Model           string        `json:"model"`
	VIN             string        `json:"vin"`
	Usage           string        `json:"usage"`
	PrimaryUse      string        `json:"primaryUse"`
	AnnualMileage   int           `json:"annualMileage"`
	Ownership       string        `json:"ownership"`
	GaragingAddress *AddressDTO   `json:"garagingAddress"`
	Coverages       []CoverageDTO `json:"coverages"`
}

// PolicyAggregate is the full nested read model of one policy.
type PolicyAggregate struct {
	PolicyID             uint             `json:"policyId"`
	PolicyNo             string           `json:"policyNo"`
	PolicyStatus         string           `json:"policyStatus"`
	PolicyType           string           `json:"policyType"`
	PolicyEffectiveDate  string           `json:"policyEffectiveDate"`
	PolicyExpirationDate string           `json:"policyExpirationDate"`
	PolicyHolder         *PolicyHolderDTO `json:"policyHolder"`
	Drivers              []DriverDTO      `json:"drivers"`
	Vehicles             []VehicleDTO     `json:"vehicles"`
}

// PolicySummary is one row of the listing view.
type PolicySummary struct {
	PolicyID       uint   `json:"policyId"`
	DisplayID      string `json:"id"`
	PolicyNumber   string `json:"policyNumber"`
	PolicyType     string `json:"policyType"`
	Status         string `json:"status"`
	EffectiveDate  string `json:"effectiveDate"`
	ExpirationDate string `json:"expirationDate"`
	HolderName     string `json:"holderName"`
	Vehicle        string `json:"vehicle"`
	CreatedAt      string `json:"createdAt"`
}

type PolicyPage struct {
	Count   int64           `json:"count"`
	Data    []PolicySummary `json:"data"`
	PerPage int             `json:"per_page"`
	Page    int             `json:"page"`
}

type DashboardSummary struct {
	TotalPolicies    int64            `json:"totalPolicies"`
	PoliciesByStatus map[string]int64 `json:"policiesByStatus"`
	TotalDrivers     int64            `json:"totalDrivers"`
	TotalVehicles    int64            `json:"totalVehicles"`
	TotalAddresses   int64            `json:"totalAddresses"`
}

// ListPoliciesQuery carries pre-sanitized listing parameters.
type ListPoliciesQuery struct {
	Search  string
	Sort    string
	SortDir string
	Page    int
	PerPage int
}

func parseDate(val string) datatypes.Date {
	t, _ := time.Parse(dateLayout, val)
	return datatypes.Date(t)
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(dateLayout)
}

func addressDTO(a *types.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip}
}

func policyAggregateDTO(p *types.Policy) *PolicyAggregate {
	agg := &PolicyAggregate{
		PolicyID:             p.ID,
		PolicyNo:             p.PolicyNo,
		PolicyStatus:         p.PolicyStatus,
		PolicyType:           p.PolicyType,
		PolicyEffectiveDate:  formatDate(p.PolicyEffectiveDate),
		PolicyExpirationDate: formatDate(p.PolicyExpirationDate),
		Drivers:              make([]DriverDTO, 0, len(p.Drivers)),
		Vehicles:             make([]VehicleDTO, 0, len(p.Vehicles)),
	}
	if p.Holder != nil {
		agg.PolicyHolder = &PolicyHolderDTO{
			FirstName: p.Holder.FirstName,
			LastName:  p.Holder.LastName,
			Address:   addressDTO(p.Holder.Address),
		}
	}
	for _, d := range p.Drivers {
		agg.Drivers = append(agg.Drivers, DriverDTO{
			FirstName:             d.FirstName,
			LastName:              d.LastName,
			Age:                   d.Age,
			Gender:                d.Gender,
			MaritalStatus:         d.MaritalStatus,
			LicenseNumber:         d.LicenseNumber,
			LicenseState:          d.LicenseState,
			LicenseStatus:         d.LicenseStatus,
			LicenseEffectiveDate:  formatDate(d.LicenseEffectiveDate),
			LicenseExpirationDate: formatDate(d.LicenseExpirationDate),
			LicenseClass:          d.LicenseClass,
		})
	}
	for _, v := range p.Vehicles {
		vehicle := VehicleDTO{
			Year:            v.Year,
			Make:            v.Make,
			Model:           v.Model,
			VIN:             v.VIN,
			Usage:           v.Usage,
			PrimaryUse:      v.PrimaryUse,
			AnnualMileage:   v.AnnualMileage,
			Ownership:       v.Ownership,
			GaragingAddress: addressDTO(v.GaragingAddress),
			Coverages:       make([]CoverageDTO, 0, len(v.Coverages)),
		}
		for _, c := range v.Coverages {
			vehicle.Coverages = append(vehicle.Coverages, CoverageDTO{
				Type:       c.CoverageType,
				Limit:      c.CoverageLimit,
				Deductible: c.Deductible,
			})
		}
		agg.Vehicles = append(agg.Vehicles, vehicle)
	}
	return agg
}

func policySummaryDTO(p *types.Policy) PolicySummary {
	holderName := "N/A"
	if p.Holder != nil {
		holderName = p.Holder.FirstName + " " + p.Holder.LastName
	}
	vehicle := "N/A"
	if len(p.Vehicles) > 0 {
		first := strings.TrimSpace(p.Vehicles[0].Make + " " + p.Vehicles[0].Model)
		if first != "" {
			vehicle = first
		}
	}
	return PolicySummary{
		PolicyID:       p.ID,
		DisplayID:      fmt.Sprintf("POL%03d", p.ID),
		PolicyNumber:   p.PolicyNo,
		PolicyType:     p.PolicyType,
		Status:         p.PolicyStatus,
		EffectiveDate:  formatDate(p.PolicyEffectiveDate),
		ExpirationDate: formatDate(p.PolicyExpirationDate),
		HolderName:     holderName,
		Vehicle:        vehicle,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
