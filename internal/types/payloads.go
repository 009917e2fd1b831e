package types

// Boundary payloads. The wire contract is camelCase; storage is snake_case.
// The service layer owns the mapping between the two.

type AddressPayload struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type PolicyHolderPayload struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Address   *AddressPayload `json:"address"`
}

type DriverPayload struct {
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

type CoveragePayload struct {
	Type       string `json:"type"`
	Limit      string `json:"limit"`
	Deductible string `json:"deductible"`
}

type VehiclePayload struct {
	Year            int               `json:"year"`
	Make            string            `json:"make"`
	Model           string            `json:"model"`
	VIN             string            `json:"vin"`
	Usage           string            `json:"usage"`
	PrimaryUse      string            `json:"primaryUse"`
	AnnualMileage   int               `json:"annualMileage"`
	Ownership       string            `json:"ownership"`
	GaragingAddress *AddressPayload   `json:"garagingAddress"`
	Coverages       []CoveragePayload `json:"coverages"`
}

// PolicyPayload is the full aggregate input for create and update. PolicyID
// is only meaningful on update.
type PolicyPayload struct {
	PolicyID             uint                 `json:"policyId,omitempty"`
	PolicyNo             string               `json:"policyNo"`
	PolicyStatus         string               `json:"policyStatus"`
	PolicyType           string               `json:"policyType"`
	PolicyEffectiveDate  string               `json:"policyEffectiveDate"`
	PolicyExpirationDate string               `json:"policyExpirationDate"`
	PolicyHolder         *PolicyHolderPayload `json:"policyHolder"`
	Drivers              []DriverPayload      `json:"drivers"`
	Vehicles             []VehiclePayload     `json:"vehicles"`
}
