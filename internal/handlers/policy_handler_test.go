package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/policydesk/policydesk-backend/internal/handlers"
	"github.com/policydesk/policydesk-backend/internal/repos"
	"github.com/policydesk/policydesk-backend/internal/repos/testutil"
	"github.com/policydesk/policydesk-backend/internal/server"
	"github.com/policydesk/policydesk-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger()

	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	policyRepo := repos.NewPolicyRepo(db, log)
	holderRepo := repos.NewPolicyHolderRepo(db, log)
	addressRepo := repos.NewAddressRepo(db, log)
	driverRepo := repos.NewDriverRepo(db, log)
	vehicleRepo := repos.NewVehicleRepo(db, log)
	coverageRepo := repos.NewVehicleCoverageRepo(db, log)

	authService := services.NewAuthService(db, log, userRepo, userTokenRepo, "test-secret", time.Hour, 24*time.Hour)
	policyService := services.NewPolicyService(db, log, policyRepo, holderRepo, addressRepo, driverRepo, vehicleRepo, coverageRepo)
	addressService := services.NewAddressService(db, log, policyRepo)
	driverService := services.NewDriverService(db, log, driverRepo)
	vehicleService := services.NewVehicleService(db, log, vehicleRepo)

	return server.NewRouter(server.RouterConfig{
		ServiceName:    "policydesk-test",
		AuthService:    authService,
		AuthHandler:    handlers.NewAuthHandler(authService, log),
		PolicyHandler:  handlers.NewPolicyHandler(policyService, log),
		AddressHandler: handlers.NewAddressHandler(addressService, log),
		DriverHandler:  handlers.NewDriverHandler(driverService, log),
		VehicleHandler: handlers.NewVehicleHandler(vehicleService, log),
		Healthcheck:    handlers.NewHealthcheckHandler(db),
		Log:            log,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/register", "", map[string]string{
		"name":     "Handler Tester",
		"email":    "handler@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("register returned no access token")
	}
	return resp.Tokens.AccessToken
}

func policyBody(policyNo string) map[string]interface{} {
	return map[string]interface{}{
		"policyNo":             policyNo,
		"policyStatus":         "Active",
		"policyType":           "Auto",
		"policyEffectiveDate":  "2026-02-01",
		"policyExpirationDate": "2027-02-01",
		"policyHolder": map[string]interface{}{
			"firstName": "Rita",
			"lastName":  "Moreno",
			"address": map[string]string{
				"street": "9 Birch Rd", "city": "Denver", "state": "CO", "zip": "80202",
			},
		},
		"drivers": []map[string]interface{}{{
			"firstName":             "Rita",
			"lastName":              "Moreno",
			"age":                   29,
			"gender":                "Female",
			"maritalStatus":         "Single",
			"licenseNumber":         "M777-1234",
			"licenseState":          "CO",
			"licenseStatus":         "Valid",
			"licenseEffectiveDate":  "2019-08-01",
			"licenseExpirationDate": "2029-08-01",
			"licenseClass":          "R",
		}},
		"vehicles": []map[string]interface{}{{
			"year":          2023,
			"make":          "Kia",
			"model":         "Sportage",
			"vin":           "KNDPMCAC8P7123456",
			"usage":         "Personal",
			"primaryUse":    "Commute",
			"annualMileage": 11000,
			"ownership":     "Leased",
			"garagingAddress": map[string]string{
				"street": "9 Birch Rd", "city": "Denver", "state": "CO", "zip": "80202",
			},
			"coverages": []map[string]string{{
				"type": "Comprehensive", "limit": "ACV", "deductible": "1000",
			}},
		}},
	}
}

func TestHealthcheck(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPolicyRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/policies"},
		{http.MethodGet, "/policies"},
		{http.MethodGet, "/policies/1"},
		{http.MethodDelete, "/policies/1"},
		{http.MethodPost, "/getallpolicies"},
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/getalladdresses"},
	} {
		rec := doJSON(t, router, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", route.method, route.path, rec.Code)
		}
	}
}

func TestPolicyLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	// Create.
	rec := doJSON(t, router, http.MethodPost, "/policies", token, policyBody("HT-1001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Policy struct {
			PolicyID uint   `json:"policyId"`
			PolicyNo string `json:"policyNo"`
		} `json:"policy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Policy.PolicyID == 0 || created.Policy.PolicyNo != "HT-1001" {
		t.Fatalf("created = %+v", created.Policy)
	}

	// Duplicate number conflicts.
	rec = doJSON(t, router, http.MethodPost, "/policies", token, policyBody("HT-1001"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}

	// Read, both route styles.
	for _, path := range []string{
		fmt.Sprintf("/policies/%d", created.Policy.PolicyID),
		fmt.Sprintf("/getpolicy/%d", created.Policy.PolicyID),
	} {
		rec = doJSON(t, router, http.MethodGet, path, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("get %s status = %d", path, rec.Code)
		}
	}

	// Update through the legacy verb route.
	update := policyBody("HT-1001-R")
	update["policyId"] = created.Policy.PolicyID
	rec = doJSON(t, router, http.MethodPost, "/updatepolicy", token, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body = %s", rec.Code, rec.Body.String())
	}

	// Listing sees the new number.
	rec = doJSON(t, router, http.MethodPost, "/getallpolicies", token, map[string]interface{}{
		"search": "HT-1001-R",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var page struct {
		Count int64 `json:"count"`
		Data  []struct {
			PolicyNumber string `json:"policyNumber"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Count != 1 || page.Data[0].PolicyNumber != "HT-1001-R" {
		t.Fatalf("page = %+v", page)
	}

	// Dashboard.
	rec = doJSON(t, router, http.MethodGet, "/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	var summary struct {
		TotalPolicies int64 `json:"totalPolicies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if summary.TotalPolicies != 1 {
		t.Fatalf("totalPolicies = %d", summary.TotalPolicies)
	}

	// Delete via the legacy route, then confirm 404.
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/policies/delete/%d", created.Policy.PolicyID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d body = %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/policies/%d", created.Policy.PolicyID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestPolicyValidationErrorsOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	body := policyBody("HT-2001")
	body["policyNo"] = ""
	drivers := body["drivers"].([]map[string]interface{})
	drivers[0]["age"] = 15

	rec := doJSON(t, router, http.MethodPost, "/policies", token, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode 422 body: %v", err)
	}
	if len(resp.Errors["policyNo"]) == 0 || len(resp.Errors["drivers.0.age"]) == 0 {
		t.Fatalf("errors = %+v", resp.Errors)
	}
}

func TestBadIDAndMalformedBody(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/policies/abc", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}
	var badID struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &badID); err != nil {
		t.Fatalf("decode 400 body: %v", err)
	}
	if badID.Message != `invalid policy id "abc": bad request` {
		t.Fatalf("bad id message = %q", badID.Message)
	}

	rec = doJSON(t, router, http.MethodDelete, "/policies/0", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero id status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/policies", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", w.Code)
	}
}

func TestProjectionRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/policies", token, policyBody("HT-3001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	for _, path := range []string{"/getalladdresses", "/getalldrivers", "/getallvehicles"} {
		rec = doJSON(t, router, http.MethodGet, path, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		var rows []map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if len(rows) == 0 {
			t.Fatalf("%s returned no rows", path)
		}
	}
}
