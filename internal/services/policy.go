package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/repos"
	"github.com/policydesk/policydesk-backend/internal/types"
	"github.com/policydesk/policydesk-backend/internal/validation"
)

// PolicyService orchestrates the policy aggregate: a Policy row, its holder
// (with address), its drivers and its vehicles (each with garaging address
// and coverages) are written, replaced and torn down as one unit. Every
// mutation validates first, then runs inside a single transaction; a failure
// anywhere rolls back the whole aggregate.
type PolicyService interface {
	CreatePolicy(ctx context.Context, userID uint, payload *types.PolicyPayload) (*PolicyAggregate, error)
	GetPolicy(ctx context.Context, userID uint, policyID uint) (*PolicyAggregate, error)
	UpdatePolicy(ctx context.Context, userID uint, payload *types.PolicyPayload) error
	DeletePolicy(ctx context.Context, userID uint, policyID uint) error
	ListPolicies(ctx context.Context, userID uint, q ListPoliciesQuery) (*PolicyPage, error)
	Dashboard(ctx context.Context, userID uint) (*DashboardSummary, error)
}

var listSortColumns = map[string]bool{
	"created_at":            true,
	"policy_no":             true,
	"policy_effective_date": true,
	"policy_status":         true,
}

type policyService struct {
	db           *gorm.DB
	log          *logger.Logger
	policyRepo   repos.PolicyRepo
	holderRepo   repos.PolicyHolderRepo
	addressRepo  repos.AddressRepo
	driverRepo   repos.DriverRepo
	vehicleRepo  repos.VehicleRepo
	coverageRepo repos.VehicleCoverageRepo
}

func NewPolicyService(
	db *gorm.DB,
	baseLog *logger.Logger,
	policyRepo repos.PolicyRepo,
	holderRepo repos.PolicyHolderRepo,
	addressRepo repos.AddressRepo,
	driverRepo repos.DriverRepo,
	vehicleRepo repos.VehicleRepo,
	coverageRepo repos.VehicleCoverageRepo,
) PolicyService {
	serviceLog := baseLog.With("service", "PolicyService")
	return &policyService{
		db:           db,
		log:          serviceLog,
		policyRepo:   policyRepo,
		holderRepo:   holderRepo,
		addressRepo:  addressRepo,
		driverRepo:   driverRepo,
		vehicleRepo:  vehicleRepo,
		coverageRepo: coverageRepo,
	}
}

func (ps *policyService) CreatePolicy(ctx context.Context, userID uint, payload *types.PolicyPayload) (*PolicyAggregate, error) {
	if errs := validation.ValidatePolicyPayload(payload, false); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	var created *types.Policy
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := ps.policyRepo.PolicyNoExists(ctx, tx, payload.PolicyNo, 0)
		if err != nil {
			return fmt.Errorf("check policy number: %w", err)
		}
		if taken {
			return fmt.Errorf("policy number %q is already in use: %w", payload.PolicyNo, ErrConflict)
		}

		policy := &types.Policy{
			PolicyNo:             payload.PolicyNo,
			PolicyStatus:         payload.PolicyStatus,
			PolicyType:           payload.PolicyType,
			PolicyEffectiveDate:  parseDate(payload.PolicyEffectiveDate),
			PolicyExpirationDate: parseDate(payload.PolicyExpirationDate),
			UserID:               userID,
		}
		if _, err := ps.policyRepo.Create(ctx, tx, policy); err != nil {
			return fmt.Errorf("create policy: %w", err)
		}

		if err := ps.insertHolder(ctx, tx, policy.ID, payload.PolicyHolder); err != nil {
			return err
		}
		if err := ps.insertDrivers(ctx, tx, policy.ID, payload.Drivers); err != nil {
			return err
		}
		if err := ps.insertVehicles(ctx, tx, policy.ID, payload.Vehicles); err != nil {
			return err
		}

		created, err = ps.policyRepo.GetAggregateByID(ctx, tx, policy.ID)
		if err != nil {
			return fmt.Errorf("reload policy aggregate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ps.log.Info("policy created", "policy_id", created.ID, "policy_no", created.PolicyNo, "user_id", userID)
	return policyAggregateDTO(created), nil
}

func (ps *policyService) GetPolicy(ctx context.Context, userID uint, policyID uint) (*PolicyAggregate, error) {
	policy, err := ps.policyRepo.GetAggregateByID(ctx, nil, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("policy %d: %w", policyID, ErrNotFound)
		}
		return nil, fmt.Errorf("load policy aggregate: %w", err)
	}
	if policy.UserID != userID {
		return nil, fmt.Errorf("policy %d: %w", policyID, ErrNotFound)
	}
	return policyAggregateDTO(policy), nil
}

func (ps *policyService) UpdatePolicy(ctx context.Context, userID uint, payload *types.PolicyPayload) error {
	if errs := validation.ValidatePolicyPayload(payload, true); errs != nil {
		return &ValidationError{Fields: errs}
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.policyRepo.GetAggregateByID(ctx, tx, payload.PolicyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("policy %d: %w", payload.PolicyID, ErrNotFound)
			}
			return fmt.Errorf("load policy aggregate: %w", err)
		}
		if existing.UserID != userID {
			return fmt.Errorf("policy %d: %w", payload.PolicyID, ErrNotFound)
		}

		taken, err := ps.policyRepo.PolicyNoExists(ctx, tx, payload.PolicyNo, existing.ID)
		if err != nil {
			return fmt.Errorf("check policy number: %w", err)
		}
		if taken {
			return fmt.Errorf("policy number %q is already in use: %w", payload.PolicyNo, ErrConflict)
		}

		updated := &types.Policy{
			ID:                   existing.ID,
			PolicyNo:             payload.PolicyNo,
			PolicyStatus:         payload.PolicyStatus,
			PolicyType:           payload.PolicyType,
			PolicyEffectiveDate:  parseDate(payload.PolicyEffectiveDate),
			PolicyExpirationDate: parseDate(payload.PolicyExpirationDate),
			UserID:               userID,
		}
		if err := ps.policyRepo.Update(ctx, tx, updated); err != nil {
			return fmt.Errorf("update policy: %w", err)
		}

		if existing.Holder != nil {
			if err := ps.updateHolder(ctx, tx, existing.Holder, payload.PolicyHolder); err != nil {
				return err
			}
		}

		// Drivers and vehicles are replaced wholesale on every update, not
		// diffed or merged; clients see fresh ids and timestamps.
		if err := ps.driverRepo.DeleteByPolicyID(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("delete drivers: %w", err)
		}
		if err := ps.insertDrivers(ctx, tx, existing.ID, payload.Drivers); err != nil {
			return err
		}

		for i := range existing.Vehicles {
			if err := ps.teardownVehicle(ctx, tx, &existing.Vehicles[i]); err != nil {
				return err
			}
		}
		if err := ps.insertVehicles(ctx, tx, existing.ID, payload.Vehicles); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	ps.log.Info("policy updated", "policy_id", payload.PolicyID, "user_id", userID)
	return nil
}

func (ps *policyService) DeletePolicy(ctx context.Context, userID uint, policyID uint) error {
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.policyRepo.GetAggregateByID(ctx, tx, policyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("policy %d: %w", policyID, ErrNotFound)
			}
			return fmt.Errorf("load policy aggregate: %w", err)
		}
		if existing.UserID != userID {
			return fmt.Errorf("policy %d: %w", policyID, ErrNotFound)
		}

		// Referencing rows go first so the delete order holds with or
		// without FK enforcement in the store.
		if existing.Holder != nil {
			if err := ps.holderRepo.Delete(ctx, tx, existing.Holder.ID); err != nil {
				return fmt.Errorf("delete policy holder: %w", err)
			}
			if existing.Holder.AddressID != 0 {
				if err := ps.addressRepo.Delete(ctx, tx, existing.Holder.AddressID); err != nil {
					return fmt.Errorf("delete holder address: %w", err)
				}
			}
		}
		if err := ps.driverRepo.DeleteByPolicyID(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("delete drivers: %w", err)
		}
		for i := range existing.Vehicles {
			if err := ps.teardownVehicle(ctx, tx, &existing.Vehicles[i]); err != nil {
				return err
			}
		}
		if err := ps.policyRepo.Delete(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("delete policy: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ps.log.Info("policy deleted", "policy_id", policyID, "user_id", userID)
	return nil
}

func (ps *policyService) ListPolicies(ctx context.Context, userID uint, q ListPoliciesQuery) (*PolicyPage, error) {
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if !listSortColumns[q.Sort] {
		q.Sort = "created_at"
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}

	policies, total, err := ps.policyRepo.List(ctx, nil, repos.PolicyListQuery{
		UserID:  userID,
		Search:  q.Search,
		Sort:    q.Sort,
		SortDir: q.SortDir,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}

	page := &PolicyPage{
		Count:   total,
		Data:    make([]PolicySummary, 0, len(policies)),
		PerPage: q.PerPage,
		Page:    q.Page,
	}
	for i := range policies {
		page.Data = append(page.Data, policySummaryDTO(&policies[i]))
	}
	return page, nil
}

func (ps *policyService) Dashboard(ctx context.Context, userID uint) (*DashboardSummary, error) {
	totalPolicies, err := ps.policyRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count policies: %w", err)
	}
	statusCounts, err := ps.policyRepo.StatusCountsByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count policies by status: %w", err)
	}
	totalDrivers, err := ps.driverRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count drivers: %w", err)
	}
	totalVehicles, err := ps.vehicleRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count vehicles: %w", err)
	}
	totalAddresses, err := ps.addressRepo.CountOwnedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count addresses: %w", err)
	}
	return &DashboardSummary{
		TotalPolicies:    totalPolicies,
		PoliciesByStatus: statusCounts,
		TotalDrivers:     totalDrivers,
		TotalVehicles:    totalVehicles,
		TotalAddresses:   totalAddresses,
	}, nil
}

func (ps *policyService) insertHolder(ctx context.Context, tx *gorm.DB, policyID uint, payload *types.PolicyHolderPayload) error {
	address := &types.Address{
		Street: payload.Address.Street,
		City:   payload.Address.City,
		State:  payload.Address.State,
		Zip:    payload.Address.Zip,
	}
	if _, err := ps.addressRepo.Create(ctx, tx, address); err != nil {
		return fmt.Errorf("create holder address: %w", err)
	}
	holder := &types.PolicyHolder{
		PolicyID:  policyID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		AddressID: address.ID,
	}
	if _, err := ps.holderRepo.Create(ctx, tx, holder); err != nil {
		return fmt.Errorf("create policy holder: %w", err)
	}
	return nil
}

func (ps *policyService) updateHolder(ctx context.Context, tx *gorm.DB, holder *types.PolicyHolder, payload *types.PolicyHolderPayload) error {
	if holder.Address != nil {
		address := &types.Address{
			ID:     holder.Address.ID,
			Street: payload.Address.Street,
			City:   payload.Address.City,
			State:  payload.Address.State,
			Zip:    payload.Address.Zip,
		}
		if err := ps.addressRepo.Update(ctx, tx, address); err != nil {
			return fmt.Errorf("update holder address: %w", err)
		}
	} else {
		// Holder rows created before the address requirement may have no
		// address yet; create one and link it.
		address := &types.Address{
			Street: payload.Address.Street,
			City:   payload.Address.City,
			State:  payload.Address.State,
			Zip:    payload.Address.Zip,
		}
		if _, err := ps.addressRepo.Create(ctx, tx, address); err != nil {
			return fmt.Errorf("create holder address: %w", err)
		}
		holder.AddressID = address.ID
	}
	holder.FirstName = payload.FirstName
	holder.LastName = payload.LastName
	if err := ps.holderRepo.Update(ctx, tx, holder); err != nil {
		return fmt.Errorf("update policy holder: %w", err)
	}
	return nil
}

func (ps *policyService) insertDrivers(ctx context.Context, tx *gorm.DB, policyID uint, payloads []types.DriverPayload) error {
	drivers := make([]*types.Driver, 0, len(payloads))
	for _, d := range payloads {
		drivers = append(drivers, &types.Driver{
			PolicyID:              policyID,
			FirstName:             d.FirstName,
			LastName:              d.LastName,
			Age:                   d.Age,
			Gender:                d.Gender,
			MaritalStatus:         d.MaritalStatus,
			LicenseNumber:         d.LicenseNumber,
			LicenseState:          d.LicenseState,
			LicenseStatus:         d.LicenseStatus,
			LicenseEffectiveDate:  parseDate(d.LicenseEffectiveDate),
			LicenseExpirationDate: parseDate(d.LicenseExpirationDate),
			LicenseClass:          d.LicenseClass,
		})
	}
	if _, err := ps.driverRepo.Create(ctx, tx, drivers); err != nil {
		return fmt.Errorf("create drivers: %w", err)
	}
	return nil
}

func (ps *policyService) insertVehicles(ctx context.Context, tx *gorm.DB, policyID uint, payloads []types.VehiclePayload) error {
	for _, v := range payloads {
		garaging := &types.Address{
			Street: v.GaragingAddress.Street,
			City:   v.GaragingAddress.City,
			State:  v.GaragingAddress.State,
			Zip:    v.GaragingAddress.Zip,
		}
		if _, err := ps.addressRepo.Create(ctx, tx, garaging); err != nil {
			return fmt.Errorf("create garaging address: %w", err)
		}
		vehicle := &types.Vehicle{
			PolicyID:          policyID,
			Year:              v.Year,
			Make:              v.Make,
			Model:             v.Model,
			VIN:               v.VIN,
			Usage:             v.Usage,
			PrimaryUse:        v.PrimaryUse,
			AnnualMileage:     v.AnnualMileage,
			Ownership:         v.Ownership,
			GaragingAddressID: garaging.ID,
		}
		if _, err := ps.vehicleRepo.Create(ctx, tx, vehicle); err != nil {
			return fmt.Errorf("create vehicle: %w", err)
		}
		coverages := make([]*types.VehicleCoverage, 0, len(v.Coverages))
		for _, c := range v.Coverages {
			coverages = append(coverages, &types.VehicleCoverage{
				VehicleID:     vehicle.ID,
				CoverageType:  c.Type,
				CoverageLimit: c.Limit,
				Deductible:    c.Deductible,
			})
		}
		if _, err := ps.coverageRepo.Create(ctx, tx, coverages); err != nil {
			return fmt.Errorf("create vehicle coverages: %w", err)
		}
	}
	return nil
}

// teardownVehicle removes a vehicle with its coverages and garaging address,
// referencing rows first.
func (ps *policyService) teardownVehicle(ctx context.Context, tx *gorm.DB, vehicle *types.Vehicle) error {
	if err := ps.coverageRepo.DeleteByVehicleID(ctx, tx, vehicle.ID); err != nil {
		return fmt.Errorf("delete vehicle coverages: %w", err)
	}
	if err := ps.vehicleRepo.Delete(ctx, tx, vehicle.ID); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if vehicle.GaragingAddressID != 0 {
		if err := ps.addressRepo.Delete(ctx, tx, vehicle.GaragingAddressID); err != nil {
			return fmt.Errorf("delete garaging address: %w", err)
		}
	}
	return nil
}
