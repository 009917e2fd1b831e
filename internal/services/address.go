package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/repos"
)

// AddressRow is one row of the user's address overview; Type says whether the
// address belongs to a policy holder or a vehicle.
type AddressRow struct {
	PolicyNumber string `json:"policyNumber"`
	Type         string `json:"type"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	VehicleMake  string `json:"vehicleMake,omitempty"`
	VehicleModel string `json:"vehicleModel,omitempty"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

type AddressService interface {
	ListAddresses(ctx context.Context, userID uint) ([]AddressRow, error)
}

type addressService struct {
	db         *gorm.DB
	log        *logger.Logger
	policyRepo repos.PolicyRepo
}

func NewAddressService(db *gorm.DB, baseLog *logger.Logger, policyRepo repos.PolicyRepo) AddressService {
	serviceLog := baseLog.With("service", "AddressService")
	return &addressService{db: db, log: serviceLog, policyRepo: policyRepo}
}

func (as *addressService) ListAddresses(ctx context.Context, userID uint) ([]AddressRow, error) {
	policies, err := as.policyRepo.ListByUserWithAddresses(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list policies with addresses: %w", err)
	}

	rows := []AddressRow{}
	for i := range policies {
		policy := &policies[i]
		if policy.Holder != nil && policy.Holder.Address != nil {
			rows = append(rows, AddressRow{
				PolicyNumber: policy.PolicyNo,
				Type:         "PolicyHolder",
				FirstName:    policy.Holder.FirstName,
				LastName:     policy.Holder.LastName,
				Street:       policy.Holder.Address.Street,
				City:         policy.Holder.Address.City,
				State:        policy.Holder.Address.State,
				Zip:          policy.Holder.Address.Zip,
			})
		}
		for j := range policy.Vehicles {
			vehicle := &policy.Vehicles[j]
			if vehicle.GaragingAddress == nil {
				continue
			}
			rows = append(rows, AddressRow{
				PolicyNumber: policy.PolicyNo,
				Type:         "Vehicle",
				VehicleMake:  vehicle.Make,
				VehicleModel: vehicle.Model,
				Street:       vehicle.GaragingAddress.Street,
				City:         vehicle.GaragingAddress.City,
				State:        vehicle.GaragingAddress.State,
				Zip:          vehicle.GaragingAddress.Zip,
			})
		}
	}
	return rows, nil
}
