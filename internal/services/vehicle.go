package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/repos"
)

// VehicleRow is one row of the user's flat vehicle overview.
type VehicleRow struct {
	PolicyNumber  string `json:"policyNumber"`
	Year          int    `json:"year"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	VIN           string `json:"vin"`
	Usage         string `json:"usage"`
	PrimaryUse    string `json:"primaryUse"`
	AnnualMileage int    `json:"annualMileage"`
	Ownership     string `json:"ownership"`
}

type VehicleService interface {
	ListVehicles(ctx context.Context, userID uint) ([]VehicleRow, error)
}

type vehicleService struct {
	db          *gorm.DB
	log         *logger.Logger
	vehicleRepo repos.VehicleRepo
}

func NewVehicleService(db *gorm.DB, baseLog *logger.Logger, vehicleRepo repos.VehicleRepo) VehicleService {
	serviceLog := baseLog.With("service", "VehicleService")
	return &vehicleService{db: db, log: serviceLog, vehicleRepo: vehicleRepo}
}

func (vs *vehicleService) ListVehicles(ctx context.Context, userID uint) ([]VehicleRow, error) {
	vehicles, err := vs.vehicleRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	rows := make([]VehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		row := VehicleRow{
			Year:          v.Year,
			Make:          v.Make,
			Model:         v.Model,
			VIN:           v.VIN,
			Usage:         v.Usage,
			PrimaryUse:    v.PrimaryUse,
			AnnualMileage: v.AnnualMileage,
			Ownership:     v.Ownership,
		}
		if v.Policy != nil {
			row.PolicyNumber = v.Policy.PolicyNo
		}
		rows = append(rows, row)
	}
	return rows, nil
}
