package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/repos"
)

// DriverRow is one row of the user's flat driver overview.
type DriverRow struct {
	PolicyNumber string `json:"policyNumber"`
	DriverDTO
}

type DriverService interface {
	ListDrivers(ctx context.Context, userID uint) ([]DriverRow, error)
}

type driverService struct {
	db         *gorm.DB
	log        *logger.Logger
	driverRepo repos.DriverRepo
}

func NewDriverService(db *gorm.DB, baseLog *logger.Logger, driverRepo repos.DriverRepo) DriverService {
	serviceLog := baseLog.With("service", "DriverService")
	return &driverService{db: db, log: serviceLog, driverRepo: driverRepo}
}

func (ds *driverService) ListDrivers(ctx context.Context, userID uint) ([]DriverRow, error) {
	drivers, err := ds.driverRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	rows := make([]DriverRow, 0, len(drivers))
	for _, d := range drivers {
		row := DriverRow{
			DriverDTO: DriverDTO{
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
			},
		}
		if d.Policy != nil {
			row.PolicyNumber = d.Policy.PolicyNo
		}
		rows = append(rows, row)
	}
	return rows, nil
}
