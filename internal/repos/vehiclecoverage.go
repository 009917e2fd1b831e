package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

type VehicleCoverageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, coverages []*types.VehicleCoverage) ([]*types.VehicleCoverage, error)
	ListByVehicleID(ctx context.Context, tx *gorm.DB, vehicleID uint) ([]types.VehicleCoverage, error)
	DeleteByVehicleID(ctx context.Context, tx *gorm.DB, vehicleID uint) error
}

type vehicleCoverageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVehicleCoverageRepo(db *gorm.DB, baseLog *logger.Logger) VehicleCoverageRepo {
	repoLog := baseLog.With("repo", "VehicleCoverageRepo")
	return &vehicleCoverageRepo{db: db, log: repoLog}
}

func (cr *vehicleCoverageRepo) Create(ctx context.Context, tx *gorm.DB, coverages []*types.VehicleCoverage) ([]*types.VehicleCoverage, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(coverages) == 0 {
		return []*types.VehicleCoverage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&coverages).Error; err != nil {
		return nil, err
	}
	return coverages, nil
}

func (cr *vehicleCoverageRepo) ListByVehicleID(ctx context.Context, tx *gorm.DB, vehicleID uint) ([]types.VehicleCoverage, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var coverages []types.VehicleCoverage
	if err := transaction.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("id").
		Find(&coverages).Error; err != nil {
		return nil, err
	}
	return coverages, nil
}

func (cr *vehicleCoverageRepo) DeleteByVehicleID(ctx context.Context, tx *gorm.DB, vehicleID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Delete(&types.VehicleCoverage{}).Error
}
