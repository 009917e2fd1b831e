package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

type VehicleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, vehicle *types.Vehicle) (*types.Vehicle, error)
	ListByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) ([]types.Vehicle, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uint) ([]types.Vehicle, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

type vehicleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVehicleRepo(db *gorm.DB, baseLog *logger.Logger) VehicleRepo {
	repoLog := baseLog.With("repo", "VehicleRepo")
	return &vehicleRepo{db: db, log: repoLog}
}

func (vr *vehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicle *types.Vehicle) (*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if err := transaction.WithContext(ctx).Omit("GaragingAddress", "Coverages", "Policy").Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (vr *vehicleRepo) ListByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) ([]types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var vehicles []types.Vehicle
	if err := transaction.WithContext(ctx).
		Preload("GaragingAddress").
		Preload("Coverages").
		Where("policy_id = ?", policyID).
		Order("id").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (vr *vehicleRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uint) ([]types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var vehicles []types.Vehicle
	if err := transaction.WithContext(ctx).
		Preload("Policy").
		Where("policy_id IN (?)", transaction.WithContext(ctx).
			Model(&types.Policy{}).
			Select("id").
			Where("user_id = ?", userID)).
		Order("id").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (vr *vehicleRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Delete(&types.Vehicle{}, id).Error
}

func (vr *vehicleRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Vehicle{}).
		Where("policy_id IN (?)", transaction.WithContext(ctx).
			Model(&types.Policy{}).
			Select("id").
			Where("user_id = ?", userID)).
		Count(&count).Error
	return count, err
}
