package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

type DriverRepo interface {
	Create(ctx context.Context, tx *gorm.DB, drivers []*types.Driver) ([]*types.Driver, error)
	ListByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) ([]types.Driver, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uint) ([]types.Driver, error)
	DeleteByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

type driverRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDriverRepo(db *gorm.DB, baseLog *logger.Logger) DriverRepo {
	repoLog := baseLog.With("repo", "DriverRepo")
	return &driverRepo{db: db, log: repoLog}
}

func (dr *driverRepo) Create(ctx context.Context, tx *gorm.DB, drivers []*types.Driver) ([]*types.Driver, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(drivers) == 0 {
		return []*types.Driver{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Policy").Create(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (dr *driverRepo) ListByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) ([]types.Driver, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var drivers []types.Driver
	if err := transaction.WithContext(ctx).
		Where("policy_id = ?", policyID).
		Order("id").
		Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (dr *driverRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uint) ([]types.Driver, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var drivers []types.Driver
	if err := transaction.WithContext(ctx).
		Preload("Policy").
		Where("policy_id IN (?)", transaction.WithContext(ctx).
			Model(&types.Policy{}).
			Select("id").
			Where("user_id = ?", userID)).
		Order("id").
		Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (dr *driverRepo) DeleteByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Where("policy_id = ?", policyID).
		Delete(&types.Driver{}).Error
}

func (dr *driverRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Driver{}).
		Where("policy_id IN (?)", transaction.WithContext(ctx).
			Model(&types.Policy{}).
			Select("id").
			Where("user_id = ?", userID)).
		Count(&count).Error
	return count, err
}
