package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

type PolicyHolderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, holder *types.PolicyHolder) (*types.PolicyHolder, error)
	GetByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) (*types.PolicyHolder, error)
	Update(ctx context.Context, tx *gorm.DB, holder *types.PolicyHolder) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type policyHolderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPolicyHolderRepo(db *gorm.DB, baseLog *logger.Logger) PolicyHolderRepo {
	repoLog := baseLog.With("repo", "PolicyHolderRepo")
	return &policyHolderRepo{db: db, log: repoLog}
}

func (hr *policyHolderRepo) Create(ctx context.Context, tx *gorm.DB, holder *types.PolicyHolder) (*types.PolicyHolder, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if err := transaction.WithContext(ctx).Omit("Address").Create(holder).Error; err != nil {
		return nil, err
	}
	return holder, nil
}

func (hr *policyHolderRepo) GetByPolicyID(ctx context.Context, tx *gorm.DB, policyID uint) (*types.PolicyHolder, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var holder types.PolicyHolder
	if err := transaction.WithContext(ctx).
		Preload("Address").
		Where("policy_id = ?", policyID).
		First(&holder).Error; err != nil {
		return nil, err
	}
	return &holder, nil
}

func (hr *policyHolderRepo) Update(ctx context.Context, tx *gorm.DB, holder *types.PolicyHolder) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PolicyHolder{}).
		Where("id = ?", holder.ID).
		Updates(map[string]interface{}{
			"first_name": holder.FirstName,
			"last_name":  holder.LastName,
			"address_id": holder.AddressID,
		}).Error
}

func (hr *policyHolderRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).Delete(&types.PolicyHolder{}, id).Error
}
