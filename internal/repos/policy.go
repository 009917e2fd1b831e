package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

// PolicyListQuery is a repo-level query; sort column and direction are
// already checked against the service allow-list by the time it gets here.
type PolicyListQuery struct {
	UserID  uint
	Search  string
	Sort    string
	SortDir string
	Page    int
	PerPage int
}

type PolicyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, policy *types.Policy) (*types.Policy, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Policy, error)
	GetAggregateByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Policy, error)
	PolicyNoExists(ctx context.Context, tx *gorm.DB, policyNo string, excludeID uint) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, policy *types.Policy) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, q PolicyListQuery) ([]types.Policy, int64, error)
	ListByUserWithAddresses(ctx context.Context, tx *gorm.DB, userID uint) ([]types.Policy, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
	StatusCountsByUser(ctx context.Context, tx *gorm.DB, userID uint) (map[string]int64, error)
}

type policyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPolicyRepo(db *gorm.DB, baseLog *logger.Logger) PolicyRepo {
	repoLog := baseLog.With("repo", "PolicyRepo")
	return &policyRepo{db: db, log: repoLog}
}

func (pr *policyRepo) Create(ctx context.Context, tx *gorm.DB, policy *types.Policy) (*types.Policy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Omit("Holder", "Drivers", "Vehicles").Create(policy).Error; err != nil {
		return nil, err
	}
	return policy, nil
}

func (pr *policyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Policy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var policy types.Policy
	if err := transaction.WithContext(ctx).First(&policy, id).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetAggregateByID loads the policy with its full dependent graph: holder and
// holder address, drivers, vehicles with garaging address and coverages.
func (pr *policyRepo) GetAggregateByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Policy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var policy types.Policy
	if err := transaction.WithContext(ctx).
		Preload("Holder").
		Preload("Holder.Address").
		Preload("Drivers").
		Preload("Vehicles").
		Preload("Vehicles.GaragingAddress").
		Preload("Vehicles.Coverages").
		First(&policy, id).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

func (pr *policyRepo) PolicyNoExists(ctx context.Context, tx *gorm.DB, policyNo string, excludeID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	query := transaction.WithContext(ctx).
		Model(&types.Policy{}).
		Where("policy_no = ?", policyNo)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *policyRepo) Update(ctx context.Context, tx *gorm.DB, policy *types.Policy) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Policy{}).
		Where("id = ?", policy.ID).
		Updates(map[string]interface{}{
			"policy_no":              policy.PolicyNo,
			"policy_status":          policy.PolicyStatus,
			"policy_type":            policy.PolicyType,
			"policy_effective_date":  policy.PolicyEffectiveDate,
			"policy_expiration_date": policy.PolicyExpirationDate,
			"user_id":                policy.UserID,
		}).Error
}

func (pr *policyRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Delete(&types.Policy{}, id).Error
}

// List applies the user scope, free-text search and paging in one query pair
// (count, then page). Search reaches into holder names and vehicle make/model
// through subqueries.
func (pr *policyRepo) List(ctx context.Context, tx *gorm.DB, q PolicyListQuery) ([]types.Policy, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Policy{}).
		Where("user_id = ?", q.UserID)

	if q.Search != "" {
		term := "%" + q.Search + "%"
		holderMatch := transaction.WithContext(ctx).
			Model(&types.PolicyHolder{}).
			Select("policy_id").
			Where("first_name LIKE ? OR last_name LIKE ? OR (first_name || ' ' || last_name) LIKE ?", term, term, term)
		vehicleMatch := transaction.WithContext(ctx).
			Model(&types.Vehicle{}).
			Select("policy_id").
			Where("make LIKE ? OR model LIKE ?", term, term)
		query = query.Where(
			transaction.
				Where("policy_no LIKE ?", term).
				Or("policy_status LIKE ?", term).
				Or("policy_type LIKE ?", term).
				Or("CAST(policy_effective_date AS TEXT) LIKE ?", term).
				Or("CAST(policy_expiration_date AS TEXT) LIKE ?", term).
				Or("CAST(created_at AS TEXT) LIKE ?", term).
				Or("id IN (?)", holderMatch).
				Or("id IN (?)", vehicleMatch),
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var policies []types.Policy
	if err := query.
		Preload("Holder").
		Preload("Vehicles").
		Order(q.Sort + " " + q.SortDir).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&policies).Error; err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

// ListByUserWithAddresses loads a user's policies with just the relations the
// address projection needs.
func (pr *policyRepo) ListByUserWithAddresses(ctx context.Context, tx *gorm.DB, userID uint) ([]types.Policy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var policies []types.Policy
	if err := transaction.WithContext(ctx).
		Preload("Holder").
		Preload("Holder.Address").
		Preload("Vehicles").
		Preload("Vehicles.GaragingAddress").
		Where("user_id = ?", userID).
		Order("id").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (pr *policyRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Policy{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (pr *policyRepo) StatusCountsByUser(ctx context.Context, tx *gorm.DB, userID uint) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var rows []struct {
		PolicyStatus string
		Count        int64
	}
	err := transaction.WithContext(ctx).
		Model(&types.Policy{}).
		Select("policy_status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("policy_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PolicyStatus] = row.Count
	}
	return counts, nil
}
