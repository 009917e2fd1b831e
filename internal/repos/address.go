package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

type AddressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, address *types.Address) (*types.Address, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Address, error)
	Update(ctx context.Context, tx *gorm.DB, address *types.Address) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	CountOwnedByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	repoLog := baseLog.With("repo", "AddressRepo")
	return &addressRepo{db: db, log: repoLog}
}

func (ar *addressRepo) Create(ctx context.Context, tx *gorm.DB, address *types.Address) (*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

func (ar *addressRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var address types.Address
	if err := transaction.WithContext(ctx).First(&address, id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (ar *addressRepo) Update(ctx context.Context, tx *gorm.DB, address *types.Address) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Address{}).
		Where("id = ?", address.ID).
		Updates(map[string]interface{}{
			"street": address.Street,
			"city":   address.City,
			"state":  address.State,
			"zip":    address.Zip,
		}).Error
}

// CountOwnedByUser counts distinct addresses referenced by the user's policy
// holders and vehicles. UNION dedupes, so an id referenced twice counts once.
func (ar *addressRepo) CountOwnedByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	err := transaction.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT address_id AS id FROM policy_holders
			WHERE policy_id IN (SELECT id FROM policies WHERE user_id = ?)
			UNION
			SELECT garaging_address_id FROM vehicles
			WHERE policy_id IN (SELECT id FROM policies WHERE user_id = ?)
		) owned`, userID, userID).Scan(&count).Error
	return count, err
}

// Delete is a no-op when the row is already gone so callers can run cascades
// without checking existence first.
func (ar *addressRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Delete(&types.Address{}, id).Error
}
