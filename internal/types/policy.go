package types

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PolicyStatusActive   = "Active"
	PolicyStatusInactive = "Inactive"
	PolicyStatusExpired  = "Expired"
)

// Policy is the aggregate root. Holder, Drivers and Vehicles are only
// populated when loaded through PolicyRepo.GetAggregateByID.
type Policy struct {
	ID                   uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PolicyNo             string         `gorm:"uniqueIndex;not null;column:policy_no" json:"policy_no"`
	PolicyStatus         string         `gorm:"not null;column:policy_status" json:"policy_status"`
	PolicyType           string         `gorm:"not null;column:policy_type" json:"policy_type"`
	PolicyEffectiveDate  datatypes.Date `gorm:"not null;column:policy_effective_date" json:"policy_effective_date"`
	PolicyExpirationDate datatypes.Date `gorm:"not null;column:policy_expiration_date" json:"policy_expiration_date"`
	UserID               uint           `gorm:"not null;index;column:user_id" json:"user_id"`
	Holder               *PolicyHolder  `gorm:"foreignKey:PolicyID" json:"holder,omitempty"`
	Drivers              []Driver       `gorm:"foreignKey:PolicyID" json:"drivers,omitempty"`
	Vehicles             []Vehicle      `gorm:"foreignKey:PolicyID" json:"vehicles,omitempty"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
}

func (Policy) TableName() string {
	return "policies"
}
