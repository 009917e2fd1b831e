package types

import (
	"time"
)

type PolicyHolder struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PolicyID  uint      `gorm:"not null;uniqueIndex;column:policy_id" json:"policy_id"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`
	AddressID uint      `gorm:"not null;column:address_id" json:"address_id"`
	Address   *Address  `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PolicyHolder) TableName() string {
	return "policy_holders"
}
