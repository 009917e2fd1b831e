package types

import (
	"time"

	"gorm.io/datatypes"
)

type Driver struct {
	ID                    uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PolicyID              uint           `gorm:"not null;index;column:policy_id" json:"policy_id"`
	FirstName             string         `gorm:"not null;column:first_name" json:"first_name"`
	LastName              string         `gorm:"not null;column:last_name" json:"last_name"`
	Age                   int            `gorm:"not null;column:age" json:"age"`
	Gender                string         `gorm:"not null;column:gender" json:"gender"`
	MaritalStatus         string         `gorm:"not null;column:marital_status" json:"marital_status"`
	LicenseNumber         string         `gorm:"not null;column:license_number" json:"license_number"`
	LicenseState          string         `gorm:"not null;column:license_state" json:"license_state"`
	LicenseStatus         string         `gorm:"not null;column:license_status" json:"license_status"`
	LicenseEffectiveDate  datatypes.Date `gorm:"not null;column:license_effective_date" json:"license_effective_date"`
	LicenseExpirationDate datatypes.Date `gorm:"not null;column:license_expiration_date" json:"license_expiration_date"`
	LicenseClass          string         `gorm:"not null;column:license_class" json:"license_class"`
	Policy                *Policy        `gorm:"foreignKey:PolicyID" json:"policy,omitempty"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
}

func (Driver) TableName() string {
	return "drivers"
}
