package types

import (
	"time"
)

type Vehicle struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	PolicyID          uint              `gorm:"not null;index;column:policy_id" json:"policy_id"`
	Year              int               `gorm:"not null;column:year" json:"year"`
	Make              string            `gorm:"not null;column:make" json:"make"`
	Model             string            `gorm:"not null;column:model" json:"model"`
	VIN               string            `gorm:"not null;column:vin" json:"vin"`
	Usage             string            `gorm:"not null;column:usage" json:"usage"`
	PrimaryUse        string            `gorm:"not null;column:primary_use" json:"primary_use"`
	AnnualMileage     int               `gorm:"not null;column:annual_mileage" json:"annual_mileage"`
	Ownership         string            `gorm:"not null;column:ownership" json:"ownership"`
	GaragingAddressID uint              `gorm:"not null;column:garaging_address_id" json:"garaging_address_id"`
	GaragingAddress   *Address          `gorm:"foreignKey:GaragingAddressID" json:"garaging_address,omitempty"`
	Coverages         []VehicleCoverage `gorm:"foreignKey:VehicleID" json:"coverages,omitempty"`
	Policy            *Policy           `gorm:"foreignKey:PolicyID" json:"policy,omitempty"`
	CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
