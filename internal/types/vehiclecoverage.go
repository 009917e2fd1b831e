package types

import (
	"time"
)

// VehicleCoverage keeps limit/deductible as strings; they are display values
// ("100000", "500") and nothing does arithmetic on them.
type VehicleCoverage struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleID     uint      `gorm:"not null;index;column:vehicle_id" json:"vehicle_id"`
	CoverageType  string    `gorm:"not null;column:coverage_type" json:"coverage_type"`
	CoverageLimit string    `gorm:"not null;column:coverage_limit" json:"coverage_limit"`
	Deductible    string    `gorm:"not null;column:deductible" json:"deductible"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (VehicleCoverage) TableName() string {
	return "vehicle_coverages"
}
