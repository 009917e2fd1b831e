package types

import (
	"time"
)

// Address is owned by exactly one referencing row at a time: either a
// policy holder or a vehicle (garaging address). It is never shared, and it
// is deleted together with its owner.
type Address struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Street    string    `gorm:"not null;column:street" json:"street"`
	City      string    `gorm:"not null;column:city" json:"city"`
	State     string    `gorm:"not null;column:state" json:"state"`
	Zip       string    `gorm:"not null;column:zip" json:"zip"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}
