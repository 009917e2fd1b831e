package types

import (
	"time"

	"github.com/google/uuid"
)

// UserToken is a persisted refresh token. Only a bcrypt hash of the token is
// stored; the raw value leaves the service exactly once, at issuance.
type UserToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	TokenHash string    `gorm:"not null;column:token_hash" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false;column:revoked" json:"revoked"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
