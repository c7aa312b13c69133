package model

import "time"

// RefreshToken tracks issued refresh tokens by their JWT ID so they can be
// rotated and revoked
type RefreshToken struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"index;size:16;not null"`
	TokenID   string    `gorm:"uniqueIndex;size:36;not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
