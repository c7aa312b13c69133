// Package model defines database models
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:16"`
	Email        string `gorm:"uniqueIndex;size:225;not null"`
	Name         string `gorm:"size:225"`
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"default:true"`
	IsStaff      bool   `gorm:"default:false"`
	CreatedAt    time.Time

	Profile       *UserProfile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipes       []Recipe       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tags          []Tag          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Ingredients   []Ingredient   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
