package model

import "github.com/shopspring/decimal"

type Recipe struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	UserID      string          `gorm:"index;size:16;not null"`
	Title       string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	TimeMinutes int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Link        string          `gorm:"size:255"`
	Image       string          `gorm:"size:255"` // Storage key, not a URL

	Tags        []Tag        `gorm:"many2many:recipe_tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients"`
}
