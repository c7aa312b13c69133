package model

// Tag and Ingredient names are unique per owner. Rows are only ever created
// through get-or-create lookups keyed on (user_id, name).

type Tag struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"size:16;not null;uniqueIndex:idx_tags_user_name"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_tags_user_name"`

	Recipes []Recipe `gorm:"many2many:recipe_tags"`
}

type Ingredient struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"size:16;not null;uniqueIndex:idx_ingredients_user_name"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_ingredients_user_name"`

	Recipes []Recipe `gorm:"many2many:recipe_ingredients"`
}
