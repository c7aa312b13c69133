package service

import (
	"errors"

	"bitwise74/recipe-api/internal/model"

	"gorm.io/gorm"
)

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// loadRecipe fetches a recipe of ownerID together with its tags and
// ingredients. Recipes of other users are reported as ErrNotFound.
func loadRecipe(db *gorm.DB, ownerID string, id uint) (*model.Recipe, error) {
	var recipe model.Recipe

	err := db.
		Preload("Tags", orderByID).
		Preload("Ingredients", orderByID).
		Where("id = ? AND user_id = ?", id, ownerID).
		Take(&recipe).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	return &recipe, nil
}

// GetRecipe returns a recipe owned by ownerID
func GetRecipe(db *gorm.DB, ownerID string, id uint) (*model.Recipe, error) {
	return loadRecipe(db, ownerID, id)
}

// RecipeFilter narrows a recipe listing. A recipe matches a non-empty ID
// list when it references at least one of the IDs.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// ListRecipes returns the owner's recipes, newest first, without duplicates
func ListRecipes(db *gorm.DB, ownerID string, f RecipeFilter) ([]model.Recipe, error) {
	q := db.Where("user_id = ?", ownerID)

	if len(f.TagIDs) > 0 {
		q = q.Where("id IN (?)", db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", f.TagIDs))
	}

	if len(f.IngredientIDs) > 0 {
		q = q.Where("id IN (?)", db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", f.IngredientIDs))
	}

	recipes := []model.Recipe{}

	err := q.
		Preload("Tags", orderByID).
		Preload("Ingredients", orderByID).
		Order("id desc").
		Find(&recipes).
		Error
	if err != nil {
		return nil, storageErr(err)
	}

	return recipes, nil
}

// DeleteRecipe removes a recipe and its tag/ingredient links. The tags and
// ingredients themselves are kept. The deleted recipe is returned so the
// caller can clean up its image.
func DeleteRecipe(tx *gorm.DB, ownerID string, id uint) (*model.Recipe, error) {
	recipe, err := loadRecipe(tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Delete(&model.Recipe{}, recipe.ID).Error; err != nil {
		return nil, storageErr(err)
	}

	return recipe, nil
}

// SetRecipeImage stores a new image key on the recipe and returns the key it
// replaced, empty if there was none
func SetRecipeImage(tx *gorm.DB, ownerID string, id uint, key string) (string, error) {
	recipe, err := loadRecipe(tx, ownerID, id)
	if err != nil {
		return "", err
	}

	old := recipe.Image

	if _, err := UpdateRecipe(tx, recipe, RecipeFields{Image: &key}, nil, nil); err != nil {
		return "", err
	}

	return old, nil
}
