package service

import (
	"testing"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipeIDs(rs []model.Recipe) []uint {
	out := make([]uint, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestListRecipes(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	other := testutil.NewUser(t, db)

	thai, err := CreateRecipe(db, user.ID, sampleFields(), []string{"Thai", "Spicy"}, []string{"Rice"})
	require.NoError(t, err)
	italian, err := CreateRecipe(db, user.ID, sampleFields(), []string{"Italian"}, []string{"Pasta"})
	require.NoError(t, err)
	plain, err := CreateRecipe(db, user.ID, sampleFields(), nil, []string{"Rice"})
	require.NoError(t, err)
	_, err = CreateRecipe(db, other.ID, sampleFields(), []string{"Thai"}, nil)
	require.NoError(t, err)

	all, err := ListRecipes(db, user.ID, RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{plain.ID, italian.ID, thai.ID}, recipeIDs(all))

	// Matching both tags of one recipe must not list it twice
	byTag, err := ListRecipes(db, user.ID, RecipeFilter{TagIDs: []uint{thai.Tags[0].ID, thai.Tags[1].ID, italian.Tags[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, []uint{italian.ID, thai.ID}, recipeIDs(byTag))

	byIngredient, err := ListRecipes(db, user.ID, RecipeFilter{IngredientIDs: []uint{thai.Ingredients[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, []uint{plain.ID, thai.ID}, recipeIDs(byIngredient))

	both, err := ListRecipes(db, user.ID, RecipeFilter{
		TagIDs:        []uint{thai.Tags[0].ID},
		IngredientIDs: []uint{thai.Ingredients[0].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{thai.ID}, recipeIDs(both))
}

func TestGetRecipeOtherOwner(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	other := testutil.NewUser(t, db)

	recipe, err := CreateRecipe(db, user.ID, sampleFields(), nil, nil)
	require.NoError(t, err)

	_, err = GetRecipe(db, other.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = GetRecipe(db, user.ID, recipe.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	other := testutil.NewUser(t, db)

	recipe, err := CreateRecipe(db, user.ID, sampleFields(), []string{"Thai"}, []string{"Rice"})
	require.NoError(t, err)

	_, err = DeleteRecipe(db, other.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = DeleteRecipe(db, user.ID, recipe.ID)
	require.NoError(t, err)

	_, err = GetRecipe(db, user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var links int64
	require.NoError(t, db.Table("recipe_tags").Count(&links).Error)
	assert.Zero(t, links)

	// Tags and ingredients outlive the recipe
	assert.Equal(t, int64(1), countRows(t, db, &model.Tag{}, user.ID))
	assert.Equal(t, int64(1), countRows(t, db, &model.Ingredient{}, user.ID))
}

func TestSetRecipeImage(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)

	recipe, err := CreateRecipe(db, user.ID, sampleFields(), []string{"Thai"}, nil)
	require.NoError(t, err)

	old, err := SetRecipeImage(db, user.ID, recipe.ID, "uploads/recipe/a.png")
	require.NoError(t, err)
	assert.Empty(t, old)

	old, err = SetRecipeImage(db, user.ID, recipe.ID, "uploads/recipe/b.png")
	require.NoError(t, err)
	assert.Equal(t, "uploads/recipe/a.png", old)

	stored, err := GetRecipe(db, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/recipe/b.png", stored.Image)
	assert.Len(t, stored.Tags, 1)
}
