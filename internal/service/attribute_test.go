package service

import (
	"testing"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names[T Attribute](rows []T) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = RefOf(r).Name
	}
	return out
}

func TestListAttributes(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	other := testutil.NewUser(t, db)

	_, err := CreateRecipe(db, user.ID, sampleFields(), []string{"Breakfast"}, []string{"Eggs"})
	require.NoError(t, err)
	_, err = CreateRecipe(db, user.ID, sampleFields(), []string{"Breakfast"}, nil)
	require.NoError(t, err)
	_, err = ResolveOrCreate(db, user.ID, KindTag, []string{"Unused", "Lunch"})
	require.NoError(t, err)
	_, err = ResolveOrCreate(db, other.ID, KindTag, []string{"Zzz"})
	require.NoError(t, err)

	tags, err := ListAttributes[model.Tag](db, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unused", "Lunch", "Breakfast"}, names(tags))

	assigned, err := ListAttributes[model.Tag](db, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Breakfast"}, names(assigned))

	ingredients, err := ListAttributes[model.Ingredient](db, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Eggs"}, names(ingredients))
}

func TestRenameAttribute(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	other := testutil.NewUser(t, db)

	refs, err := ResolveOrCreate(db, user.ID, KindTag, []string{"Diner", "Lunch"})
	require.NoError(t, err)

	tag, err := RenameAttribute[model.Tag](db, user.ID, refs[0].ID, "Dinner")
	require.NoError(t, err)
	assert.Equal(t, "Dinner", tag.Name)

	_, err = RenameAttribute[model.Tag](db, user.ID, refs[0].ID, "Lunch")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = RenameAttribute[model.Tag](db, user.ID, refs[0].ID, "")
	require.ErrorAs(t, err, &verr)

	_, err = RenameAttribute[model.Tag](db, other.ID, refs[0].ID, "Stolen")
	assert.ErrorIs(t, err, ErrNotFound)

	// Same name under another kind is fine
	_, err = ResolveOrCreate(db, user.ID, KindIngredient, []string{"Dinner"})
	assert.NoError(t, err)
}

func TestDeleteAttributeUnlinksRecipes(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	other := testutil.NewUser(t, db)

	recipe, err := CreateRecipe(db, user.ID, sampleFields(), []string{"Thai", "Spicy"}, []string{"Chili"})
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteAttribute[model.Tag](db, other.ID, recipe.Tags[0].ID), ErrNotFound)

	require.NoError(t, DeleteAttribute[model.Tag](db, user.ID, recipe.Tags[0].ID))
	require.NoError(t, DeleteAttribute[model.Ingredient](db, user.ID, recipe.Ingredients[0].ID))

	stored, err := GetRecipe(db, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spicy"}, tagNames(stored))
	assert.Empty(t, stored.Ingredients)
}
