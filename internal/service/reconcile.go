package service

import (
	"errors"

	"bitwise74/recipe-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind selects which attribute table a nested name reference resolves
// against
type Kind int

const (
	KindTag Kind = iota
	KindIngredient
)

func (k Kind) String() string {
	if k == KindIngredient {
		return "ingredient"
	}
	return "tag"
}

// Ref identifies a resolved tag or ingredient row
type Ref struct {
	ID   uint
	Name string
}

// Attribute is a row type attached to recipes by name
type Attribute interface {
	model.Tag | model.Ingredient
}

func kindOf[T Attribute]() Kind {
	var v T
	if _, ok := any(v).(model.Ingredient); ok {
		return KindIngredient
	}
	return KindTag
}

// RefOf returns the identity and name of a tag or ingredient row
func RefOf[T Attribute](v T) Ref {
	switch a := any(v).(type) {
	case model.Tag:
		return Ref{ID: a.ID, Name: a.Name}
	case model.Ingredient:
		return Ref{ID: a.ID, Name: a.Name}
	}
	return Ref{}
}

// resolve maps every distinct name to the owner's existing row, inserting
// the rows that are missing. Duplicate names collapse to one row. Inserts use
// ON CONFLICT DO NOTHING against the (user_id, name) unique index and re-read
// the row, so a concurrent insert of the same name converges on one row
// instead of failing the transaction.
func resolve[T Attribute](tx *gorm.DB, ownerID string, names []string) ([]T, error) {
	out := make([]T, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var row T

		err := tx.Where("user_id = ? AND name = ?", ownerID, name).Take(&row).Error
		if err == nil {
			out = append(out, row)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageErr(err)
		}

		err = tx.Model(new(T)).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]any{"user_id": ownerID, "name": name}).
			Error
		if err != nil {
			return nil, storageErr(err)
		}

		if err := tx.Where("user_id = ? AND name = ?", ownerID, name).Take(&row).Error; err != nil {
			return nil, storageErr(err)
		}

		out = append(out, row)
	}

	return out, nil
}

// ResolveOrCreate returns the owner's tag or ingredient rows matching names,
// creating the missing ones. Calling it again with the same names returns the
// same rows. tx should be a transaction owned by the caller.
func ResolveOrCreate(tx *gorm.DB, ownerID string, kind Kind, names []string) ([]Ref, error) {
	if kind == KindIngredient {
		return resolveRefs[model.Ingredient](tx, ownerID, names)
	}
	return resolveRefs[model.Tag](tx, ownerID, names)
}

func resolveRefs[T Attribute](tx *gorm.DB, ownerID string, names []string) ([]Ref, error) {
	rows, err := resolve[T](tx, ownerID, names)
	if err != nil {
		return nil, err
	}

	refs := make([]Ref, len(rows))
	for i, r := range rows {
		refs[i] = RefOf(r)
	}

	return refs, nil
}

// CreateRecipe inserts a recipe owned by ownerID and attaches the tags and
// ingredients named in the request, creating the missing ones. All writes
// happen on tx so the caller's transaction decides atomicity.
func CreateRecipe(tx *gorm.DB, ownerID string, fields RecipeFields, tagNames, ingredientNames []string) (*model.Recipe, error) {
	if err := validateRecipe(&fields, false, &tagNames, &ingredientNames); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{UserID: ownerID}
	fields.apply(recipe)

	if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
		return nil, storageErr(err)
	}

	if err := setAttributes[model.Tag](tx, recipe, "Tags", tagNames, false); err != nil {
		return nil, err
	}

	if err := setAttributes[model.Ingredient](tx, recipe, "Ingredients", ingredientNames, false); err != nil {
		return nil, err
	}

	return loadRecipe(tx, recipe.UserID, recipe.ID)
}

// UpdateRecipe applies the present scalar fields to recipe. A nil tagNames or
// ingredientNames leaves that association untouched, a non-nil one (even an
// empty list) replaces it completely. The owner can't be changed.
func UpdateRecipe(tx *gorm.DB, recipe *model.Recipe, fields RecipeFields, tagNames, ingredientNames *[]string) (*model.Recipe, error) {
	if err := validateRecipe(&fields, true, tagNames, ingredientNames); err != nil {
		return nil, err
	}

	if cols := fields.apply(recipe); len(cols) > 0 {
		err := tx.Model(recipe).
			Select(cols).
			Omit(clause.Associations).
			Updates(recipe).
			Error
		if err != nil {
			return nil, storageErr(err)
		}
	}

	if tagNames != nil {
		if err := setAttributes[model.Tag](tx, recipe, "Tags", *tagNames, true); err != nil {
			return nil, err
		}
	}

	if ingredientNames != nil {
		if err := setAttributes[model.Ingredient](tx, recipe, "Ingredients", *ingredientNames, true); err != nil {
			return nil, err
		}
	}

	return loadRecipe(tx, recipe.UserID, recipe.ID)
}

func validateRecipe(fields *RecipeFields, partial bool, tagNames, ingredientNames *[]string) error {
	var verr *ValidationError

	if err := fields.Validate(partial); err != nil && !errors.As(err, &verr) {
		return err
	}
	if verr == nil {
		verr = &ValidationError{Fields: map[string]string{}}
	}

	if tagNames != nil {
		for k, v := range validateNames("tags", *tagNames) {
			verr.Fields[k] = v
		}
	}

	if ingredientNames != nil {
		for k, v := range validateNames("ingredients", *ingredientNames) {
			verr.Fields[k] = v
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// setAttributes points the named association of recipe at exactly the rows
// resolved from names. With replace set the existing links are cleared first.
func setAttributes[T Attribute](tx *gorm.DB, recipe *model.Recipe, assoc string, names []string, replace bool) error {
	if replace {
		if err := tx.Model(recipe).Association(assoc).Clear(); err != nil {
			return storageErr(err)
		}
	}

	rows, err := resolve[T](tx, recipe.UserID, names)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	if err := tx.Model(recipe).Omit(assoc + ".*").Association(assoc).Append(rows); err != nil {
		return storageErr(err)
	}

	return nil
}
