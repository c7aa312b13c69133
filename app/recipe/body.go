package recipe

import (
	"encoding/json"

	"bitwise74/recipe-api/internal/service"

	"github.com/shopspring/decimal"
)

const msgInvalidNumber = "A valid number is required."

type nameRef struct {
	Name string `json:"name"`
}

// recipeBody is the create/update payload. Tags and ingredients are nested
// {name} objects, a missing (or null) list leaves the association alone.
// Price shadows the embedded decimal so a malformed value can be reported
// against its field.
type recipeBody struct {
	service.RecipeFields
	Price       json.RawMessage `json:"price"`
	Tags        *[]nameRef      `json:"tags"`
	Ingredients *[]nameRef      `json:"ingredients"`
}

func names(refs *[]nameRef) *[]string {
	if refs == nil {
		return nil
	}

	out := make([]string, len(*refs))
	for i, r := range *refs {
		out[i] = r.Name
	}

	return &out
}

// fields returns the scalar fields. Images are only set through the upload
// endpoint.
func (b *recipeBody) fields() (service.RecipeFields, error) {
	f := b.RecipeFields
	f.Image = nil
	f.Price = nil

	if len(b.Price) > 0 && string(b.Price) != "null" {
		var p decimal.Decimal
		if err := p.UnmarshalJSON(b.Price); err != nil {
			return f, &service.ValidationError{Fields: map[string]string{"price": msgInvalidNumber}}
		}
		f.Price = &p
	}

	return f, nil
}
