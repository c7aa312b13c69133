package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/validators"

	"github.com/shopspring/decimal"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."

	maxNameLength = 255
)

var maxPrice = decimal.NewFromInt(1000) // decimal(5,2)

// RecipeFields holds the scalar fields of a recipe. A nil pointer means the
// field was not part of the request.
type RecipeFields struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gt=0"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Link        *string          `json:"link" validate:"omitempty,max=255"`
	Image       *string          `json:"image" validate:"omitempty,max=255"`
}

// Validate checks every present field. Unless partial is set the fields
// required to create a recipe must be present too.
func (f *RecipeFields) Validate(partial bool) error {
	fields := validators.Struct(f)
	if fields == nil {
		fields = map[string]string{}
	}

	if !partial {
		if f.Title == nil {
			fields["title"] = msgRequired
		}
		if f.TimeMinutes == nil {
			fields["time_minutes"] = msgRequired
		}
		if f.Price == nil {
			fields["price"] = msgRequired
		}
	}

	if _, ok := fields["title"]; !ok && f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		fields["title"] = msgBlank
	}

	if _, ok := fields["price"]; !ok && f.Price != nil {
		if msg := priceError(*f.Price); msg != "" {
			fields["price"] = msg
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func priceError(p decimal.Decimal) string {
	switch {
	case p.IsNegative():
		return "Ensure this value is greater than or equal to 0."
	case !p.Equal(p.Truncate(2)):
		return "Ensure that there are no more than 2 decimal places."
	case p.GreaterThanOrEqual(maxPrice):
		return "Ensure that there are no more than 5 digits in total."
	}

	return ""
}

// apply copies the present fields onto r and returns the columns it touched.
// The owner is deliberately not settable here.
func (f *RecipeFields) apply(r *model.Recipe) []string {
	var cols []string

	if f.Title != nil {
		r.Title = *f.Title
		cols = append(cols, "title")
	}
	if f.TimeMinutes != nil {
		r.TimeMinutes = *f.TimeMinutes
		cols = append(cols, "time_minutes")
	}
	if f.Price != nil {
		r.Price = *f.Price
		cols = append(cols, "price")
	}
	if f.Description != nil {
		r.Description = *f.Description
		cols = append(cols, "description")
	}
	if f.Link != nil {
		r.Link = *f.Link
		cols = append(cols, "link")
	}
	if f.Image != nil {
		r.Image = *f.Image
		cols = append(cols, "image")
	}

	return cols
}

// validateNames checks a list of nested {name} references. field is the
// payload key the list came from, used to build error keys like tags.0.name
func validateNames(field string, names []string) map[string]string {
	fields := map[string]string{}

	for i, name := range names {
		key := fmt.Sprintf("%s.%d.name", field, i)

		switch {
		case strings.TrimSpace(name) == "":
			fields[key] = msgBlank
		case utf8.RuneCountInString(name) > maxNameLength:
			fields[key] = fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength)
		}
	}

	return fields
}
