package recipe

import (
	"net/http"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecipeUpdate handles both PUT and PATCH. A PUT must carry every required
// field, a PATCH only the ones it changes.
func RecipeUpdate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)
	partial := c.Request.Method == http.MethodPatch

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	var body recipeBody
	if !respond.Bind(c, &body) {
		return
	}

	fields, fieldsErr := body.fields()

	var recipe *model.Recipe

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		current, err := service.GetRecipe(tx, userID, id)
		if err != nil {
			return err
		}

		if fieldsErr != nil {
			return fieldsErr
		}

		if !partial {
			if err := fields.Validate(false); err != nil {
				return err
			}
		}

		recipe, err = service.UpdateRecipe(tx, current, fields, names(body.Tags), names(body.Ingredients))
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toDetail(recipe, d.Uploader.Store))
}
