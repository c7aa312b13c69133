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

func RecipeCreate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var body recipeBody
	if !respond.Bind(c, &body) {
		return
	}

	fields, err := body.fields()
	if err != nil {
		respond.Error(c, err)
		return
	}

	var tagNames, ingredientNames []string
	if n := names(body.Tags); n != nil {
		tagNames = *n
	}
	if n := names(body.Ingredients); n != nil {
		ingredientNames = *n
	}

	var recipe *model.Recipe

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		recipe, err = service.CreateRecipe(tx, userID, fields, tagNames, ingredientNames)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDetail(recipe, d.Uploader.Store))
}
