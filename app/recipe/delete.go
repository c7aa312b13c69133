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

func RecipeDelete(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	var recipe *model.Recipe

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		recipe, err = service.DeleteRecipe(tx, userID, id)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	d.Uploader.Discard(c.Request.Context(), recipe.Image)

	c.Status(http.StatusNoContent)
}
