package recipe

import (
	"net/http"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
)

func RecipeFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	recipe, err := service.GetRecipe(d.DB, userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toDetail(recipe, d.Uploader.Store))
}
