package recipe

import (
	"net/http"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RecipeUploadImage(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	// Check ownership before anything is stored
	if _, err := service.GetRecipe(d.DB, userID, id); err != nil {
		respond.Error(c, err)
		return
	}

	fh, ok := respond.FormFile(c, "image")
	if !ok {
		return
	}

	key, err := d.Uploader.Image(c.Request.Context(), "image", "recipe", fh)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var old string

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		old, err = service.SetRecipeImage(tx, userID, id, key)
		return err
	})
	if err != nil {
		d.Uploader.Discard(c.Request.Context(), key)
		respond.Error(c, err)
		return
	}

	d.Uploader.Discard(c.Request.Context(), old)

	c.JSON(http.StatusOK, imageRecord{
		ID:    id,
		Image: imageURL(key, d.Uploader.Store),
	})
}
