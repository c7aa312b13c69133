package user

import (
	"net/http"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ProfileCreate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data service.ProfileFields
	if !respond.Bind(c, &data) {
		return
	}

	var profile *model.UserProfile

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = service.CreateProfile(tx, userID, data)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProfile(profile, d.Uploader.Store))
}

func ProfileFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	profile, err := service.GetProfile(d.DB, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfile(profile, d.Uploader.Store))
}

// ProfileUpdate handles PUT and PATCH. Every profile field is optional so
// both behave the same.
func ProfileUpdate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data service.ProfileFields
	if !respond.Bind(c, &data) {
		return
	}

	var profile *model.UserProfile

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = service.UpdateProfile(tx, userID, data)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfile(profile, d.Uploader.Store))
}

func ProfileUploadPicture(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	if _, err := service.GetProfile(d.DB, userID); err != nil {
		respond.Error(c, err)
		return
	}

	fh, ok := respond.FormFile(c, "picture")
	if !ok {
		return
	}

	key, err := d.Uploader.Image(c.Request.Context(), "picture", "userprofile", fh)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var (
		old     string
		profile *model.UserProfile
	)

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if old, err = service.SetProfilePicture(tx, userID, key); err != nil {
			return err
		}

		profile, err = service.GetProfile(tx, userID)
		return err
	})
	if err != nil {
		d.Uploader.Discard(c.Request.Context(), key)
		respond.Error(c, err)
		return
	}

	d.Uploader.Discard(c.Request.Context(), old)

	c.JSON(http.StatusOK, toProfile(profile, d.Uploader.Store))
}
