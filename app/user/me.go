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

func UserFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	user, err := service.GetUser(d.DB, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUser(user))
}

// UserUpdate handles PUT and PATCH on the caller's account. A PUT must carry
// email and password.
func UserUpdate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data service.UserFields
	if !respond.Bind(c, &data) {
		return
	}

	if c.Request.Method == http.MethodPut {
		fields := map[string]string{}
		if data.Email == nil {
			fields["email"] = "This field is required."
		}
		if data.Password == nil {
			fields["password"] = "This field is required."
		}
		if len(fields) > 0 {
			respond.Error(c, &service.ValidationError{Fields: fields})
			return
		}
	}

	var user *model.User

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		current, err := service.GetUser(tx, userID)
		if err != nil {
			return err
		}

		user, err = service.UpdateUser(tx, d.Argon, current, data)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUser(user))
}

// UserDelete removes the caller's account and everything it owns
func UserDelete(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var keys []string

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		keys, err = service.DeleteUser(tx, userID)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	d.Uploader.Discard(c.Request.Context(), keys...)

	c.SetCookie("auth_token", "", -1, "/", "", c.Request.TLS != nil, true)
	c.Status(http.StatusNoContent)
}
