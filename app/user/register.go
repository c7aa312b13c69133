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

func UserRegister(c *gin.Context, d *internal.Deps) {
	var data service.UserFields
	if !respond.Bind(c, &data) {
		return
	}

	var user *model.User

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = service.CreateUser(tx, d.Argon, data)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUser(user))
}
