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

type refreshBody struct {
	Refresh string `json:"refresh"`
}

// UserRefresh trades a refresh token for a new token pair. The used refresh
// token is revoked.
func UserRefresh(c *gin.Context, d *internal.Deps) {
	var data refreshBody
	if !respond.Bind(c, &data) {
		return
	}

	if data.Refresh == "" {
		respond.Error(c, &service.ValidationError{Fields: map[string]string{
			"refresh": "This field may not be blank.",
		}})
		return
	}

	var (
		pair *service.TokenPair
		user *model.User
	)

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, pair, err = service.RotateRefreshToken(tx, d.Tokens, data.Refresh)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	setAuthCookie(c, pair.Access, int(d.Tokens.AccessTTL.Seconds()))
	c.JSON(http.StatusOK, toUserWithToken(user, pair))
}
