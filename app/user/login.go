package user

import (
	"net/http"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if !respond.Bind(c, &data) {
		return
	}

	fields := map[string]string{}
	if data.Email == "" {
		fields["email"] = "This field may not be blank."
	}
	if data.Password == "" {
		fields["password"] = "This field may not be blank."
	}
	if len(fields) > 0 {
		respond.Error(c, &service.ValidationError{Fields: fields})
		return
	}

	user, err := service.Authenticate(d.DB, d.Argon, data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var pair *service.TokenPair

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		pair, err = service.IssueTokenPair(tx, d.Tokens, user.ID)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	setAuthCookie(c, pair.Access, int(d.Tokens.AccessTTL.Seconds()))
	c.JSON(http.StatusOK, toUserWithToken(user, pair))
}

func setAuthCookie(c *gin.Context, token string, maxAge int) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", token, maxAge, "/", "", secure, true)
}
