package internal

import (
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Tokens   *security.TokenIssuer
	Uploader *service.Uploader
}
