// Package root contains endpoints that aren't tied to a resource
package root

import (
	"net/http"

	"bitwise74/recipe-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Heartbeat reports whether the server can reach its database. A failing
// ping answers 503 so load balancers stop routing here.
func Heartbeat(c *gin.Context, d *internal.Deps) {
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}

	if err != nil {
		zap.L().Warn("Heartbeat database ping failed", zap.Error(err))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Status(http.StatusOK)
}
