// Package middleware contains any custom middleware used in the app
package middleware

import (
	"regexp"

	"bitwise74/recipe-api/pkg/util"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// NewRequestIDMiddleware sets requestID for every request. An X-Request-ID
// header from a proxy is reused when it looks sane, otherwise a new ID is
// generated. The ID is echoed back in the response headers.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID.MatchString(id) {
			id = util.RandStr(10)
		}

		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
