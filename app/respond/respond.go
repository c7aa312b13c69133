// Package respond turns service errors into JSON responses
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"

	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the response matching err. Anything that isn't a known
// client error is logged and reported as an internal server error.
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid input",
			"fields":    verr.Fields,
			"requestID": requestID,
		})

		zap.L().Debug("Invalid input", zap.Error(err), zap.String("requestID", requestID))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Unable to authenticate with provided credentials",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrInvalidRefresh):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Token is invalid or expired",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrProfileExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Profile already exists",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}
}

// Bind decodes the JSON body into obj. On failure the error response is
// already written and false is returned.
func Bind(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		Error(c, &service.ValidationError{Fields: map[string]string{
			ute.Field: typeMessage(ute),
		}})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": c.GetString("requestID"),
	})

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
	return false
}

func typeMessage(ute *json.UnmarshalTypeError) string {
	switch ute.Type.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice:
		return fmt.Sprintf("Expected a list of items but got type %q.", ute.Value)
	case reflect.Struct, reflect.Map:
		return fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", ute.Value)
	case reflect.Bool:
		return "Must be a valid boolean."
	}

	return "Invalid value."
}

// FormFile returns the uploaded file under field. A missing file yields nil
// so the upload validation can report it against the field. Any other
// multipart failure is written as an error response and false is returned.
func FormFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	if err == nil || errors.Is(err, http.ErrMissingFile) {
		return fh, true
	}

	requestID := c.GetString("requestID")

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "Request body size exceeds limit",
			"requestID": requestID,
		})
		return nil, false
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't parse multipart form", zap.Error(err), zap.String("requestID", requestID))
	return nil, false
}

// ID parses the :id path parameter. Invalid IDs are reported as not found.
func ID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(c, service.ErrNotFound)
		return 0, false
	}

	return uint(id), true
}
