package recipe

import (
	"net/http"
	"strconv"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type attrBody struct {
	Name *string `json:"name"`
}

// AttributeList lists the caller's tags or ingredients. assigned_only=1
// hides the ones no recipe uses.
func AttributeList[T service.Attribute](c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	assignedOnly := false
	if raw := c.Query("assigned_only"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || (n != 0 && n != 1) {
			respond.Error(c, &service.ValidationError{Fields: map[string]string{
				"assigned_only": "Select a valid choice. That choice is not one of the available choices.",
			}})
			return
		}
		assignedOnly = n == 1
	}

	rows, err := service.ListAttributes[T](d.DB, userID, assignedOnly)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, attrRecords(rows))
}

// AttributeUpdate renames a tag or ingredient. PUT requires a name, a PATCH
// without one changes nothing.
func AttributeUpdate[T service.Attribute](c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	var body attrBody
	if !respond.Bind(c, &body) {
		return
	}

	if body.Name == nil && c.Request.Method == http.MethodPut {
		respond.Error(c, &service.ValidationError{Fields: map[string]string{
			"name": "This field is required.",
		}})
		return
	}

	var row *T

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if body.Name == nil {
			row, err = service.GetAttribute[T](tx, userID, id)
		} else {
			row, err = service.RenameAttribute[T](tx, userID, id, *body.Name)
		}
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	ref := service.RefOf(*row)
	c.JSON(http.StatusOK, attrRecord{ID: ref.ID, Name: ref.Name})
}

func AttributeDelete[T service.Attribute](c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		return service.DeleteAttribute[T](tx, userID, id)
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
