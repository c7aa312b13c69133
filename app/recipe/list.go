package recipe

import (
	"net/http"
	"strconv"
	"strings"

	"bitwise74/recipe-api/app/respond"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/service"

	"github.com/gin-gonic/gin"
)

// parseIDs parses a comma separated list of IDs like "1,2,3"
func parseIDs(field, raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []uint
	for part := range strings.SplitSeq(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, &service.ValidationError{Fields: map[string]string{
				field: "Enter a comma separated list of IDs.",
			}}
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

func RecipeList(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	tagIDs, err := parseIDs("tags", c.Query("tags"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	ingredientIDs, err := parseIDs("ingredients", c.Query("ingredients"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	recipes, err := service.ListRecipes(d.DB, userID, service.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	out := make([]record, len(recipes))
	for i := range recipes {
		out[i] = toRecord(&recipes[i])
	}

	c.JSON(http.StatusOK, out)
}
