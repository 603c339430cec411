package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/commlog/internal/services"
)

type TagsController struct {
	entries *services.EntryService
}

func NewTagsController(entries *services.EntryService) *TagsController {
	return &TagsController{entries: entries}
}

// GetAllTags returns the distinct tags used on the user's entries
// GET /api/tags
func (tc *TagsController) GetAllTags(c *gin.Context) {
	tags, err := tc.entries.Tags(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}
