package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/service"
)

// ShortLinkHandler redirects /s/<id> to the recipe's frontend page.
type ShortLinkHandler struct {
	recipes *service.RecipeService
}

func NewShortLinkHandler(recipes *service.RecipeService) *ShortLinkHandler {
	return &ShortLinkHandler{recipes: recipes}
}

func (h *ShortLinkHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/s/:id", h.Redirect)
}

func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	exists, err := h.recipes.RecipeExists(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		respondDetail(c, http.StatusNotFound, "not found")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d/", id))
}
