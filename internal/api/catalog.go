package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/service"
)

// CatalogHandler serves the public tag and ingredient reference
// endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/tags", h.ListTags)
	r.GET("/tags/:id", h.GetTag)
	r.GET("/ingredients", h.ListIngredients)
	r.GET("/ingredients/:id", h.GetIngredient)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = IngredientResponse{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, IngredientResponse{ID: ingredient.ID, Name: ingredient.Name, MeasurementUnit: ingredient.MeasurementUnit})
}
