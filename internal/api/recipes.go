package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foodgram/internal/middleware"
	"foodgram/internal/service"
)

// RecipeHandler serves recipe CRUD, the favorite and shopping cart
// toggles, the shopping list download and short links.
type RecipeHandler struct {
	recipes    *service.RecipeService
	images     *service.ImageService
	shopping   *service.ShoppingListService
	serializer *Serializer
	pageSize   int
}

func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService, shopping *service.ShoppingListService, serializer *Serializer, pageSize int) *RecipeHandler {
	return &RecipeHandler{
		recipes:    recipes,
		images:     images,
		shopping:   shopping,
		serializer: serializer,
		pageSize:   pageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth, optionalAuth, writeLimit gin.HandlerFunc) {
	recipes := r.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.List)
		recipes.POST("", requireAuth, writeLimit, h.Create)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.Get)
		recipes.PATCH("/:id", requireAuth, writeLimit, h.Update)
		recipes.DELETE("/:id", requireAuth, h.Delete)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", requireAuth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	requesterID := middleware.CurrentUserID(c)
	filters := service.RecipeFilters{
		RequesterID:      requesterID,
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}
	if v, err := strconv.ParseUint(c.Query("author"), 10, 64); err == nil {
		filters.Author = uint(v)
	}

	p := parsePageParams(c, h.pageSize)
	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), filters, p.Offset(), p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.serializer.Recipes(c.Request.Context(), recipes, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, p, total, results))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.serializer.Recipe(c.Request.Context(), recipe, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		respondDetail(c, http.StatusBadRequest, "image field is required")
		return
	}

	imagePath, err := h.images.SaveBase64(c.Request.Context(), req.Image, "recipes")
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), middleware.CurrentUserID(c), recipeInput(req, imagePath))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.serializer.Recipe(c.Request.Context(), recipe, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	userID := middleware.CurrentUserID(c)
	if recipe.AuthorID != userID {
		respondDetail(c, http.StatusForbidden, "you do not have permission to modify this recipe")
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var imagePath string
	if strings.TrimSpace(req.Image) != "" {
		imagePath, err = h.images.SaveBase64(c.Request.Context(), req.Image, "recipes")
		if err != nil {
			respondError(c, err)
			return
		}
	}

	oldImage := recipe.Image
	updated, err := h.recipes.UpdateRecipe(c.Request.Context(), id, recipeInput(req, imagePath))
	if err != nil {
		respondError(c, err)
		return
	}
	if imagePath != "" && oldImage != imagePath {
		if err := h.images.Delete(c.Request.Context(), oldImage); err != nil {
			logrus.WithError(err).WithField("path", oldImage).Warn("failed to remove replaced recipe image")
		}
	}
	resp, err := h.serializer.Recipe(c.Request.Context(), updated, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if recipe.AuthorID != middleware.CurrentUserID(c) {
		respondDetail(c, http.StatusForbidden, "you do not have permission to delete this recipe")
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := h.images.Delete(c.Request.Context(), recipe.Image); err != nil {
		logrus.WithError(err).WithField("path", recipe.Image).Warn("failed to remove recipe image")
	}
	c.Status(http.StatusNoContent)
}

// GetLink returns the permanent short link for a recipe. The link is
// valid for anonymous use, so no auth is required here.
func (h *RecipeHandler) GetLink(c *gin.Context) {
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
	short := *c.Request.URL
	short.Path = fmt.Sprintf("/s/%d", id)
	short.RawQuery = ""
	c.JSON(http.StatusOK, gin.H{"short-link": absoluteURL(c, &short)})
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMarker(c, h.recipes.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMarker(c, h.recipes.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMarker(c, h.recipes.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMarker(c, h.recipes.RemoveFromCart)
}

// addMarker is the shared toggle-on flow: verify the recipe exists,
// create the marker row, answer 201 with the short recipe form.
func (h *RecipeHandler) addMarker(c *gin.Context, add func(ctx context.Context, userID, recipeID uint) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := add(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.serializer.RecipeShort(recipe))
}

func (h *RecipeHandler) removeMarker(c *gin.Context, remove func(ctx context.Context, userID, recipeID uint) error) {
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
	if err := remove(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	items, recipes, err := h.shopping.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	content := h.shopping.Render(items, recipes, time.Now())
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

func recipeInput(req recipeRequest, imagePath string) service.RecipeInput {
	ingredients := make([]service.RecipeIngredientInput, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredients[i] = service.RecipeIngredientInput{IngredientID: ing.ID, Amount: ing.Amount}
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImagePath:   imagePath,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}

// boolQuery parses 1/0 (and true/false) query flags; absent or
// unparsable values disable the filter.
func boolQuery(c *gin.Context, name string) *bool {
	raw, present := c.GetQuery(name)
	if !present {
		return nil
	}
	switch raw {
	case "1", "true", "True":
		v := true
		return &v
	case "0", "false", "False":
		v := false
		return &v
	}
	return nil
}
