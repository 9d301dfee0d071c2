package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/service"
)

// UserHandler serves registration, profiles, avatars and subscriptions.
type UserHandler struct {
	auth       *service.AuthService
	users      *service.UserService
	serializer *Serializer
	pageSize   int
}

func NewUserHandler(auth *service.AuthService, users *service.UserService, serializer *Serializer, pageSize int) *UserHandler {
	return &UserHandler{auth: auth, users: users, serializer: serializer, pageSize: pageSize}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	users := r.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optionalAuth, h.List)
		users.GET("/me", requireAuth, h.Me)
		users.PUT("/me/avatar", requireAuth, h.SetAvatar)
		users.DELETE("/me/avatar", requireAuth, h.DeleteAvatar)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.GET("/:id", optionalAuth, h.Get)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	p := parsePageParams(c, h.pageSize)
	users, total, err := h.users.ListUsers(c.Request.Context(), p.Offset(), p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.serializer.Users(c.Request.Context(), users, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, p, total, results))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.serializer.User(c.Request.Context(), user, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.serializer.User(c.Request.Context(), user, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req setAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "avatar field is required")
		return
	}
	url, err := h.users.SetAvatar(c.Request.Context(), middleware.CurrentUserID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.users.DeleteAvatar(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.auth.SetPassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	p := parsePageParams(c, h.pageSize)
	recipesLimit := queryInt(c, "recipes_limit")

	authors, total, err := h.users.Subscriptions(c.Request.Context(), userID, p.Offset(), p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	authorIDs := make([]uint, len(authors))
	for i := range authors {
		authorIDs[i] = authors[i].ID
	}
	counts, err := h.users.RecipeCounts(c.Request.Context(), authorIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	results := make([]UserWithRecipesResponse, len(authors))
	for i := range authors {
		results[i] = h.serializer.UserWithRecipes(&authors[i], true, counts[authors[i].ID], recipesLimit)
	}
	c.JSON(http.StatusOK, newPage(c, p, total, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(c)
	if _, err := h.users.Subscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	author, err := h.users.GetUserWithRecipes(c.Request.Context(), authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := h.users.RecipeCounts(c.Request.Context(), []uint{authorID})
	if err != nil {
		respondError(c, err)
		return
	}
	recipesLimit := queryInt(c, "recipes_limit")
	c.JSON(http.StatusCreated, h.serializer.UserWithRecipes(author, true, counts[authorID], recipesLimit))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id path parameter, replying 404 on garbage so
// non-numeric ids behave like missing resources.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondDetail(c, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
