package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/service"
)

// AuthHandler serves token issuance and revocation.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	token := r.Group("/auth/token")
	{
		token.POST("/login", h.Login)
		token.POST("/logout", requireAuth, h.Logout)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout acknowledges token revocation. Tokens are stateless JWTs, so
// the client discards the token and the server returns 204.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
