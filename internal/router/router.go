package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"foodgram/internal/api"
	"foodgram/internal/middleware"
	"foodgram/internal/storage"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth      *api.AuthHandler
	Users     *api.UserHandler
	Recipes   *api.RecipeHandler
	Catalog   *api.CatalogHandler
	ShortLink *api.ShortLinkHandler
}

// SetupRouter configures the application routes.
func SetupRouter(
	h Handlers,
	validator middleware.TokenValidator,
	writeLimiter *middleware.RateLimiter,
	store storage.Storage,
	mediaBaseURL string,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	requireAuth := middleware.AuthMiddleware(validator)
	optionalAuth := middleware.OptionalAuthMiddleware(validator)
	writeLimit := writeLimiter.Middleware()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Media saved to local storage is served straight off disk. S3
	// objects carry absolute URLs, so no route is needed for them.
	if local, ok := store.(*storage.LocalStorage); ok {
		router.Static(mediaBaseURL, local.LocalBaseDir())
	}

	h.ShortLink.RegisterRoutes(router)

	v1 := router.Group("/api")
	h.Auth.RegisterRoutes(v1, requireAuth)
	h.Users.RegisterRoutes(v1, requireAuth, optionalAuth)
	h.Recipes.RegisterRoutes(v1, requireAuth, optionalAuth, writeLimit)
	h.Catalog.RegisterRoutes(v1)

	return router
}
