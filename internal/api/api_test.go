package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foodgram/internal/api"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/router"
	"foodgram/internal/service"
	"foodgram/internal/storage"
)

// 1x1 transparent PNG.
const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testApp struct {
	db       *gorm.DB
	engine   *gin.Engine
	mediaDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mediaDir := t.TempDir()
	store, err := storage.NewLocalStorage(mediaDir, "/media")
	require.NoError(t, err)

	imageService := service.NewImageService(store, 2<<20)
	authService := service.NewAuthService(db, "test-secret", time.Hour)
	userService := service.NewUserService(db, imageService)
	recipeService := service.NewRecipeService(db)
	shoppingService := service.NewShoppingListService(db)
	catalogService := service.NewCatalogService(db)

	serializer := api.NewSerializer(userService, recipeService, imageService)

	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Users:     api.NewUserHandler(authService, userService, serializer, 6),
		Recipes:   api.NewRecipeHandler(recipeService, imageService, shoppingService, serializer, 6),
		Catalog:   api.NewCatalogHandler(catalogService),
		ShortLink: api.NewShortLinkHandler(recipeService),
	}

	var noLimiter *middleware.RateLimiter
	engine := router.SetupRouter(handlers, authService, noLimiter, store, "/media")

	return &testApp{db: db, engine: engine, mediaDir: mediaDir}
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// signup registers a user through the API and returns the user row and
// a valid bearer token.
func (a *testApp) signup(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	w := a.request(t, http.MethodPost, "/api/users", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "testpassword123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.request(t, http.MethodPost, "/api/auth/token/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "testpassword123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AuthToken string `json:"auth_token"`
	}
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.AuthToken)

	var user models.User
	require.NoError(t, a.db.Where("username = ?", username).First(&user).Error)
	return &user, resp.AuthToken
}

func (a *testApp) seedTag(t *testing.T, name, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Slug: slug}
	require.NoError(t, a.db.Create(&tag).Error)
	return &tag
}

func (a *testApp) seedIngredient(t *testing.T, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, a.db.Create(&ingredient).Error)
	return &ingredient
}

// createRecipe posts a minimal valid recipe and returns its id.
func (a *testApp) createRecipe(t *testing.T, token, name string, tagIDs []uint, ingredientID uint, amount int) uint {
	t.Helper()

	w := a.request(t, http.MethodPost, "/api/recipes", token, gin.H{
		"name":         name,
		"text":         "cook it",
		"cooking_time": 15,
		"image":        tinyPNG,
		"tags":         tagIDs,
		"ingredients":  []gin.H{{"id": ingredientID, "amount": amount}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, w, &resp)
	require.NotZero(t, resp.ID)
	return resp.ID
}

func recipePath(id uint, suffix string) string {
	return fmt.Sprintf("/api/recipes/%d%s", id, suffix)
}

// recipeImageFile resolves the on-disk location of a recipe's stored image.
func (a *testApp) recipeImageFile(t *testing.T, id uint) string {
	t.Helper()
	var recipe models.Recipe
	require.NoError(t, a.db.First(&recipe, id).Error)
	require.NotEmpty(t, recipe.Image)
	return filepath.Join(a.mediaDir, filepath.FromSlash(recipe.Image))
}
