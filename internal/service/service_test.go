package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

func createRecipe(t *testing.T, db *gorm.DB, svc *RecipeService, authorID uint, name string, tagIDs []uint, ingredients []RecipeIngredientInput) *models.Recipe {
	t.Helper()

	recipe, err := svc.CreateRecipe(context.Background(), authorID, RecipeInput{
		Name:        name,
		Text:        "cook it",
		CookingTime: 10,
		ImagePath:   "recipes/" + name + ".png",
		TagIDs:      tagIDs,
		Ingredients: ingredients,
	})
	require.NoError(t, err)
	return recipe
}
