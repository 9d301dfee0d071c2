package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"foodgram/internal/models"
)

// ShoppingListItem is one aggregated line of the shopping report: the
// summed amount of an ingredient across every recipe in the cart.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// ShoppingListService aggregates a user's shopping cart into a plain
// text report.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build groups the cart's recipe ingredients by (name, unit), sums the
// amounts and sorts alphabetically. An empty cart yields empty slices.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) ([]ShoppingListItem, []models.Recipe, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, nil, err
	}

	var recipes []models.Recipe
	err = s.db.WithContext(ctx).
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
		Where("shopping_carts.user_id = ?", userID).
		Preload("Author").
		Order("recipes.name").
		Find(&recipes).Error
	if err != nil {
		return nil, nil, err
	}

	return items, recipes, nil
}

// Render formats the downloadable shopping_list.txt content.
func (s *ShoppingListService) Render(items []ShoppingListItem, recipes []models.Recipe, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Shopping list from %s\n\n", now.Format("02.01.2006"))

	b.WriteString("Recipes:\n")
	for _, r := range recipes {
		author := ""
		if r.Author != nil {
			author = fmt.Sprintf(" (%s %s)", r.Author.FirstName, r.Author.LastName)
		}
		fmt.Fprintf(&b, "- %s%s\n", r.Name, author)
	}

	b.WriteString("\nIngredients:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s: %d %s\n", i+1, item.Name, item.Total, item.MeasurementUnit)
	}

	return b.String()
}
