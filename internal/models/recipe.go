package models

import (
	"regexp"
	"time"
)

const (
	MinCookingTime      = 1
	MinIngredientAmount = 1
)

// SlugRe constrains tag slugs to URL-safe characters.
var SlugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"-"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Image       string    `gorm:"size:255;not null" json:"-"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	CreatedAt   time.Time `gorm:"index" json:"-"`

	Author            *User              `gorm:"foreignKey:AuthorID" json:"-"`
	Tags              []Tag              `gorm:"many2many:recipe_tags" json:"-"`
	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

// RecipeIngredient is the join row carrying the quantity of an
// ingredient within a recipe.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RecipeID     uint `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart marks a recipe as queued for the user's shopping list.
type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_cart_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"-"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
