package api

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

// UserWithRecipesResponse is the subscription-list entry: the author
// plus their recipes in short form.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientInRecipeResponse carries the quantity of an ingredient
// within a single recipe.
type IngredientInRecipeResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe representation.
type RecipeResponse struct {
	ID                uint                         `json:"id"`
	Tags              []TagResponse                `json:"tags"`
	Author            UserResponse                 `json:"author"`
	Ingredients       []IngredientInRecipeResponse `json:"ingredients"`
	IsFavorited       bool                         `json:"is_favorited"`
	IsInShoppingCart  bool                         `json:"is_in_shopping_cart"`
	Name              string                       `json:"name"`
	Image             string                       `json:"image"`
	Text              string                       `json:"text"`
	CookingTime       int                          `json:"cooking_time"`
}

// RecipeShortResponse is the minified recipe form used by the marker
// toggles and subscription listings.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Page is the pagination envelope shared by every list endpoint.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

type setAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type recipeIngredientRequest struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,gte=1"`
}

type recipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=256"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,gte=1"`
	Image       string                    `json:"image"`
	Tags        []uint                    `json:"tags" binding:"required"`
	Ingredients []recipeIngredientRequest `json:"ingredients" binding:"required,dive"`
}
