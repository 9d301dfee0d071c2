package api

import (
	"context"

	"foodgram/internal/models"
	"foodgram/internal/service"
)

// Serializer assembles API responses, resolving per-requester flags
// (is_subscribed, is_favorited, is_in_shopping_cart) in batches so
// list endpoints avoid per-row queries.
type Serializer struct {
	users   *service.UserService
	recipes *service.RecipeService
	images  *service.ImageService
}

func NewSerializer(users *service.UserService, recipes *service.RecipeService, images *service.ImageService) *Serializer {
	return &Serializer{users: users, recipes: recipes, images: images}
}

func (s *Serializer) user(u *models.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       s.users.AvatarURL(u),
	}
}

// User serializes a single user, looking up the subscription flag for
// the requester (0 means anonymous).
func (s *Serializer) User(ctx context.Context, u *models.User, requesterID uint) (UserResponse, error) {
	subs, err := s.users.SubscribedAuthorIDs(ctx, requesterID, []uint{u.ID})
	if err != nil {
		return UserResponse{}, err
	}
	return s.user(u, subs[u.ID]), nil
}

func (s *Serializer) Users(ctx context.Context, users []models.User, requesterID uint) ([]UserResponse, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subs, err := s.users.SubscribedAuthorIDs(ctx, requesterID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = s.user(&users[i], subs[users[i].ID])
	}
	return out, nil
}

func (s *Serializer) RecipeShort(r *models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       s.images.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func (s *Serializer) recipe(r *models.Recipe, author UserResponse, favorited, inCart bool) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	ingredients := make([]IngredientInRecipeResponse, len(r.RecipeIngredients))
	for i, ri := range r.RecipeIngredients {
		ingredients[i] = IngredientInRecipeResponse{
			ID:     ri.IngredientID,
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			ingredients[i].Name = ri.Ingredient.Name
			ingredients[i].MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
	}
	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            s.images.URL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// Recipe serializes a single fully preloaded recipe.
func (s *Serializer) Recipe(ctx context.Context, r *models.Recipe, requesterID uint) (RecipeResponse, error) {
	out, err := s.Recipes(ctx, []models.Recipe{*r}, requesterID)
	if err != nil {
		return RecipeResponse{}, err
	}
	return out[0], nil
}

// Recipes serializes a page of preloaded recipes with batched flag
// lookups.
func (s *Serializer) Recipes(ctx context.Context, recipes []models.Recipe, requesterID uint) ([]RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}
	favorited, inCart, err := s.recipes.UserRecipeFlags(ctx, requesterID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subs, err := s.users.SubscribedAuthorIDs(ctx, requesterID, authorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		var author UserResponse
		if r.Author != nil {
			author = s.user(r.Author, subs[r.AuthorID])
		}
		out[i] = s.recipe(r, author, favorited[r.ID], inCart[r.ID])
	}
	return out, nil
}

// UserWithRecipes serializes a subscription entry. recipesLimit of 0
// means no cap.
func (s *Serializer) UserWithRecipes(u *models.User, subscribed bool, count int64, recipesLimit int) UserWithRecipesResponse {
	recipes := u.Recipes
	if recipesLimit > 0 && len(recipes) > recipesLimit {
		recipes = recipes[:recipesLimit]
	}
	short := make([]RecipeShortResponse, len(recipes))
	for i := range recipes {
		short[i] = s.RecipeShort(&recipes[i])
	}
	return UserWithRecipesResponse{
		UserResponse: s.user(u, subscribed),
		Recipes:      short,
		RecipesCount: count,
	}
}
