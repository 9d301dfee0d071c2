package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/models"
)

func boolPtr(v bool) *bool { return &v }

func TestCreateRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	sugar := createIngredient(t, db, "sugar", "g")

	recipe := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, []RecipeIngredientInput{
		{IngredientID: flour.ID, Amount: 200},
		{IngredientID: sugar.ID, Amount: 100},
	})

	assert.Equal(t, "cake", recipe.Name)
	require.NotNil(t, recipe.Author)
	assert.Equal(t, alice.ID, recipe.Author.ID)
	require.Len(t, recipe.Tags, 1)
	require.Len(t, recipe.RecipeIngredients, 2)
}

func TestCreateRecipeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")

	base := RecipeInput{
		Name:        "cake",
		Text:        "bake",
		CookingTime: 10,
		ImagePath:   "recipes/cake.png",
		TagIDs:      []uint{tag.ID},
		Ingredients: []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}},
	}

	tests := []struct {
		name   string
		mutate func(in *RecipeInput)
		want   error
	}{
		{"no tags", func(in *RecipeInput) { in.TagIDs = nil }, ErrEmptyTags},
		{"duplicate tags", func(in *RecipeInput) { in.TagIDs = []uint{tag.ID, tag.ID} }, ErrDuplicateTags},
		{"unknown tag", func(in *RecipeInput) { in.TagIDs = []uint{9999} }, ErrUnknownTag},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, ErrEmptyIngredients},
		{"duplicate ingredients", func(in *RecipeInput) {
			in.Ingredients = []RecipeIngredientInput{
				{IngredientID: flour.ID, Amount: 100},
				{IngredientID: flour.ID, Amount: 50},
			}
		}, ErrDuplicateIngredients},
		{"unknown ingredient", func(in *RecipeInput) {
			in.Ingredients = []RecipeIngredientInput{{IngredientID: 9999, Amount: 100}}
		}, ErrUnknownIngredient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := svc.CreateRecipe(ctx, alice.ID, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	lunch := createTag(t, db, "lunch", "lunch")
	flour := createIngredient(t, db, "flour", "g")
	sugar := createIngredient(t, db, "sugar", "g")

	recipe := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, []RecipeIngredientInput{
		{IngredientID: flour.ID, Amount: 200},
	})

	updated, err := svc.UpdateRecipe(ctx, recipe.ID, RecipeInput{
		Name:        "better cake",
		Text:        "bake longer",
		CookingTime: 20,
		TagIDs:      []uint{lunch.ID},
		Ingredients: []RecipeIngredientInput{{IngredientID: sugar.ID, Amount: 50}},
	})
	require.NoError(t, err)

	assert.Equal(t, "better cake", updated.Name)
	assert.Equal(t, 20, updated.CookingTime)
	// Image was not sent, the old one stays.
	assert.Equal(t, recipe.Image, updated.Image)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "lunch", updated.Tags[0].Slug)
	require.Len(t, updated.RecipeIngredients, 1)
	assert.Equal(t, sugar.ID, updated.RecipeIngredients[0].IngredientID)
	assert.Equal(t, 50, updated.RecipeIngredients[0].Amount)

	var rows int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestDeleteRecipeRemovesDependents(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")

	recipe := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, []RecipeIngredientInput{
		{IngredientID: flour.ID, Amount: 200},
	})
	require.NoError(t, svc.AddFavorite(ctx, bob.ID, recipe.ID))
	require.NoError(t, svc.AddToCart(ctx, bob.ID, recipe.ID))

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))

	_, err := svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.Zero(t, rows)
	require.NoError(t, db.Model(&models.ShoppingCart{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.Zero(t, rows)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestFavoriteToggle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	recipe := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, []RecipeIngredientInput{
		{IngredientID: flour.ID, Amount: 200},
	})

	require.NoError(t, svc.AddFavorite(ctx, alice.ID, recipe.ID))
	assert.ErrorIs(t, svc.AddFavorite(ctx, alice.ID, recipe.ID), ErrAlreadyInFavorites)

	require.NoError(t, svc.RemoveFavorite(ctx, alice.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, alice.ID, recipe.ID), ErrNotInFavorites)
}

func TestShoppingCartToggle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	recipe := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, []RecipeIngredientInput{
		{IngredientID: flour.ID, Amount: 200},
	})

	require.NoError(t, svc.AddToCart(ctx, alice.ID, recipe.ID))
	assert.ErrorIs(t, svc.AddToCart(ctx, alice.ID, recipe.ID), ErrAlreadyInCart)

	require.NoError(t, svc.RemoveFromCart(ctx, alice.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, alice.ID, recipe.ID), ErrNotInCart)
}

func TestListRecipesByTags(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	breakfast := createTag(t, db, "breakfast", "breakfast")
	dinner := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	ing := []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}}

	// Carries both tags, must appear exactly once in a union query.
	createRecipe(t, db, svc, alice.ID, "pancakes", []uint{breakfast.ID, dinner.ID}, ing)
	createRecipe(t, db, svc, alice.ID, "soup", []uint{dinner.ID}, ing)
	createRecipe(t, db, svc, alice.ID, "plain", []uint{breakfast.ID}, ing)

	recipes, total, err := svc.ListRecipes(ctx, RecipeFilters{TagSlugs: []string{"breakfast", "dinner"}}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, recipes, 3)

	recipes, total, err = svc.ListRecipes(ctx, RecipeFilters{TagSlugs: []string{"dinner"}}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, recipes, 2)
}

func TestListRecipesByAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	ing := []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}}

	createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, ing)
	createRecipe(t, db, svc, bob.ID, "soup", []uint{tag.ID}, ing)

	recipes, total, err := svc.ListRecipes(ctx, RecipeFilters{Author: bob.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "soup", recipes[0].Name)
}

func TestListRecipesFavoritedFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	ing := []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}}

	cake := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, ing)
	createRecipe(t, db, svc, alice.ID, "soup", []uint{tag.ID}, ing)
	require.NoError(t, svc.AddFavorite(ctx, bob.ID, cake.ID))

	recipes, total, err := svc.ListRecipes(ctx, RecipeFilters{IsFavorited: boolPtr(true), RequesterID: bob.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, cake.ID, recipes[0].ID)

	recipes, total, err = svc.ListRecipes(ctx, RecipeFilters{IsFavorited: boolPtr(false), RequesterID: bob.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "soup", recipes[0].Name)
}

func TestListRecipesFavoritedFilterAnonymous(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}})

	// A positive marker filter from an anonymous requester matches nothing.
	recipes, total, err := svc.ListRecipes(ctx, RecipeFilters{IsFavorited: boolPtr(true)}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, recipes)

	// The negative filter matches everything.
	recipes, total, err = svc.ListRecipes(ctx, RecipeFilters{IsFavorited: boolPtr(false)}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, recipes, 1)
}

func TestListRecipesOrderedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	ing := []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}}

	createRecipe(t, db, svc, alice.ID, "first", []uint{tag.ID}, ing)
	createRecipe(t, db, svc, alice.ID, "second", []uint{tag.ID}, ing)
	createRecipe(t, db, svc, alice.ID, "third", []uint{tag.ID}, ing)

	recipes, _, err := svc.ListRecipes(ctx, RecipeFilters{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "third", recipes[0].Name)
	assert.Equal(t, "first", recipes[2].Name)
}

func TestUserRecipeFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	tag := createTag(t, db, "dinner", "dinner")
	flour := createIngredient(t, db, "flour", "g")
	ing := []RecipeIngredientInput{{IngredientID: flour.ID, Amount: 100}}

	cake := createRecipe(t, db, svc, alice.ID, "cake", []uint{tag.ID}, ing)
	soup := createRecipe(t, db, svc, alice.ID, "soup", []uint{tag.ID}, ing)

	require.NoError(t, svc.AddFavorite(ctx, alice.ID, cake.ID))
	require.NoError(t, svc.AddToCart(ctx, alice.ID, soup.ID))

	favorited, inCart, err := svc.UserRecipeFlags(ctx, alice.ID, []uint{cake.ID, soup.ID})
	require.NoError(t, err)
	assert.True(t, favorited[cake.ID])
	assert.False(t, favorited[soup.ID])
	assert.True(t, inCart[soup.ID])
	assert.False(t, inCart[cake.ID])

	favorited, inCart, err = svc.UserRecipeFlags(ctx, 0, []uint{cake.ID})
	require.NoError(t, err)
	assert.Empty(t, favorited)
	assert.Empty(t, inCart)
}
