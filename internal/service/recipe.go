package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodgram/internal/models"
)

// RecipeFilters are the query-parameter-driven predicates applied to
// recipe listings.
type RecipeFilters struct {
	// Author restricts to recipes by a single author id. 0 disables.
	Author uint
	// TagSlugs is an OR-match over tag slugs.
	TagSlugs []string
	// IsFavorited / IsInShoppingCart restrict by the requester's marker
	// relations. nil disables the filter.
	IsFavorited      *bool
	IsInShoppingCart *bool
	// RequesterID is the authenticated user applying the boolean
	// filters, 0 for anonymous.
	RequesterID uint
}

// RecipeIngredientInput references an ingredient with its quantity.
type RecipeIngredientInput struct {
	IngredientID uint
	Amount       int
}

// RecipeInput carries the validated fields of a create/update request.
// ImagePath is the already-stored media path; empty on update keeps the
// current image.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImagePath   string
	TagIDs      []uint
	Ingredients []RecipeIngredientInput
}

// RecipeService handles recipe CRUD, filtering and the user↔recipe
// marker relations.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("RecipeIngredients.Ingredient")
}

// GetRecipe retrieves a recipe with its author, tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preloaded(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RecipeExists reports whether a recipe id is known. Used by the
// short-link redirector, which does not need the full row.
func (s *RecipeService) RecipeExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListRecipes applies the filters and returns a page of recipes ordered
// newest first, with the total match count. Filtering never mutates
// state; tag matches are deduplicated by the id-subquery shape.
func (s *RecipeService) ListRecipes(ctx context.Context, f RecipeFilters, offset, limit int) ([]models.Recipe, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.Author != 0 {
		base = base.Where("recipes.author_id = ?", f.Author)
	}

	if len(f.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		base = base.Where("recipes.id IN (?)", tagged)
	}

	var empty bool
	base, empty = s.applyMarkerFilter(base, f.IsFavorited, f.RequesterID, "favorites")
	if empty {
		return []models.Recipe{}, 0, nil
	}
	base, empty = s.applyMarkerFilter(base, f.IsInShoppingCart, f.RequesterID, "shopping_carts")
	if empty {
		return []models.Recipe{}, 0, nil
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := base.
		Preload("Author").
		Preload("Tags").
		Preload("RecipeIngredients.Ingredient").
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error
	return recipes, total, err
}

// applyMarkerFilter restricts (or excludes) recipes present in the
// requester's marker table. For anonymous requesters the positive
// filter matches nothing and the negative one matches everything.
func (s *RecipeService) applyMarkerFilter(query *gorm.DB, value *bool, requesterID uint, table string) (*gorm.DB, bool) {
	if value == nil {
		return query, false
	}
	if requesterID == 0 {
		return query, *value
	}

	marked := s.db.Table(table).
		Select(table + ".recipe_id").
		Where(table+".user_id = ?", requesterID)
	if *value {
		return query.Where("recipes.id IN (?)", marked), false
	}
	return query.Where("recipes.id NOT IN (?)", marked), false
}

// CreateRecipe inserts the recipe together with its tag and ingredient
// associations in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateAssociations(in); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Image:       in.ImagePath,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.replaceAssociations(tx, &recipe, in)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe rewrites the recipe fields and fully replaces its tag
// and ingredient sets (delete-then-insert) in one transaction.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateAssociations(in); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         in.Name,
		"text":         in.Text,
		"cooking_time": in.CookingTime,
	}
	if in.ImagePath != "" {
		updates["image"] = in.ImagePath
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		return s.replaceAssociations(tx, &recipe, in)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes the recipe and its dependent rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}

func validateAssociations(in RecipeInput) error {
	if len(in.TagIDs) == 0 {
		return ErrEmptyTags
	}
	if hasDuplicates(in.TagIDs) {
		return ErrDuplicateTags
	}
	if len(in.Ingredients) == 0 {
		return ErrEmptyIngredients
	}
	ids := make([]uint, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		ids[i] = ing.IngredientID
	}
	if hasDuplicates(ids) {
		return ErrDuplicateIngredients
	}
	return nil
}

func hasDuplicates(ids []uint) bool {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// replaceAssociations swaps the recipe's tag set and rewrites its
// ingredient rows. Runs inside the caller's transaction so a failure
// cannot leave the recipe half-updated.
func (s *RecipeService) replaceAssociations(tx *gorm.DB, recipe *models.Recipe, in RecipeInput) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", in.TagIDs).Find(&tags).Error; err != nil {
		return err
	}
	if len(tags) != len(in.TagIDs) {
		return ErrUnknownTag
	}
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}

	ingredientIDs := make([]uint, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		ingredientIDs[i] = ing.IngredientID
	}
	var known int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&known).Error; err != nil {
		return err
	}
	if known != int64(len(ingredientIDs)) {
		return ErrUnknownIngredient
	}

	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeIngredient, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.IngredientID,
			Amount:       ing.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// AddFavorite creates the favorite marker row; a duplicate request is a
// client error, with the unique constraint as the concurrent backstop.
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.addMarker(ctx, &models.Favorite{UserID: userID, RecipeID: recipeID}, ErrAlreadyInFavorites)
}

// RemoveFavorite deletes the favorite marker row; removing an absent
// one is a client error.
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInFavorites
	}
	return nil
}

// AddToCart creates the shopping-cart marker row.
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uint) error {
	return s.addMarker(ctx, &models.ShoppingCart{UserID: userID, RecipeID: recipeID}, ErrAlreadyInCart)
}

// RemoveFromCart deletes the shopping-cart marker row.
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInCart
	}
	return nil
}

func (s *RecipeService) addMarker(ctx context.Context, row interface{}, conflict error) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict
		}
		return err
	}
	return nil
}

// UserRecipeFlags reports which of the given recipes are favorited and
// carted by the user. Anonymous users (id 0) get empty sets.
func (s *RecipeService) UserRecipeFlags(ctx context.Context, userID uint, recipeIDs []uint) (favorited, inCart map[uint]bool, err error) {
	favorited = make(map[uint]bool, len(recipeIDs))
	inCart = make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var ids []uint
	if err = s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}

	var cartIDs []uint
	if err = s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &cartIDs).Error; err != nil {
		return nil, nil, err
	}
	for _, id := range cartIDs {
		inCart[id] = true
	}
	return favorited, inCart, nil
}
