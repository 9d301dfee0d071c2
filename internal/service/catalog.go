package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/models"
)

// CatalogService serves the read-only tag and ingredient reference
// data. Both collections are admin-managed and small, so listings are
// not paginated.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListIngredients returns ingredients whose name starts with the given
// prefix, case-insensitively. An empty prefix lists everything.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}
	var ingredients []models.Ingredient
	err := query.Find(&ingredients).Error
	return ingredients, err
}

// likeEscaper neutralizes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}
