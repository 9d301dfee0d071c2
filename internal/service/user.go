package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodgram/internal/models"
)

// UserService handles user lookup, subscriptions and avatars.
type UserService struct {
	db     *gorm.DB
	images *ImageService
}

func NewUserService(db *gorm.DB, images *ImageService) *UserService {
	return &UserService{
		db:     db,
		images: images,
	}
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserWithRecipes loads a user together with their recipes, newest
// first.
func (s *UserService) GetUserWithRecipes(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Recipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipes.created_at DESC")
		}).
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a page of users ordered by email, with the total count.
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("email").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// Subscribe adds a follow relation from user to author. The uniqueness
// constraint on (user, author) is the backstop against concurrent
// duplicate requests.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return author, nil
}

// Unsubscribe removes the follow relation; removing one that does not
// exist is a client error.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions returns a page of authors the user follows, most recent
// subscription first, each with their recipes preloaded.
func (s *UserService) Subscriptions(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Recipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipes.created_at DESC")
		}).
		Find(&authors).Error
	return authors, total, err
}

// SubscribedAuthorIDs reports which of the given authors the user
// follows. An anonymous user (id 0) follows nobody.
func (s *UserService) SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// RecipeCounts returns the number of recipes per author.
func (s *UserService) RecipeCounts(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.AuthorID] = row.Total
	}
	return result, nil
}

// SetAvatar decodes and stores a base64 avatar payload, replacing any
// previous file. Returns the public URL of the new avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, payload string) (string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	path, err := s.images.SaveBase64(ctx, payload, "users")
	if err != nil {
		return "", err
	}

	old := user.Avatar
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", path).Error; err != nil {
		return "", err
	}
	if old != "" {
		_ = s.images.Delete(ctx, old)
	}

	return s.images.URL(path), nil
}

// DeleteAvatar removes the stored avatar, if any.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}

	// Update writes the new value back into user, so grab the path first.
	old := user.Avatar
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", "").Error; err != nil {
		return err
	}
	return s.images.Delete(ctx, old)
}

// AvatarURL resolves the public URL for a user's avatar ("" when unset).
func (s *UserService) AvatarURL(user *models.User) string {
	if user.Avatar == "" {
		return ""
	}
	return s.images.URL(user.Avatar)
}
