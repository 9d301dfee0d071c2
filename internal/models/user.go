package models

import (
	"regexp"
	"time"
)

// UsernameRe mirrors the username constraint enforced at registration:
// letters, digits and @/./+/-/_ only.
var UsernameRe = regexp.MustCompile(`^[a-zA-Z0-9.@+_-]+$`)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"-"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID" json:"-"`
}

// Subscription is a follow relation between two users. (user, author)
// is unique; user != author is enforced by the service layer.
type Subscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID  uint      `gorm:"not null;index;uniqueIndex:idx_subscription_user_author" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User `gorm:"foreignKey:UserID" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
