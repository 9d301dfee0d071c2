package main

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodgram/config"
	"foodgram/internal/database"
	"foodgram/internal/models"
)

// seed_users creates a small set of development accounts. All of them
// share the password "testpassword123".
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}

	users := []models.User{
		{Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "Anderson"},
		{Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "Brown"},
		{Email: "carol@example.com", Username: "carol", FirstName: "Carol", LastName: "Clark"},
	}

	for i := range users {
		users[i].PasswordHash = string(hash)
		err := db.Where("email = ?", users[i].Email).First(&models.User{}).Error
		if err == nil {
			logrus.WithField("email", users[i].Email).Info("user already exists, skipping")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Fatal("failed to look up user")
		}
		if err := db.Create(&users[i]).Error; err != nil {
			logrus.WithError(err).WithField("email", users[i].Email).Fatal("failed to create user")
		}
		logrus.WithField("email", users[i].Email).Info("user created")
	}
}
