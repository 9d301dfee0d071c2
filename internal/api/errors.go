package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"foodgram/internal/service"
)

var errStatus = map[error]int{
	service.ErrEmailTaken:           http.StatusBadRequest,
	service.ErrUsernameTaken:        http.StatusBadRequest,
	service.ErrInvalidUsername:      http.StatusBadRequest,
	service.ErrInvalidCredentials:   http.StatusBadRequest,
	service.ErrWrongPassword:        http.StatusBadRequest,
	service.ErrSelfSubscription:     http.StatusBadRequest,
	service.ErrAlreadySubscribed:    http.StatusBadRequest,
	service.ErrNotSubscribed:        http.StatusBadRequest,
	service.ErrAlreadyInFavorites:   http.StatusBadRequest,
	service.ErrNotInFavorites:       http.StatusBadRequest,
	service.ErrAlreadyInCart:        http.StatusBadRequest,
	service.ErrNotInCart:            http.StatusBadRequest,
	service.ErrEmptyTags:            http.StatusBadRequest,
	service.ErrDuplicateTags:        http.StatusBadRequest,
	service.ErrUnknownTag:           http.StatusBadRequest,
	service.ErrEmptyIngredients:     http.StatusBadRequest,
	service.ErrDuplicateIngredients: http.StatusBadRequest,
	service.ErrUnknownIngredient:    http.StatusBadRequest,
	service.ErrInvalidImage:         http.StatusBadRequest,
	service.ErrImageTooBig:          http.StatusBadRequest,
}

// respondError translates service errors into the API's error body.
// Unrecognized errors are logged and reported as 500.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
		return
	}
	for sentinel, status := range errStatus {
		if errors.Is(err, sentinel) {
			c.JSON(status, gin.H{"detail": sentinel.Error()})
			return
		}
	}
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func respondDetail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}
