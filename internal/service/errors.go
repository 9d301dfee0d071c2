package service

import "errors"

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("user with this username already exists")
	ErrInvalidUsername    = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("not subscribed to this user")

	ErrAlreadyInFavorites = errors.New("recipe is already in favorites")
	ErrNotInFavorites     = errors.New("recipe is not in favorites")
	ErrAlreadyInCart      = errors.New("recipe is already in shopping cart")
	ErrNotInCart          = errors.New("recipe is not in shopping cart")

	ErrEmptyTags            = errors.New("add at least one tag")
	ErrDuplicateTags        = errors.New("tags must not repeat")
	ErrUnknownTag           = errors.New("unknown tag")
	ErrEmptyIngredients     = errors.New("add at least one ingredient")
	ErrDuplicateIngredients = errors.New("ingredients must not repeat")
	ErrUnknownIngredient    = errors.New("unknown ingredient")

	ErrInvalidImage = errors.New("invalid image payload")
	ErrImageTooBig  = errors.New("image exceeds the size limit")
)
