package favorites

import "errors"

var (
	ErrEmptyName     = errors.New("favorite name is empty")
	ErrLoadFavorites = errors.New("failed to load favorites")
	ErrSaveFavorites = errors.New("failed to save favorites")
)
