package store

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// requiredText trims value and checks it is present and at most max characters long.
func requiredText(kind error, field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "", fmt.Errorf("%w: %s is required", kind, field)
	case utf8.RuneCountInString(value) > max:
		return "", fmt.Errorf("%w: %s must be at most %d characters", kind, field, max)
	}
	return value, nil
}

func requiredID(kind error, field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s is required", kind, field)
	}
	return nil
}

// IsValidation reports whether err was caused by rejected input rather than by the database.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidArtist) ||
		errors.Is(err, ErrInvalidAlbum) ||
		errors.Is(err, ErrInvalidGenre) ||
		errors.Is(err, ErrInvalidTrack) ||
		errors.Is(err, ErrInvalidPage)
}
