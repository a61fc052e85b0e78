package services

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by the service layer. Handlers map these onto HTTP
// statuses (404, 409, 403, 401); anything else is an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict with existing resource")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// notFoundOr translates a repository record-not-found error into ErrNotFound
// and passes every other error through unchanged.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
