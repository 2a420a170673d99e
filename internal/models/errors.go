package models

import "errors"

var (
	// ErrValidation is returned when required input is missing or malformed
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned for both an unknown username and a wrong password
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrLanguageNotAssigned is returned when the selected language is not the one assigned to the account
	ErrLanguageNotAssigned = errors.New("language not assigned")
	// ErrStoreUnavailable wraps failures of the underlying database
	ErrStoreUnavailable = errors.New("store unavailable")
)
