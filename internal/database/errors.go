package database

import "errors"

var (
	// ErrNotFound возвращается, когда запись отсутствует или скрыта от вызывающего
	ErrNotFound = errors.New("record not found")

	// ErrNotAvailable возвращается при попытке забронировать недоступную вещь
	ErrNotAvailable = errors.New("item not available")

	ErrAlreadyApproved        = errors.New("booking already approved")
	ErrAlreadyDecided         = errors.New("booking already decided")
	ErrInvalidInterval        = errors.New("invalid booking interval")
	ErrDuplicateEmail         = errors.New("email already in use")
	ErrValidation             = errors.New("validation failed")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)
