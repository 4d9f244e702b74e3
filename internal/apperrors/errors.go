package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
	ErrPublish    = errors.New("publish error")
	ErrDelivery   = errors.New("delivery error")
	ErrDecode     = errors.New("decode error")
)

func NewValidation(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, a...)...)
}

func Validation(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func Storage(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func Publish(err error) error {
	return fmt.Errorf("%w: %w", ErrPublish, err)
}

func Delivery(err error) error {
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}

func Decode(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

func IsPublish(err error) bool {
	return errors.Is(err, ErrPublish)
}

func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
