package core

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("fragment: not found")

var (
	ErrTemplateNotFound = fmt.Errorf("template %w", ErrNotFound)
	ErrMethodNotAllowed = errors.New("fragment: method not allowed")
)

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || err.Error() == ErrNotFound.Error()
}
