package domain

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrRowNotFound     = errors.New("line item row not found")
	ErrSessionNotFound = errors.New("editing session not found")
	ErrSessionClosed   = errors.New("editing session is closed")
	ErrInvalidField    = errors.New("unknown row field")
	ErrInvalidQuantity = errors.New("quantity accepts digits only")
	ErrItemNotFound    = errors.New("catalog item not found")
	ErrImportFailed    = errors.New("line item import failed")
)
