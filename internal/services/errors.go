package services

import "errors"

// Expected outcomes surfaced by the service layer. Handlers match these with
// errors.Is and choose the status code and message; anything else is a 500.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)
