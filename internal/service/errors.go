// Package service holds the business flows behind the HTTP handlers:
// reservations against the inventory service, stream sessions and chat,
// vendor adapters (Agora, YouTube) and login.
package service

import "errors"

// Sentinel errors.  Callers attach detail with fmt.Errorf("%w: ...") and
// handlers classify them with errors.Is.
var (
	ErrStreamNotFound      = errors.New("stream not found")
	ErrChatNotFound        = errors.New("chat not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidProduct      = errors.New("invalid product")
	ErrOutOfStock          = errors.New("out of stock")
	ErrValidation          = errors.New("validation failed")
	ErrUpstream            = errors.New("upstream failure")
	ErrNotConfigured       = errors.New("configuration error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUnauthorized        = errors.New("not authorized")
	ErrVideoNotFound       = errors.New("video not found")
)
