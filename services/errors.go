package services

import (
	"errors"
)

// Failure taxonomy shared by the account directory and the moderation
// engine. Controllers map these onto HTTP statuses; everything else is a
// server-side error.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUploadFailed      = errors.New("upload failed")
	ErrUpstreamTimeout   = errors.New("upstream timeout")

	// ErrIdentityMismatch: the identity provider's claims carry no usable
	// email, so no local account can be resolved.
	ErrIdentityMismatch = errors.New("identity claims do not match an account")
)
