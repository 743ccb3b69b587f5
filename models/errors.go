package models

import (
	"errors"
)

// Domain errors. Services and stores wrap these with %w so callers classify
// failures with errors.Is regardless of which layer detected them.
var (
	ErrValidation           = errors.New("invalid input")
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateIdentity    = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnverifiedAccount    = errors.New("account email is not verified")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrInvalidSlot          = errors.New("invalid time slot")
	ErrSlotUnavailable      = errors.New("time slot is no longer available")
	ErrForbidden            = errors.New("operation not allowed for this role")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)
