package core

import "errors"

var (
	ErrUnknownUser   = errors.New("unknown_user")
	ErrQuotaExceeded = errors.New("quota_exceeded")
	ErrUnknownNumber = errors.New("unknown_number")
)
