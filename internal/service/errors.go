package service

import "errors"

var (
	ErrInvalidDataProvided  = errors.New("invalid data provided")
	ErrAuthenticationFailed = errors.New("authentication failed")

	ErrSessionRequired   = errors.New("an authenticated session is required")
	ErrAggregateMismatch = errors.New("stored net worth does not match rebuilt goal balances")
)
