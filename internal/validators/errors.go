package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidGoalID    = errors.New("invalid goal ID")
	ErrInvalidOwner     = errors.New("invalid owner")
	ErrEmptyGoalName    = errors.New("goal name is required")
	ErrInvalidGoalKind  = errors.New("invalid goal kind")
	ErrNegativeTarget   = errors.New("target amount cannot be negative")
	ErrInvalidEventID   = errors.New("invalid event ID")
	ErrDuplicateEventID = errors.New("duplicate event ID")
	ErrInvalidEventKind = errors.New("invalid event kind")
	ErrNegativeAmount   = errors.New("event amount cannot be negative")
	ErrMissingTimestamp = errors.New("event timestamp is required")
	ErrEmptyCredential  = errors.New("username and password are required")
	ErrPasswordTooShort = errors.New("password is too short")
)
