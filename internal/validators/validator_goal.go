package validators

import (
	"context"
	"fmt"

	"github.com/atlaslife/goalvault/models"
)

const (
	FieldGoalID    = "goal_id"
	FieldOwner     = "owner"
	FieldGoalName  = "goal_name"
	FieldGoalKind  = "goal_kind"
	FieldTarget    = "target"
	FieldHistory   = "history"
	FieldEventID   = "event_id"
	FieldEventKind = "event_kind"
	FieldAmount    = "amount"
	FieldTimestamp = "timestamp"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

type GoalValidator struct {
}

func NewGoalValidator() Validator {
	return &GoalValidator{}
}

func (v *GoalValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Goal:
		return v.validateGoal(ctx, value, fields...)
	case *models.Goal:
		return v.validateGoal(ctx, *value, fields...)

	case models.LedgerEvent:
		return v.validateLedgerEvent(ctx, value, fields...)
	case *models.LedgerEvent:
		return v.validateLedgerEvent(ctx, *value, fields...)

	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *GoalValidator) validateGoal(ctx context.Context, goal models.Goal, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldGoalID, FieldOwner, FieldGoalName, FieldGoalKind, FieldTarget, FieldHistory}
	}

	for _, f := range fields {
		switch f {
		case FieldGoalID:
			if goal.ID == "" {
				return ErrInvalidGoalID
			}
		case FieldOwner:
			if goal.Owner == "" {
				return ErrInvalidOwner
			}
		case FieldGoalName:
			if goal.Name == "" {
				return ErrEmptyGoalName
			}
		case FieldGoalKind:
			if !goal.Kind.Valid() {
				return ErrInvalidGoalKind
			}
		case FieldTarget:
			if goal.Target.IsNegative() {
				return ErrNegativeTarget
			}
		case FieldHistory:
			seen := make(map[string]struct{}, len(goal.History))
			for i, ev := range goal.History {
				if err := v.validateLedgerEvent(ctx, ev); err != nil {
					return fmt.Errorf("validation error at event index %d: %w", i, err)
				}
				if _, ok := seen[ev.EventID]; ok {
					return fmt.Errorf("%w: %s", ErrDuplicateEventID, ev.EventID)
				}
				seen[ev.EventID] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *GoalValidator) validateLedgerEvent(ctx context.Context, ev models.LedgerEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEventID, FieldEventKind, FieldAmount, FieldTimestamp}
	}

	for _, f := range fields {
		switch f {
		case FieldEventID:
			if ev.EventID == "" {
				return ErrInvalidEventID
			}
		case FieldEventKind:
			if !ev.Kind.Valid() {
				return ErrInvalidEventKind
			}
		case FieldAmount:
			if ev.Amount.IsNegative() {
				return ErrNegativeAmount
			}
		case FieldTimestamp:
			if ev.Timestamp.IsZero() {
				return ErrMissingTimestamp
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *GoalValidator) validateCredentials(ctx context.Context, creds models.Credentials, fields ...string) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrEmptyCredential
	}
	if len(creds.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}
