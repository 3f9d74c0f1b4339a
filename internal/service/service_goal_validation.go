package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atlaslife/goalvault/internal/validators"
	"github.com/atlaslife/goalvault/models"
)

// GoalValidationService is a GoalService decorator that rejects malformed
// goals before the inner service spends any cycles on cryptography or
// persistence.
type GoalValidationService struct {
	inner     GoalService
	validator validators.Validator
}

func NewGoalValidationService() GoalServiceWrapper {
	return &GoalValidationService{
		validator: validators.NewGoalValidator(),
	}
}

func (v *GoalValidationService) LoadGoals(ctx context.Context, session models.Session) ([]models.Goal, error) {
	return v.inner.LoadGoals(ctx, session)
}

func (v *GoalValidationService) SaveGoal(ctx context.Context, session models.Session, goal models.Goal) (models.Goal, error) {
	// a new goal gets its ID and owner assigned downstream
	fields := []string{validators.FieldGoalName, validators.FieldGoalKind, validators.FieldTarget, validators.FieldHistory}
	if goal.ID != "" {
		fields = append(fields, validators.FieldGoalID)
	}

	if err := v.validator.Validate(ctx, goal, fields...); err != nil {
		return models.Goal{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.SaveGoal(ctx, session, goal)
}

func (v *GoalValidationService) DeleteGoal(ctx context.Context, session models.Session, goalID string) error {
	if goalID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidGoalID)
	}

	return v.inner.DeleteGoal(ctx, session, goalID)
}

func (v *GoalValidationService) NetWorth(ctx context.Context, session models.Session) (decimal.Decimal, error) {
	return v.inner.NetWorth(ctx, session)
}

func (v *GoalValidationService) LevelInfo(ctx context.Context, session models.Session) (models.LevelInfo, error) {
	return v.inner.LevelInfo(ctx, session)
}

func (v *GoalValidationService) Audit(ctx context.Context, session models.Session) error {
	return v.inner.Audit(ctx, session)
}

func (v *GoalValidationService) Wrap(wrapped GoalService) GoalService {
	v.inner = wrapped
	return v
}
