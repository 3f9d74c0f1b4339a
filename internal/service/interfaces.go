package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/atlaslife/goalvault/models"
)

type AuthService interface {
	// Register creates a new account and returns a live session for it.
	Register(ctx context.Context, creds models.Credentials) (models.Session, error)

	// Authenticate verifies the credentials and returns a live session.
	// Every failure mode is reported as ErrAuthenticationFailed.
	Authenticate(ctx context.Context, creds models.Credentials) (models.Session, error)
}

// GoalService operates on one owner's encrypted goal vault. Every method
// takes the session explicitly; a zero session falls back to the one
// carried in ctx under utils.SessionCtxKey.
type GoalService interface {
	LoadGoals(ctx context.Context, session models.Session) ([]models.Goal, error)
	SaveGoal(ctx context.Context, session models.Session, goal models.Goal) (models.Goal, error)
	DeleteGoal(ctx context.Context, session models.Session, goalID string) error

	NetWorth(ctx context.Context, session models.Session) (decimal.Decimal, error)
	LevelInfo(ctx context.Context, session models.Session) (models.LevelInfo, error)

	// Audit recomputes every goal balance from its history and compares the
	// sum against the stored encrypted net worth. A divergence is returned
	// as ErrAggregateMismatch.
	Audit(ctx context.Context, session models.Session) error
}

// GoalServiceWrapper defines middleware composition for GoalService.
// Implementations wrap an existing GoalService to add behavior such as
// logging or validating.
type GoalServiceWrapper interface {
	Wrap(GoalService) GoalService // returns a decorated GoalService applying additional behavior
}
