// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The goalvault Authors

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/ledger"
	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/internal/utils"
	"github.com/atlaslife/goalvault/models"
)

// ─────────────────────────────────────────────
// Mock: store.GoalRecordRepository
// ─────────────────────────────────────────────

type mockGoalRepository struct {
	getRecordsFn  func(ctx context.Context, owner string) ([]models.GoalRecord, error)
	upsertFn      func(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error
	deleteFn      func(ctx context.Context, owner, goalID string, netWorth models.CipheredPayload) error
	getNetWorthFn func(ctx context.Context, owner string) (models.CipheredPayload, error)
}

func (m *mockGoalRepository) GetGoalRecords(ctx context.Context, owner string) ([]models.GoalRecord, error) {
	if m.getRecordsFn != nil {
		return m.getRecordsFn(ctx, owner)
	}
	return nil, nil
}

func (m *mockGoalRepository) UpsertGoalRecord(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, record, netWorth)
	}
	return nil
}

func (m *mockGoalRepository) DeleteGoalRecord(ctx context.Context, owner, goalID string, netWorth models.CipheredPayload) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, owner, goalID, netWorth)
	}
	return nil
}

func (m *mockGoalRepository) GetEncryptedNetWorth(ctx context.Context, owner string) (models.CipheredPayload, error) {
	if m.getNetWorthFn != nil {
		return m.getNetWorthFn(ctx, owner)
	}
	return "", nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func testSession() models.Session {
	return models.Session{Owner: "john", Key: []byte("0123456789abcdef0123456789abcdef")}
}

func newTestGoalService(repo *mockGoalRepository) GoalService {
	return NewGoalService(repo, &mockKeyChain{}, config.Level{Base: 100, Growth: 2}, logger.Nop())
}

// encode is the inverse of mockKeyChain decryption: plain JSON.
func encode(t *testing.T, v any) models.CipheredPayload {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return models.CipheredPayload(raw)
}

func decodeDecimal(t *testing.T, payload models.CipheredPayload) decimal.Decimal {
	t.Helper()
	var d decimal.Decimal
	require.NoError(t, json.Unmarshal([]byte(payload), &d))
	return d
}

func componentGoal(id string, balance int64) models.Goal {
	return models.Goal{
		ID:     id,
		Owner:  "john",
		Name:   "Goal " + id,
		Kind:   models.KindNetWorthComponent,
		Target: decimal.NewFromInt(10000),
		History: []models.LedgerEvent{{
			EventID:   id + "-e1",
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Kind:      models.KindContribution,
			Amount:    decimal.NewFromInt(balance),
		}},
	}
}

func recordsFor(t *testing.T, goals ...models.Goal) []models.GoalRecord {
	t.Helper()
	records := make([]models.GoalRecord, 0, len(goals))
	for _, g := range goals {
		records = append(records, models.GoalRecord{ID: g.ID, Owner: g.Owner, Payload: encode(t, g)})
	}
	return records
}

// ─────────────────────────────────────────────
// TestLoadGoals
// ─────────────────────────────────────────────

func TestLoadGoals(t *testing.T) {
	ctx := context.Background()

	t.Run("balances are rebuilt from history", func(t *testing.T) {
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				assert.Equal(t, "john", owner)
				return recordsFor(t, componentGoal("g1", 500), componentGoal("g2", 200)), nil
			},
		}

		goals, err := newTestGoalService(repo).LoadGoals(ctx, testSession())
		require.NoError(t, err)
		require.Len(t, goals, 2)
		assert.True(t, goals[0].Balance.Equal(decimal.NewFromInt(500)))
		assert.True(t, goals[1].Balance.Equal(decimal.NewFromInt(200)))
	})

	t.Run("undecryptable record is skipped", func(t *testing.T) {
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				records := recordsFor(t, componentGoal("g1", 500))
				records = append(records, models.GoalRecord{ID: "g2", Owner: "john", Payload: "not json"})
				return records, nil
			},
		}

		goals, err := newTestGoalService(repo).LoadGoals(ctx, testSession())
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, "g1", goals[0].ID)
	})

	t.Run("unknown kind is skipped", func(t *testing.T) {
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				mystery := componentGoal("g2", 300)
				mystery.Kind = models.GoalKind("speculative_bet")
				return recordsFor(t, componentGoal("g1", 500), mystery), nil
			},
		}

		goals, err := newTestGoalService(repo).LoadGoals(ctx, testSession())
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, "g1", goals[0].ID)
	})

	t.Run("session carried via context", func(t *testing.T) {
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				assert.Equal(t, "john", owner)
				return recordsFor(t, componentGoal("g1", 500)), nil
			},
		}

		ctx := context.WithValue(context.Background(), utils.SessionCtxKey, testSession())
		goals, err := newTestGoalService(repo).LoadGoals(ctx, models.Session{})
		require.NoError(t, err)
		require.Len(t, goals, 1)
	})

	t.Run("session required", func(t *testing.T) {
		_, err := newTestGoalService(&mockGoalRepository{}).LoadGoals(ctx, models.Session{})
		require.ErrorIs(t, err, ErrSessionRequired)
	})
}

// ─────────────────────────────────────────────
// TestSaveGoal
// ─────────────────────────────────────────────

func TestSaveGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("new goal gets an ID and a seeded starting balance", func(t *testing.T) {
		var saved models.GoalRecord
		var aggregate models.CipheredPayload
		repo := &mockGoalRepository{
			upsertFn: func(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error {
				saved = record
				aggregate = netWorth
				return nil
			},
		}

		goal, err := newTestGoalService(repo).SaveGoal(ctx, testSession(), models.Goal{
			Name:    "Emergency fund",
			Kind:    models.KindNetWorthComponent,
			Target:  decimal.NewFromInt(10000),
			Balance: decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		assert.NotEmpty(t, goal.ID)
		assert.Equal(t, "john", goal.Owner)
		require.Len(t, goal.History, 1)
		assert.Equal(t, models.KindAdjustment, goal.History[0].Kind)
		assert.True(t, goal.Balance.Equal(decimal.NewFromInt(500)))

		assert.Equal(t, goal.ID, saved.ID)
		assert.True(t, decodeDecimal(t, aggregate).Equal(decimal.NewFromInt(500)))
	})

	t.Run("aggregate sums existing component goals", func(t *testing.T) {
		var aggregate models.CipheredPayload
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				tracker := componentGoal("g2", 300)
				tracker.Kind = models.KindRecurringContribution
				return recordsFor(t, componentGoal("g1", 200), tracker), nil
			},
			upsertFn: func(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error {
				aggregate = netWorth
				return nil
			},
		}

		_, err := newTestGoalService(repo).SaveGoal(ctx, testSession(), componentGoal("g3", 500))
		require.NoError(t, err)

		// g1 (200) + g3 (500); the recurring tracker g2 is excluded
		assert.True(t, decodeDecimal(t, aggregate).Equal(decimal.NewFromInt(700)))
	})

	t.Run("saving an unchanged goal twice leaves the aggregate unchanged", func(t *testing.T) {
		var stored []models.GoalRecord
		var aggregates []models.CipheredPayload
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				return stored, nil
			},
			upsertFn: func(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error {
				stored = []models.GoalRecord{record}
				aggregates = append(aggregates, netWorth)
				return nil
			},
		}
		svc := newTestGoalService(repo)

		first, err := svc.SaveGoal(ctx, testSession(), componentGoal("g1", 500))
		require.NoError(t, err)

		second, err := svc.SaveGoal(ctx, testSession(), first)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.Balance.Equal(first.Balance))

		require.Len(t, aggregates, 2)
		assert.True(t, decodeDecimal(t, aggregates[0]).Equal(decimal.NewFromInt(500)))
		assert.True(t, decodeDecimal(t, aggregates[1]).Equal(decodeDecimal(t, aggregates[0])))
	})

	t.Run("replacing a goal does not double count it", func(t *testing.T) {
		var aggregate models.CipheredPayload
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				return recordsFor(t, componentGoal("g1", 200)), nil
			},
			upsertFn: func(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error {
				aggregate = netWorth
				return nil
			},
		}

		_, err := newTestGoalService(repo).SaveGoal(ctx, testSession(), componentGoal("g1", 900))
		require.NoError(t, err)

		assert.True(t, decodeDecimal(t, aggregate).Equal(decimal.NewFromInt(900)))
	})

	t.Run("history driving the balance negative is rejected", func(t *testing.T) {
		goal := componentGoal("g1", 100)
		goal.History = append(goal.History, models.LedgerEvent{
			EventID:   "g1-e2",
			Timestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Kind:      models.KindWithdrawal,
			Amount:    decimal.NewFromInt(900),
		})

		_, err := newTestGoalService(&mockGoalRepository{}).SaveGoal(ctx, testSession(), goal)
		var negErr *ledger.NegativeBalanceError
		require.ErrorAs(t, err, &negErr)
		assert.Equal(t, "g1-e2", negErr.EventID)
	})

	t.Run("session required", func(t *testing.T) {
		_, err := newTestGoalService(&mockGoalRepository{}).SaveGoal(ctx, models.Session{}, componentGoal("g1", 1))
		require.ErrorIs(t, err, ErrSessionRequired)
	})
}

// ─────────────────────────────────────────────
// TestDeleteGoal
// ─────────────────────────────────────────────

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregate shrinks by the deleted goal", func(t *testing.T) {
		var deletedID string
		var aggregate models.CipheredPayload
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				return recordsFor(t, componentGoal("g1", 200), componentGoal("g2", 300)), nil
			},
			deleteFn: func(ctx context.Context, owner, goalID string, netWorth models.CipheredPayload) error {
				deletedID = goalID
				aggregate = netWorth
				return nil
			},
		}

		require.NoError(t, newTestGoalService(repo).DeleteGoal(ctx, testSession(), "g2"))
		assert.Equal(t, "g2", deletedID)
		assert.True(t, decodeDecimal(t, aggregate).Equal(decimal.NewFromInt(200)))
	})

	t.Run("empty goal ID", func(t *testing.T) {
		err := newTestGoalService(&mockGoalRepository{}).DeleteGoal(ctx, testSession(), "")
		require.ErrorIs(t, err, ErrInvalidDataProvided)
	})
}

// ─────────────────────────────────────────────
// TestNetWorth and TestLevelInfo
// ─────────────────────────────────────────────

func TestNetWorth(t *testing.T) {
	ctx := context.Background()

	t.Run("stored aggregate is decrypted", func(t *testing.T) {
		repo := &mockGoalRepository{
			getNetWorthFn: func(ctx context.Context, owner string) (models.CipheredPayload, error) {
				return encode(t, decimal.NewFromInt(750)), nil
			},
		}

		netWorth, err := newTestGoalService(repo).NetWorth(ctx, testSession())
		require.NoError(t, err)
		assert.True(t, netWorth.Equal(decimal.NewFromInt(750)))
	})

	t.Run("never written reads as zero", func(t *testing.T) {
		netWorth, err := newTestGoalService(&mockGoalRepository{}).NetWorth(ctx, testSession())
		require.NoError(t, err)
		assert.True(t, netWorth.IsZero())
	})

	t.Run("unreadable aggregate reads as zero", func(t *testing.T) {
		repo := &mockGoalRepository{
			getNetWorthFn: func(ctx context.Context, owner string) (models.CipheredPayload, error) {
				return "not json", nil
			},
		}

		netWorth, err := newTestGoalService(repo).NetWorth(ctx, testSession())
		require.NoError(t, err)
		assert.True(t, netWorth.IsZero())
	})
}

func TestLevelInfo(t *testing.T) {
	repo := &mockGoalRepository{
		getNetWorthFn: func(ctx context.Context, owner string) (models.CipheredPayload, error) {
			return encode(t, decimal.NewFromInt(250)), nil
		},
	}

	info, err := newTestGoalService(repo).LevelInfo(context.Background(), testSession())
	require.NoError(t, err)

	// base 100, growth 2: floors at 100, 200, 400 — 250 sits on level 2
	assert.Equal(t, 2, info.Level)
	assert.True(t, info.Floor.Equal(decimal.NewFromInt(200)))
}

// ─────────────────────────────────────────────
// TestAudit
// ─────────────────────────────────────────────

func TestAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent state passes", func(t *testing.T) {
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				return recordsFor(t, componentGoal("g1", 200), componentGoal("g2", 300)), nil
			},
			getNetWorthFn: func(ctx context.Context, owner string) (models.CipheredPayload, error) {
				return encode(t, decimal.NewFromInt(500)), nil
			},
		}

		require.NoError(t, newTestGoalService(repo).Audit(ctx, testSession()))
	})

	t.Run("divergent aggregate is reported", func(t *testing.T) {
		repo := &mockGoalRepository{
			getRecordsFn: func(ctx context.Context, owner string) ([]models.GoalRecord, error) {
				return recordsFor(t, componentGoal("g1", 200)), nil
			},
			getNetWorthFn: func(ctx context.Context, owner string) (models.CipheredPayload, error) {
				return encode(t, decimal.NewFromInt(999)), nil
			},
		}

		err := newTestGoalService(repo).Audit(ctx, testSession())
		require.ErrorIs(t, err, ErrAggregateMismatch)
	})
}

// ─────────────────────────────────────────────
// TestGoalValidationService
// ─────────────────────────────────────────────

type stubGoalService struct {
	GoalService
	saveCalled bool
}

func (s *stubGoalService) SaveGoal(ctx context.Context, session models.Session, goal models.Goal) (models.Goal, error) {
	s.saveCalled = true
	return goal, nil
}

func (s *stubGoalService) DeleteGoal(ctx context.Context, session models.Session, goalID string) error {
	return nil
}

func TestGoalValidationService(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed goal never reaches the inner service", func(t *testing.T) {
		inner := &stubGoalService{}
		svc := NewGoalValidationService().Wrap(inner)

		goal := componentGoal("g1", 100)
		goal.Kind = models.GoalKind("speculative_bet")

		_, err := svc.SaveGoal(ctx, testSession(), goal)
		require.ErrorIs(t, err, ErrInvalidDataProvided)
		assert.False(t, inner.saveCalled)
	})

	t.Run("valid goal passes through", func(t *testing.T) {
		inner := &stubGoalService{}
		svc := NewGoalValidationService().Wrap(inner)

		_, err := svc.SaveGoal(ctx, testSession(), componentGoal("g1", 100))
		require.NoError(t, err)
		assert.True(t, inner.saveCalled)
	})

	t.Run("goal without an ID is allowed", func(t *testing.T) {
		inner := &stubGoalService{}
		svc := NewGoalValidationService().Wrap(inner)

		goal := componentGoal("", 100)
		goal.Name = "New goal"

		_, err := svc.SaveGoal(ctx, testSession(), goal)
		require.NoError(t, err)
	})

	t.Run("delete with empty ID is rejected", func(t *testing.T) {
		svc := NewGoalValidationService().Wrap(&stubGoalService{})
		require.ErrorIs(t, svc.DeleteGoal(ctx, testSession(), ""), ErrInvalidDataProvided)
	})
}
