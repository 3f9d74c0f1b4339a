package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/crypto"
	"github.com/atlaslife/goalvault/internal/ledger"
	"github.com/atlaslife/goalvault/internal/level"
	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/internal/store"
	"github.com/atlaslife/goalvault/internal/utils"
	"github.com/atlaslife/goalvault/models"
)

// goalService is the concrete implementation of GoalService.
//
// Every mutation recomputes the owner's aggregate net worth in the same
// call: the goal record and the re-encrypted aggregate travel to the store
// together and are committed in a single transaction. A per-owner mutex
// serializes the read-modify-write cycle so two concurrent saves cannot
// interleave their aggregate computations.
type goalService struct {
	// goalRepository is the data-access layer for encrypted goal records.
	goalRepository store.GoalRecordRepository

	// keyChain encrypts and decrypts record payloads with the session key.
	keyChain crypto.KeyChainService

	// ids issues identifiers for new goals and seeded ledger events.
	ids *utils.UUIDGenerator

	// levelBase and levelGrowth parameterize the level ladder.
	levelBase   float64
	levelGrowth float64

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger

	// mu guards ownerLocks.
	mu         sync.Mutex
	ownerLocks map[string]*sync.Mutex
}

// NewGoalService constructs a new GoalService wired to the given repository
// and keychain, with ladder parameters from cfg.
func NewGoalService(goalRepository store.GoalRecordRepository, keyChain crypto.KeyChainService, cfg config.Level, logger *logger.Logger) GoalService {
	return &goalService{
		goalRepository: goalRepository,
		keyChain:       keyChain,
		ids:            utils.NewUUIDGenerator(),
		levelBase:      cfg.Base,
		levelGrowth:    cfg.Growth,
		logger:         logger,
		ownerLocks:     make(map[string]*sync.Mutex),
	}
}

// ownerLock returns the mutex serializing mutations for one owner,
// creating it on first use.
func (s *goalService) ownerLock(owner string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.ownerLocks[owner]
	if !ok {
		l = &sync.Mutex{}
		s.ownerLocks[owner] = l
	}
	return l
}

// sessionFrom resolves the effective session: an explicit session wins,
// otherwise the one carried by ctx under utils.SessionCtxKey is used.
func sessionFrom(ctx context.Context, session models.Session) (models.Session, error) {
	if session.Owner != "" && len(session.Key) > 0 {
		return session, nil
	}
	if s, ok := utils.GetSessionFromContext(ctx); ok && s.Owner != "" && len(s.Key) > 0 {
		return s, nil
	}
	return models.Session{}, ErrSessionRequired
}

// LoadGoals returns all of the owner's goals with balances rebuilt from
// their histories.
//
// A record that fails to decrypt or whose history fails to rebuild is
// skipped and logged with its record ID; one corrupt record never hides
// the rest of the vault.
func (s *goalService) LoadGoals(ctx context.Context, session models.Session) ([]models.Goal, error) {
	session, err := sessionFrom(ctx, session)
	if err != nil {
		return nil, err
	}

	records, err := s.goalRepository.GetGoalRecords(ctx, session.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal records: %w", err)
	}

	goals, _ := s.decryptGoals(ctx, records, session.Key)
	return goals, nil
}

// SaveGoal validates, rebuilds, encrypts, and persists the goal, then
// recomputes and persists the owner's aggregate net worth in the same
// transaction.
//
// A goal arriving without an ID is treated as new: it receives a generated
// ID, and a positive starting balance is seeded as an adjustment event so
// the balance survives the rebuild.
func (s *goalService) SaveGoal(ctx context.Context, session models.Session, goal models.Goal) (models.Goal, error) {
	log := logger.FromContext(ctx)

	session, err := sessionFrom(ctx, session)
	if err != nil {
		return models.Goal{}, err
	}

	lock := s.ownerLock(session.Owner)
	lock.Lock()
	defer lock.Unlock()

	goal.Owner = session.Owner
	if goal.ID == "" {
		goal.ID = s.ids.Generate()
		if len(goal.History) == 0 && goal.Balance.IsPositive() {
			goal.History = []models.LedgerEvent{{
				EventID:     s.ids.Generate(),
				Timestamp:   time.Now().UTC(),
				Kind:        models.KindAdjustment,
				Amount:      goal.Balance,
				Description: "starting balance",
			}}
		}
	}

	balance, history, err := ledger.Rebuild(goal.History)
	if err != nil {
		log.Err(err).Str("goal_id", goal.ID).Msg("goal history failed to rebuild")
		return models.Goal{}, fmt.Errorf("goal history failed to rebuild: %w", err)
	}
	goal.Balance = balance
	goal.History = history

	payload, err := s.keyChain.EncryptPayload(goal, session.Key)
	if err != nil {
		log.Err(err).Str("goal_id", goal.ID).Msg("failed to encrypt goal payload")
		return models.Goal{}, fmt.Errorf("failed to encrypt goal payload: %w", err)
	}

	aggregate, err := s.rebuildAggregate(ctx, session, &goal)
	if err != nil {
		return models.Goal{}, err
	}

	record := models.GoalRecord{
		ID:      goal.ID,
		Owner:   goal.Owner,
		Payload: models.CipheredPayload(payload),
	}
	if err := s.goalRepository.UpsertGoalRecord(ctx, record, aggregate); err != nil {
		log.Err(err).Str("goal_id", goal.ID).Msg("failed to persist goal record")
		return models.Goal{}, fmt.Errorf("failed to persist goal record: %w", err)
	}

	return goal, nil
}

// DeleteGoal removes the goal and persists the shrunk aggregate net worth
// in the same transaction.
func (s *goalService) DeleteGoal(ctx context.Context, session models.Session, goalID string) error {
	log := logger.FromContext(ctx)

	session, err := sessionFrom(ctx, session)
	if err != nil {
		return err
	}
	if goalID == "" {
		return ErrInvalidDataProvided
	}

	lock := s.ownerLock(session.Owner)
	lock.Lock()
	defer lock.Unlock()

	aggregate, err := s.rebuildAggregate(ctx, session, nil, goalID)
	if err != nil {
		return err
	}

	if err := s.goalRepository.DeleteGoalRecord(ctx, session.Owner, goalID, aggregate); err != nil {
		log.Err(err).Str("goal_id", goalID).Msg("failed to delete goal record")
		return fmt.Errorf("failed to delete goal record: %w", err)
	}

	return nil
}

// NetWorth decrypts and returns the stored aggregate net worth.
//
// An aggregate that was never written or that no longer decrypts reads as
// zero; the condition is logged rather than surfaced, since the next goal
// mutation rewrites the aggregate anyway.
func (s *goalService) NetWorth(ctx context.Context, session models.Session) (decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	session, err := sessionFrom(ctx, session)
	if err != nil {
		return decimal.Decimal{}, err
	}

	encrypted, err := s.goalRepository.GetEncryptedNetWorth(ctx, session.Owner)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to load encrypted net worth: %w", err)
	}
	if encrypted == "" {
		return decimal.Zero, nil
	}

	var netWorth decimal.Decimal
	if err := s.keyChain.DecryptPayload(string(encrypted), session.Key, &netWorth); err != nil {
		log.Warn().Err(err).Str("owner", session.Owner).Msg("stored net worth is unreadable, reporting zero")
		return decimal.Zero, nil
	}

	return netWorth, nil
}

// LevelInfo maps the current net worth onto the level ladder.
func (s *goalService) LevelInfo(ctx context.Context, session models.Session) (models.LevelInfo, error) {
	netWorth, err := s.NetWorth(ctx, session)
	if err != nil {
		return models.LevelInfo{}, err
	}

	return level.Of(netWorth, s.levelBase, s.levelGrowth), nil
}

// Audit cross-checks the stored aggregate against the sum of rebuilt goal
// balances. Undecryptable records are logged with their IDs; a sum that
// disagrees with the stored value is returned as ErrAggregateMismatch.
func (s *goalService) Audit(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	session, err := sessionFrom(ctx, session)
	if err != nil {
		return err
	}

	lock := s.ownerLock(session.Owner)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.goalRepository.GetGoalRecords(ctx, session.Owner)
	if err != nil {
		return fmt.Errorf("failed to load goal records: %w", err)
	}

	goals, skipped := s.decryptGoals(ctx, records, session.Key)
	if len(skipped) > 0 {
		log.Error().
			Str("owner", session.Owner).
			Strs("record_ids", skipped).
			Msg("audit: records could not be decrypted or rebuilt")
	}

	rebuilt := decimal.Zero
	for _, g := range goals {
		if g.CountsTowardNetWorth() {
			rebuilt = rebuilt.Add(g.Balance)
		}
	}

	stored, err := s.NetWorth(ctx, session)
	if err != nil {
		return err
	}

	if !stored.Equal(rebuilt) {
		log.Error().
			Str("owner", session.Owner).
			Str("stored", stored.String()).
			Str("rebuilt", rebuilt.String()).
			Msg("audit: aggregate net worth mismatch")
		return fmt.Errorf("%w: stored=%s rebuilt=%s", ErrAggregateMismatch, stored, rebuilt)
	}

	return nil
}

// decryptGoals decrypts and rebuilds each record, returning the usable
// goals and the IDs of records that were skipped.
func (s *goalService) decryptGoals(ctx context.Context, records []models.GoalRecord, key []byte) ([]models.Goal, []string) {
	log := logger.FromContext(ctx)

	goals := make([]models.Goal, 0, len(records))
	var skipped []string

	for _, record := range records {
		var goal models.Goal
		if err := s.keyChain.DecryptPayload(string(record.Payload), key, &goal); err != nil {
			log.Warn().Err(err).Str("record_id", record.ID).Msg("skipping undecryptable goal record")
			skipped = append(skipped, record.ID)
			continue
		}
		if !goal.Kind.Valid() {
			log.Warn().Str("record_id", record.ID).Str("kind", string(goal.Kind)).Msg("skipping goal record with unknown kind")
			skipped = append(skipped, record.ID)
			continue
		}

		balance, history, err := ledger.Rebuild(goal.History)
		if err != nil {
			log.Warn().Err(err).Str("record_id", record.ID).Msg("skipping goal record with unrebuildable history")
			skipped = append(skipped, record.ID)
			continue
		}
		goal.Balance = balance
		goal.History = history

		goals = append(goals, goal)
	}

	return goals, skipped
}

// rebuildAggregate computes the owner's aggregate net worth from all stored
// goals, with upserted replacing its stored version and any excludeIDs left
// out, and returns it encrypted under the session key.
//
// Callers must hold the owner lock.
func (s *goalService) rebuildAggregate(ctx context.Context, session models.Session, upserted *models.Goal, excludeIDs ...string) (models.CipheredPayload, error) {
	log := logger.FromContext(ctx)

	records, err := s.goalRepository.GetGoalRecords(ctx, session.Owner)
	if err != nil {
		return "", fmt.Errorf("failed to load goal records: %w", err)
	}

	excluded := make(map[string]struct{}, len(excludeIDs)+1)
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	if upserted != nil {
		excluded[upserted.ID] = struct{}{}
	}

	kept := records[:0:0]
	for _, record := range records {
		if _, skip := excluded[record.ID]; !skip {
			kept = append(kept, record)
		}
	}

	goals, _ := s.decryptGoals(ctx, kept, session.Key)

	aggregate := decimal.Zero
	for _, g := range goals {
		if g.CountsTowardNetWorth() {
			aggregate = aggregate.Add(g.Balance)
		}
	}
	if upserted != nil && upserted.CountsTowardNetWorth() {
		aggregate = aggregate.Add(upserted.Balance)
	}

	encrypted, err := s.keyChain.EncryptPayload(aggregate, session.Key)
	if err != nil {
		log.Err(err).Str("owner", session.Owner).Msg("failed to encrypt aggregate net worth")
		return "", fmt.Errorf("failed to encrypt aggregate net worth: %w", err)
	}

	return models.CipheredPayload(encrypted), nil
}
