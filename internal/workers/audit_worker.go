package workers

import (
	"context"
	"sync"
	"time"

	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/internal/service"
	"github.com/atlaslife/goalvault/models"
)

// AuditWorker periodically cross-checks the stored aggregate net worth of
// every watched session against the sum of its rebuilt goal balances.
//
// The worker only observes: it logs divergence and undecryptable records
// but never repairs them, so a corruption stays visible instead of being
// silently papered over.
type AuditWorker struct {
	goals    service.GoalService
	interval time.Duration
	logger   *logger.Logger

	// mu guards sessions.
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewAuditWorker(goals service.GoalService, cfg config.Workers, logger *logger.Logger) *AuditWorker {
	return &AuditWorker{
		goals:    goals,
		interval: cfg.AuditInterval,
		logger:   logger,
		sessions: make(map[string]models.Session),
	}
}

// Watch registers a session for periodic auditing. A session for the same
// owner replaces the previous one.
func (w *AuditWorker) Watch(session models.Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sessions[session.Owner] = session
}

// Forget stops auditing the owner, dropping the retained session key.
func (w *AuditWorker) Forget(owner string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sessions, owner)
}

// Run audits all watched sessions every interval until ctx is canceled.
func (w *AuditWorker) Run(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("consistency auditor started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("consistency auditor stopped")
			return
		case <-ticker.C:
			w.auditAll(ctx)
		}
	}
}

func (w *AuditWorker) auditAll(ctx context.Context) {
	w.mu.RLock()
	sessions := make([]models.Session, 0, len(w.sessions))
	for _, s := range w.sessions {
		sessions = append(sessions, s)
	}
	w.mu.RUnlock()

	ctx = w.logger.WithContext(ctx)
	for _, session := range sessions {
		if err := w.goals.Audit(ctx, session); err != nil {
			w.logger.Err(err).Str("owner", session.Owner).Msg("consistency audit failed")
		}
	}
}
