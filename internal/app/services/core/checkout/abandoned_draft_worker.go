package checkout

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultSweepSpec = "@every 5m"

// AbandonedDraftWorker reports order drafts whose checkout session is gone so
// the backend can expire them. Only the instance holding the leader lock sweeps.
type AbandonedDraftWorker struct {
	log               *zap.Logger
	cfg               *config.InternalConfig
	locker            contracts.LockerService
	sessionRepository contracts.CheckoutSessionRepository
	eventPublisher    contracts.EventPublisher
	stop              chan struct{}
	cron              *cron.Cron
	runCtx            context.Context
	cancel            context.CancelFunc
	now               func() time.Time
}

func NewAbandonedDraftWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerSvc contracts.LockerService,
	sessionRepository contracts.CheckoutSessionRepository,
	eventPublisher contracts.EventPublisher,
) *AbandonedDraftWorker {
	return &AbandonedDraftWorker{
		log:               log,
		cfg:               cfg,
		locker:            lockerSvc,
		sessionRepository: sessionRepository,
		eventPublisher:    eventPublisher,
		stop:              make(chan struct{}),
		now:               time.Now,
	}
}

// Start schedules the sweep. An invalid cron spec falls back to every five minutes.
func (w *AbandonedDraftWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Checkout.AbandonedDraftSweepCron
	_, err := c.AddFunc(spec, func() { w.RunOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("checkout.AbandonedDraftWorker invalid cron spec, falling back",
			zap.String("spec", spec),
			zap.String("fallback", defaultSweepSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(defaultSweepSpec, func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running sweep to finish.
func (w *AbandonedDraftWorker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

// RunOnce sweeps the tracked drafts once and returns how many were reported.
func (w *AbandonedDraftWorker) RunOnce(ctx context.Context) int {
	ttl := 2 * time.Minute
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeySweeperLeaderLock, ttl)
	if err != nil {
		w.log.Warn("checkout.AbandonedDraftWorker leader lock attempt failed", zap.Error(err))
		return 0
	}
	if !acquired {
		w.log.Info("checkout.AbandonedDraftWorker leader lock held by another instance")
		return 0
	}
	defer w.locker.Unlock(context.WithoutCancel(ctx), constvars.RedisKeySweeperLeaderLock, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				err := w.locker.Refresh(refreshCtx, constvars.RedisKeySweeperLeaderLock, token, ttl)
				if err != nil {
					w.log.Warn("checkout.AbandonedDraftWorker failed to refresh leader lock", zap.Error(err))
				}
			}
		}
	}()

	var drafts []models.OpenDraft
	err = utils.LogOperation(w.log, "checkout.AbandonedDraftWorker.ListOpenDrafts", "", func() error {
		var listErr error
		drafts, listErr = w.sessionRepository.ListOpenDrafts(ctx)
		return listErr
	})
	if err != nil {
		return 0
	}

	reported := 0
	for _, draft := range drafts {
		if ctx.Err() != nil {
			break
		}
		if w.sweep(ctx, draft) {
			reported++
		}
	}

	w.log.Info("checkout.AbandonedDraftWorker sweep finished",
		zap.Int(constvars.LoggingCountKey, len(drafts)),
		zap.Int("reported", reported),
	)
	return reported
}

// sweep decides the fate of one tracked draft. Drafts of expired or deleted
// sessions are reported. Drafts a session no longer references are reported
// once the session has been idle for the configured age; younger ones may
// still be on their way into the session.
func (w *AbandonedDraftWorker) sweep(ctx context.Context, draft models.OpenDraft) bool {
	session, err := w.sessionRepository.Get(ctx, draft.SessionID)
	if err != nil {
		if exceptions.StatusCodeOf(err) != constvars.StatusNotFound {
			w.log.Warn("checkout.AbandonedDraftWorker loading session failed",
				zap.String(constvars.LoggingSessionIDKey, draft.SessionID),
				zap.Error(err),
			)
			return false
		}
		return w.report(ctx, draft, "", models.AbandonReasonSessionExpired)
	}

	if session.Order != nil && session.Order.OrderID == draft.OrderID {
		if session.Order.State.IsTerminal() {
			w.untrack(ctx, draft)
		}
		return false
	}

	if w.now().Sub(session.UpdatedAt) < w.draftAge() {
		return false
	}
	return w.report(ctx, draft, session.Kind, models.AbandonReasonDraftReplaced)
}

func (w *AbandonedDraftWorker) report(ctx context.Context, draft models.OpenDraft, kind models.CheckoutKind, reason string) bool {
	err := w.eventPublisher.PublishOrderAbandoned(ctx, &models.OrderAbandonedMessage{
		SessionID: draft.SessionID,
		OrderID:   draft.OrderID,
		Kind:      kind,
		Reason:    reason,
		At:        w.now(),
	})
	if err != nil {
		w.log.Warn("checkout.AbandonedDraftWorker publishing order abandoned failed",
			zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
			zap.Error(err),
		)
		return false
	}

	w.untrack(ctx, draft)
	w.log.Info("checkout.AbandonedDraftWorker reported abandoned draft",
		zap.String(constvars.LoggingSessionIDKey, draft.SessionID),
		zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
		zap.String("reason", reason),
	)
	return true
}

func (w *AbandonedDraftWorker) untrack(ctx context.Context, draft models.OpenDraft) {
	err := w.sessionRepository.UntrackOpenDraft(ctx, draft.SessionID, draft.OrderID)
	if err != nil {
		w.log.Warn("checkout.AbandonedDraftWorker untracking draft failed",
			zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
			zap.Error(err),
		)
	}
}

func (w *AbandonedDraftWorker) draftAge() time.Duration {
	minutes := w.cfg.Checkout.AbandonedDraftAgeInMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}
