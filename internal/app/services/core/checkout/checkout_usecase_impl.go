package checkout

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type checkoutUsecase struct {
	SessionRepository contracts.CheckoutSessionRepository
	AuditRepository   contracts.CheckoutAuditRepository
	Locker            contracts.LockerService
	OrderAPI          contracts.OrderAPIClient
	PricingAPI        contracts.PricingAPIClient
	IdentityAPI       contracts.IdentityAPIClient
	EventPublisher    contracts.EventPublisher
	Storage           contracts.Storage
	PromotionLimiter  contracts.AttemptLimiter
	Metrics           contracts.CheckoutMetrics
	Formatter         *utils.MoneyFormatter
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	now               func() time.Time
}

func NewCheckoutUsecase(
	sessionRepository contracts.CheckoutSessionRepository,
	auditRepository contracts.CheckoutAuditRepository,
	locker contracts.LockerService,
	orderAPI contracts.OrderAPIClient,
	pricingAPI contracts.PricingAPIClient,
	identityAPI contracts.IdentityAPIClient,
	eventPublisher contracts.EventPublisher,
	storage contracts.Storage,
	promotionLimiter contracts.AttemptLimiter,
	metrics contracts.CheckoutMetrics,
	formatter *utils.MoneyFormatter,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CheckoutUsecase {
	return &checkoutUsecase{
		SessionRepository: sessionRepository,
		AuditRepository:   auditRepository,
		Locker:            locker,
		OrderAPI:          orderAPI,
		PricingAPI:        pricingAPI,
		IdentityAPI:       identityAPI,
		EventPublisher:    eventPublisher,
		Storage:           storage,
		PromotionLimiter:  promotionLimiter,
		Metrics:           metrics,
		Formatter:         formatter,
		InternalConfig:    internalConfig,
		Log:               logger,
		now:               time.Now,
	}
}

// sessionChange collects what a mutation did so it can be audited and its
// side effects run once the new session state is stored.
type sessionChange struct {
	events    []models.CheckoutEvent
	afterSave []func(ctx context.Context)
}

func (c *sessionChange) record(eventType models.CheckoutEventType, orderID, reference, detail string) {
	c.events = append(c.events, models.CheckoutEvent{
		Type:      eventType,
		OrderID:   orderID,
		Reference: reference,
		Detail:    detail,
	})
}

func (c *sessionChange) then(fn func(ctx context.Context)) {
	c.afterSave = append(c.afterSave, fn)
}

type mutation func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error

// mutate runs fn on the session under the per-session lock and stores the
// result with a version check. fn returning an error leaves the stored
// session untouched. Once fn succeeded the save and its side effects are
// not abandoned when the caller goes away.
func (uc *checkoutUsecase) mutate(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand, operation string, fn mutation) (*responses.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase."+operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, command.SessionID),
	)

	user, err := uc.currentUser(sc)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf(constvars.RedisKeyCheckoutLockFormat, command.SessionID)
	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, uc.lockTTL())
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.Log.Info("checkoutUsecase."+operation+" rejected, request already in flight",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, command.SessionID),
		)
		return nil, exceptions.ErrCheckoutInFlight(errors.New(constvars.ErrClientCheckoutInFlight), command.SessionID)
	}
	defer func() {
		unlockErr := uc.Locker.Unlock(context.WithoutCancel(ctx), lockKey, lockValue)
		if unlockErr != nil {
			uc.Log.Warn("checkoutUsecase."+operation+" error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	session, err := uc.loadOwnedSession(ctx, command.SessionID, user.ID)
	if err != nil {
		return nil, err
	}
	if command.ExpectedVersion != 0 && command.ExpectedVersion != session.Version {
		return nil, exceptions.ErrCheckoutVersionConflict(errors.New(constvars.ErrClientCheckoutStale), session.ID)
	}

	loadedVersion := session.Version
	fromStep := session.Step
	change := new(sessionChange)

	err = fn(ctx, sc, session, change)
	if err != nil {
		uc.Log.Info("checkoutUsecase."+operation+" rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.String(constvars.LoggingStepKey, fromStep.String()),
			zap.Error(err),
		)
		return nil, uc.upstreamError(sc, err)
	}

	detached := context.WithoutCancel(ctx)
	session.SetUpdatedAt(uc.now())
	err = uc.SessionRepository.Save(detached, session, loadedVersion)
	if err != nil {
		uc.Log.Error("checkoutUsecase."+operation+" error saving session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if fromStep != session.Step {
		uc.Metrics.ObserveTransition(fromStep, session.Step)
		change.events = append([]models.CheckoutEvent{{
			Type:     models.EventStepChanged,
			FromStep: fromStep,
			ToStep:   session.Step,
		}}, change.events...)
		utils.LogBusinessEvent(uc.Log, "checkout_step_changed", requestID,
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.String(constvars.LoggingFromStepKey, fromStep.String()),
			zap.String(constvars.LoggingToStepKey, session.Step.String()),
		)
	}
	uc.audit(detached, session, change.events...)
	for _, effect := range change.afterSave {
		effect(detached)
	}

	uc.Log.Info("checkoutUsecase."+operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingStepKey, session.Step.String()),
		zap.Int64("version", session.Version),
	)
	return presentSession(session, uc.Formatter), nil
}

func (uc *checkoutUsecase) OpenSession(ctx context.Context, sc contracts.SessionContext, request *requests.OpenCheckoutSession) (*responses.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.OpenSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("kind", request.Kind),
	)

	user, err := uc.refreshUser(ctx, sc)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	ttl := uc.sessionTTL()
	session := &models.CheckoutSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Kind:      models.CheckoutKind(request.Kind),
		Step:      models.StepCart,
		Lines:     []models.CartLine{},
		ExpiresAt: now.Add(ttl),
	}
	session.SetCreatedAtUpdatedAt(now)

	if session.Kind == models.KindSubscription {
		prices, err := uc.PricingAPI.GetProductPrices(ctx, sc.Token(), []string{request.PlanID})
		if err != nil {
			uc.Log.Error("checkoutUsecase.OpenSession error fetching plan price",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, uc.upstreamError(sc, err)
		}
		price, ok := prices[request.PlanID]
		if !ok || price <= 0 {
			return nil, exceptions.ErrCheckoutValidation(errPriceRequired, constvars.ErrClientCheckoutPriceUnavailable)
		}
		session.PlanID = request.PlanID
		session.Lines = []models.CartLine{{ProductID: request.PlanID, UnitPrice: price, Quantity: 1}}
	}

	err = uc.SessionRepository.Create(ctx, session, ttl)
	if err != nil {
		uc.Log.Error("checkoutUsecase.OpenSession error creating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.audit(context.WithoutCancel(ctx), session, models.CheckoutEvent{Type: models.EventSessionOpened, ToStep: models.StepCart, Detail: string(session.Kind)})
	utils.LogBusinessEvent(uc.Log, "checkout_session_opened", requestID,
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
		zap.String("kind", string(session.Kind)),
	)
	return presentSession(session, uc.Formatter), nil
}

func (uc *checkoutUsecase) GetSession(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.GetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
	)

	user, err := uc.currentUser(sc)
	if err != nil {
		return nil, err
	}

	session, err := uc.loadOwnedSession(ctx, request.SessionID, user.ID)
	if err != nil {
		return nil, err
	}
	return presentSession(session, uc.Formatter), nil
}

// DeleteSession abandons a session. An unpaid order it still holds is
// reported so the backend can expire it; the order itself is never cancelled here.
func (uc *checkoutUsecase) DeleteSession(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.DeleteSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
	)

	user, err := uc.currentUser(sc)
	if err != nil {
		return err
	}

	lockKey := fmt.Sprintf(constvars.RedisKeyCheckoutLockFormat, request.SessionID)
	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, uc.lockTTL())
	if err != nil {
		return err
	}
	if !acquired {
		return exceptions.ErrCheckoutInFlight(errors.New(constvars.ErrClientCheckoutInFlight), request.SessionID)
	}
	defer uc.Locker.Unlock(context.WithoutCancel(ctx), lockKey, lockValue)

	session, err := uc.loadOwnedSession(ctx, request.SessionID, user.ID)
	if err != nil {
		return err
	}
	if request.ExpectedVersion != 0 && request.ExpectedVersion != session.Version {
		return exceptions.ErrCheckoutVersionConflict(errors.New(constvars.ErrClientCheckoutStale), session.ID)
	}

	detached := context.WithoutCancel(ctx)
	err = uc.SessionRepository.Delete(detached, session.ID)
	if err != nil {
		uc.Log.Error("checkoutUsecase.DeleteSession error deleting session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	events := []models.CheckoutEvent{{Type: models.EventSessionAbandoned, FromStep: session.Step}}
	if session.HasOpenOrder() {
		uc.abandonDraft(detached, session.ID, session.Order, models.AbandonReasonSessionDeleted)
		events = append(events, models.CheckoutEvent{
			Type:      models.EventOrderAbandoned,
			OrderID:   session.Order.OrderID,
			Reference: session.Order.Reference,
			Detail:    models.AbandonReasonSessionDeleted,
		})
	}
	uc.audit(detached, session, events...)

	utils.LogBusinessEvent(uc.Log, "checkout_session_abandoned", requestID,
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingStepKey, session.Step.String()),
	)
	return nil
}

func (uc *checkoutUsecase) Next(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "Next", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		switch session.Step {
		case models.StepCart:
			if len(session.Lines) == 0 {
				return exceptions.ErrCheckoutValidation(errors.New("cart is empty"), constvars.ErrClientCheckoutCartEmpty)
			}
		case models.StepAddress:
			if session.DeliveryAddressID == "" {
				return exceptions.ErrCheckoutValidation(errors.New("delivery address missing"), constvars.ErrClientCheckoutAddressMissing)
			}
		}

		next, ok := session.Step.ForwardStep(session.Kind)
		if !ok {
			return illegalTransition("next", session.Step)
		}
		session.Step = next
		return nil
	})
}

// Back never touches an existing order draft.
func (uc *checkoutUsecase) Back(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "Back", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		previous, ok := session.Step.BackStep(session.Kind)
		if !ok {
			return illegalTransition("back", session.Step)
		}
		session.Step = previous
		session.LastProviderError = ""
		return nil
	})
}

func (uc *checkoutUsecase) ListAddresses(ctx context.Context, sc contracts.SessionContext) (*responses.DeliveryAddresses, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.ListAddresses called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	_, err := uc.currentUser(sc)
	if err != nil {
		return nil, err
	}

	addresses, err := uc.IdentityAPI.ListAddresses(ctx, sc.Token())
	if err != nil {
		uc.Log.Error("checkoutUsecase.ListAddresses error calling IdentityAPI.ListAddresses",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, uc.upstreamError(sc, err)
	}
	if addresses == nil {
		addresses = []models.DeliveryAddress{}
	}
	return &responses.DeliveryAddresses{Addresses: addresses}, nil
}

func (uc *checkoutUsecase) currentUser(sc contracts.SessionContext) (*models.User, error) {
	if sc == nil {
		return nil, exceptions.ErrMissingSessionContext(errors.New(constvars.ErrDevMissingSessionContext))
	}
	user, ok := sc.CurrentUser()
	if !ok {
		return nil, exceptions.ErrSessionInvalidated(errors.New(constvars.ErrDevAuthSessionInvalidated))
	}
	return user, nil
}

// refreshUser reloads the user from the Identity API so new sessions belong
// to the account it reports rather than to the token claims alone.
func (uc *checkoutUsecase) refreshUser(ctx context.Context, sc contracts.SessionContext) (*models.User, error) {
	if sc == nil {
		return nil, exceptions.ErrMissingSessionContext(errors.New(constvars.ErrDevMissingSessionContext))
	}
	err := sc.Refresh(ctx)
	if err != nil {
		return nil, uc.upstreamError(sc, err)
	}
	return uc.currentUser(sc)
}

// loadOwnedSession answers 404 for sessions of other users so their ids are
// not confirmed to exist.
func (uc *checkoutUsecase) loadOwnedSession(ctx context.Context, sessionID, userID string) (*models.CheckoutSession, error) {
	session, err := uc.SessionRepository.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOwnedBy(userID) {
		return nil, exceptions.ErrCheckoutSessionForeign(errors.New(constvars.ErrClientCheckoutSessionNotFound), sessionID)
	}
	return session, nil
}

// upstreamError invalidates the session context when an upstream API no
// longer accepts the caller's token.
func (uc *checkoutUsecase) upstreamError(sc contracts.SessionContext, err error) error {
	if exceptions.StatusCodeOf(err) == constvars.StatusUnauthorized {
		if sc != nil {
			sc.Invalidate()
		}
		return exceptions.ErrSessionInvalidated(err)
	}
	return err
}

func (uc *checkoutUsecase) audit(ctx context.Context, session *models.CheckoutSession, events ...models.CheckoutEvent) {
	if uc.AuditRepository == nil {
		return
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	for i := range events {
		event := events[i]
		event.SessionID = session.ID
		event.UserID = session.UserID
		event.RequestID = requestID
		event.CreatedAt = uc.now()
		err := uc.AuditRepository.Record(ctx, &event)
		if err != nil {
			uc.Log.Warn("checkoutUsecase.audit error recording event",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, session.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err),
			)
		}
	}
}

// abandonDraft reports an unpaid draft to the backend and stops tracking it.
func (uc *checkoutUsecase) abandonDraft(ctx context.Context, sessionID string, draft *models.OrderDraft, reason string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	err := uc.EventPublisher.PublishOrderAbandoned(ctx, &models.OrderAbandonedMessage{
		SessionID: sessionID,
		OrderID:   draft.OrderID,
		Kind:      draft.Kind,
		Reason:    reason,
		At:        uc.now(),
	})
	if err != nil {
		uc.Log.Error("checkoutUsecase.abandonDraft error publishing event, draft stays tracked",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
			zap.Error(err),
		)
		return
	}

	err = uc.SessionRepository.UntrackOpenDraft(ctx, sessionID, draft.OrderID)
	if err != nil {
		uc.Log.Warn("checkoutUsecase.abandonDraft error untracking draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
			zap.Error(err),
		)
	}
}

func (uc *checkoutUsecase) sessionTTL() time.Duration {
	minutes := uc.InternalConfig.Checkout.SessionTTLInMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

// lockTTL outlives the longest upstream call made while holding the lock.
func (uc *checkoutUsecase) lockTTL() time.Duration {
	ttl := time.Duration(uc.InternalConfig.Checkout.LockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	orderTimeout := time.Duration(uc.InternalConfig.Upstream.OrderAPITimeoutInSeconds)*time.Second + 5*time.Second
	if orderTimeout > ttl {
		return orderTimeout
	}
	return ttl
}

func illegalTransition(action string, step models.CheckoutStep) error {
	return exceptions.ErrCheckoutIllegalTransition(errors.New(constvars.ErrClientCheckoutIllegalStep), action, step.String())
}

func requireStep(action string, session *models.CheckoutSession, allowed ...models.CheckoutStep) error {
	for _, step := range allowed {
		if session.Step == step {
			return nil
		}
	}
	return illegalTransition(action, session.Step)
}
