package checkout

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	orderCreationCreated = "created"
	orderCreationReused  = "reused"
	orderCreationFailed  = "error"
	paymentProviderError = "provider_error"
	paymentNotConfirmed  = "not_confirmed"
)

var errIntentMismatch = errors.New("payment intent does not match the selected payment method")

// CreateOrder turns the session into an order on the Order API. A draft
// created earlier for the same cart, address, method and code is reused; a
// draft for different contents is replaced and reported abandoned.
func (uc *checkoutUsecase) CreateOrder(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "CreateOrder", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		err := requireStep("create_order", session, models.StepPaymentMethod)
		if err != nil {
			return err
		}
		if !session.PaymentMethod.IsValid() {
			return exceptions.ErrCheckoutValidation(errors.New("payment method missing"), constvars.ErrClientCheckoutMethodMissing)
		}
		if len(session.Lines) == 0 {
			return exceptions.ErrCheckoutValidation(errors.New("cart is empty"), constvars.ErrClientCheckoutCartEmpty)
		}
		if session.Kind == models.KindPurchase && session.DeliveryAddressID == "" {
			return exceptions.ErrCheckoutValidation(errors.New("delivery address missing"), constvars.ErrClientCheckoutAddressMissing)
		}

		fingerprint := OrderFingerprint(session)
		if session.HasOpenOrder() && session.Order.Fingerprint == fingerprint && session.Intent != nil {
			uc.Log.Info("checkoutUsecase.CreateOrder reusing existing draft",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, session.Order.OrderID),
			)
			uc.Metrics.ObserveOrderCreation(session.Kind, orderCreationReused)
			session.Step = models.StepOrderConfirmation
			session.LastProviderError = ""
			return nil
		}

		// The order is created even if the client disconnects so that a
		// created draft is always recorded.
		created, err := uc.createUpstreamOrder(context.WithoutCancel(ctx), sc.Token(), session)
		if err != nil {
			uc.Metrics.ObserveOrderCreation(session.Kind, orderCreationFailed)
			return err
		}

		subtotal := Subtotal(session.Lines)
		draft := &models.OrderDraft{
			OrderID:           created.OrderID,
			PaymentOrderID:    created.PaymentOrderID,
			Kind:              session.Kind,
			Lines:             append([]models.CartLine(nil), session.Lines...),
			Subtotal:          subtotal,
			DeliveryAddressID: session.DeliveryAddressID,
			PaymentMethod:     session.PaymentMethod,
			State:             created.State,
			Reference:         created.Intent.Reference,
			Fingerprint:       fingerprint,
			CreatedAt:         uc.now(),
		}
		if session.Promotion != nil {
			draft.PromotionCode = session.Promotion.Code
		}
		draft.Discount, draft.Total = orderAmounts(session, created)

		detached := context.WithoutCancel(ctx)
		err = uc.SessionRepository.TrackOpenDraft(detached, session.ID, draft.OrderID)
		if err != nil {
			uc.Log.Error("checkoutUsecase.CreateOrder error tracking draft",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
				zap.Error(err),
			)
		}

		if !created.Intent.MatchesMethod(session.PaymentMethod) {
			uc.Log.Error("checkoutUsecase.CreateOrder payment intent does not match method",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
				zap.String(constvars.LoggingPaymentMethodKey, string(session.PaymentMethod)),
				zap.String("intent_kind", string(created.Intent.Kind)),
			)
			uc.abandonDraft(detached, session.ID, draft, models.AbandonReasonInvalidIntent)
			uc.Metrics.ObserveOrderCreation(session.Kind, orderCreationFailed)
			return exceptions.ErrDecodeUpstreamResponse(errIntentMismatch, constvars.UpstreamOrderAPI)
		}

		previous := session.Order
		intent := created.Intent
		session.Order = draft
		session.Intent = &intent
		session.Step = models.StepOrderConfirmation
		session.LastProviderError = ""
		session.Outcome = ""

		if previous != nil && !previous.State.IsTerminal() && previous.OrderID != draft.OrderID {
			change.record(models.EventOrderAbandoned, previous.OrderID, previous.Reference, models.AbandonReasonDraftReplaced)
			change.then(func(ctx context.Context) {
				uc.abandonDraft(ctx, session.ID, previous, models.AbandonReasonDraftReplaced)
			})
		}
		change.record(models.EventOrderCreated, draft.OrderID, draft.Reference, string(draft.PaymentMethod))
		uc.Metrics.ObserveOrderCreation(session.Kind, orderCreationCreated)

		utils.LogBusinessEvent(uc.Log, "checkout_order_created", requestID,
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.String(constvars.LoggingOrderIDKey, draft.OrderID),
			zap.String(constvars.LoggingReferenceKey, draft.Reference),
			zap.String(constvars.LoggingPaymentMethodKey, string(draft.PaymentMethod)),
			zap.Int64("total", draft.Total),
		)
		return nil
	})
}

func (uc *checkoutUsecase) createUpstreamOrder(ctx context.Context, token string, session *models.CheckoutSession) (*models.CreatedOrder, error) {
	if session.Kind == models.KindSubscription {
		return uc.OrderAPI.CreateSubscription(ctx, token, &requests.CreateSubscriptionPayload{
			PlanID:     session.PlanID,
			MetodoPago: session.PaymentMethod.UpstreamCode(),
		})
	}

	payload := &requests.CreatePurchasePayload{
		Items:              purchaseItems(session.Lines),
		MetodoPago:         session.PaymentMethod.UpstreamCode(),
		DireccionEntregaID: session.DeliveryAddressID,
	}
	if session.Promotion != nil {
		payload.CodigoPromocion = session.Promotion.Code
	}
	return uc.OrderAPI.CreatePurchase(ctx, token, payload)
}

// orderAmounts prefers the server computed amounts and falls back to the
// local totals when the Order API did not report a final amount.
func orderAmounts(session *models.CheckoutSession, created *models.CreatedOrder) (discount, total int64) {
	subtotal := Subtotal(session.Lines)
	if created.FinalAmount > 0 {
		discount = created.Discount
		if discount == 0 && subtotal > created.FinalAmount {
			discount = subtotal - created.FinalAmount
		}
		return discount, created.FinalAmount
	}

	if session.Promotion != nil {
		discount = session.Promotion.DiscountAmount
	}
	return discount, Total(subtotal, discount)
}

// ReportCardResult records what the card widget reported. A provider error
// keeps the session on ORDER_CONFIRMATION with the provider's message; a
// success is confirmed with the Order API before the checkout completes.
func (uc *checkoutUsecase) ReportCardResult(ctx context.Context, sc contracts.SessionContext, request *requests.CardResult) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, request.CheckoutCommand, "ReportCardResult", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := uc.requirePaymentStep("card_result", session, models.MethodCard)
		if err != nil {
			return err
		}

		if models.CardResultStatus(request.Status) == models.CardResultError {
			session.LastProviderError = request.Message
			change.record(models.EventProviderError, session.Order.OrderID, session.Order.Reference, request.Message)
			uc.Metrics.ObservePaymentOutcome(models.MethodCard, paymentProviderError)
			return nil
		}

		state, err := uc.confirmOrder(ctx, sc.Token(), session, request.ProviderPaymentID)
		if err != nil {
			return err
		}
		uc.settleConfirmation(session, models.MethodCard, state, change)
		return nil
	})
}

// ConfirmOnlineBanking is called when the user comes back from the bank.
func (uc *checkoutUsecase) ConfirmOnlineBanking(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "ConfirmOnlineBanking", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := uc.requirePaymentStep("confirm_online_banking", session, models.MethodOnlineBanking)
		if err != nil {
			return err
		}

		state, err := uc.confirmOrder(ctx, sc.Token(), session, "")
		if err != nil {
			return err
		}
		uc.settleConfirmation(session, models.MethodOnlineBanking, state, change)
		return nil
	})
}

// settleConfirmation completes the checkout only when the Order API reports
// the order as paid. Any other state keeps the session and its cart on
// ORDER_CONFIRMATION with a message for the user.
func (uc *checkoutUsecase) settleConfirmation(session *models.CheckoutSession, method models.PaymentMethod, state models.OrderState, change *sessionChange) {
	session.Order.State = state
	if state == models.OrderStatePaid {
		uc.completeCheckout(session, models.OutcomePaid, change)
		return
	}

	message := constvars.ErrClientPaymentNotConfirmed
	if state == models.OrderStateAbandoned {
		message = constvars.ErrClientPaymentOrderClosed
	}
	session.LastProviderError = message
	change.record(models.EventProviderError, session.Order.OrderID, session.Order.Reference, string(state))
	uc.Metrics.ObservePaymentOutcome(method, paymentNotConfirmed)
}

// AcknowledgeInstructions completes a manual transfer checkout. Nothing is
// confirmed upstream: the payment waits for manual verification.
func (uc *checkoutUsecase) AcknowledgeInstructions(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "AcknowledgeInstructions", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := uc.requirePaymentStep("acknowledge_instructions", session, models.MethodManualTransfer)
		if err != nil {
			return err
		}

		session.Order.State = models.OrderStatePendingManualVerification
		uc.completeCheckout(session, models.OutcomePendingManualVerification, change)
		return nil
	})
}

// AttachTransferReceipt stores a proof of payment for a manual transfer. It
// does not change the order state.
func (uc *checkoutUsecase) AttachTransferReceipt(ctx context.Context, sc contracts.SessionContext, request *requests.AttachTransferReceipt) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, request.CheckoutCommand, "AttachTransferReceipt", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		err := requireStep("attach_receipt", session, models.StepOrderConfirmation, models.StepSuccess)
		if err != nil {
			return err
		}
		if session.Order == nil {
			return illegalTransition("attach_receipt", session.Step)
		}
		if session.PaymentMethod != models.MethodManualTransfer {
			return exceptions.ErrPaymentMethodMismatch(errors.New(constvars.ErrClientPaymentMethodMismatch), "attach_receipt", string(session.PaymentMethod))
		}

		extension, ok := utils.ReceiptExtension(request.ContentType)
		if !ok {
			return exceptions.ErrCheckoutValidation(errors.New("unsupported receipt content type"), constvars.ErrClientReceiptInvalid)
		}
		if request.Size > uc.receiptMaxSize() {
			return exceptions.ErrCheckoutValidation(errors.New("receipt exceeds size limit"), constvars.ErrClientReceiptTooLarge)
		}

		objectKey := utils.GenerateReceiptObjectKey(session.ID, extension)
		storedKey, err := uc.Storage.UploadObject(ctx, uc.InternalConfig.Minio.ReceiptBucketName, objectKey, request.File, request.Size, request.ContentType)
		if err != nil {
			return err
		}

		session.ReceiptKey = storedKey
		change.record(models.EventReceiptAttached, session.Order.OrderID, session.Order.Reference, storedKey)
		uc.Log.Info("checkoutUsecase.AttachTransferReceipt receipt stored",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKey, storedKey),
		)
		return nil
	})
}

// SimulatePayment drives the Order API's test endpoints. It is only reachable
// when simulation is enabled outside production.
func (uc *checkoutUsecase) SimulatePayment(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	if !uc.InternalConfig.SimulationAllowed() {
		return nil, exceptions.ErrSimulationDisabled(errors.New(constvars.ErrDevSimulationDisabled))
	}

	return uc.mutate(ctx, sc, *request, "SimulatePayment", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := requireStep("simulate_payment", session, models.StepOrderConfirmation)
		if err != nil {
			return err
		}
		if session.Order == nil {
			return illegalTransition("simulate_payment", session.Step)
		}

		paymentOrderID := session.Order.PaymentOrderID
		if paymentOrderID == "" {
			paymentOrderID = session.Order.OrderID
		}

		switch session.PaymentMethod {
		case models.MethodCard:
			err = uc.OrderAPI.SimulateCardSuccess(ctx, sc.Token(), paymentOrderID)
		case models.MethodOnlineBanking:
			err = uc.OrderAPI.SimulateOnlineBanking(ctx, sc.Token(), paymentOrderID)
		default:
			return exceptions.ErrPaymentMethodMismatch(errors.New(constvars.ErrClientPaymentMethodMismatch), "simulate_payment", string(session.PaymentMethod))
		}
		if err != nil {
			return err
		}

		session.Order.State = models.OrderStatePaid
		uc.completeCheckout(session, models.OutcomePaid, change)
		return nil
	})
}

func (uc *checkoutUsecase) requirePaymentStep(action string, session *models.CheckoutSession, method models.PaymentMethod) error {
	err := requireStep(action, session, models.StepOrderConfirmation)
	if err != nil {
		return err
	}
	if session.Order == nil || session.Intent == nil {
		return exceptions.ErrCheckoutValidation(errors.New("order missing"), constvars.ErrClientOrderMissing)
	}
	if session.PaymentMethod != method {
		return exceptions.ErrPaymentMethodMismatch(errors.New(constvars.ErrClientPaymentMethodMismatch), action, string(session.PaymentMethod))
	}
	return nil
}

func (uc *checkoutUsecase) confirmOrder(ctx context.Context, token string, session *models.CheckoutSession, providerPaymentID string) (models.OrderState, error) {
	payload := &requests.ConfirmPaymentPayload{
		Referencia:      session.Order.Reference,
		IDPagoProveedor: providerPaymentID,
	}
	if session.Order.Kind == models.KindSubscription {
		return uc.OrderAPI.ConfirmSubscription(ctx, token, session.Order.OrderID, payload)
	}
	return uc.OrderAPI.ConfirmPurchase(ctx, token, session.Order.OrderID, payload)
}

// completeCheckout moves the session to SUCCESS. Clearing the cart and
// announcing the completion happen only here.
func (uc *checkoutUsecase) completeCheckout(session *models.CheckoutSession, outcome models.CheckoutOutcome, change *sessionChange) {
	session.Step = models.StepSuccess
	session.Outcome = outcome
	session.Lines = []models.CartLine{}
	session.Promotion = nil
	session.PromotionNotice = nil
	session.LastProviderError = ""

	order := *session.Order
	change.record(models.EventCheckoutCompleted, order.OrderID, order.Reference, string(outcome))

	sessionID, userID, kind := session.ID, session.UserID, session.Kind
	currency := constvars.UpstreamCurrencyDefault
	if session.Intent != nil && session.Intent.Currency != "" {
		currency = session.Intent.Currency
	}

	change.then(func(ctx context.Context) {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Metrics.ObservePaymentOutcome(order.PaymentMethod, string(outcome))

		err := uc.SessionRepository.UntrackOpenDraft(ctx, sessionID, order.OrderID)
		if err != nil {
			uc.Log.Warn("checkoutUsecase.completeCheckout error untracking draft",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}

		err = uc.EventPublisher.PublishCheckoutCompleted(ctx, &models.CheckoutCompletedMessage{
			SessionID: sessionID,
			UserID:    userID,
			Kind:      kind,
			OrderID:   order.OrderID,
			Reference: order.Reference,
			Method:    order.PaymentMethod,
			Outcome:   outcome,
			Total:     order.Total,
			Currency:  currency,
			At:        uc.now(),
		})
		if err != nil {
			uc.Log.Error("checkoutUsecase.completeCheckout error publishing completion",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, order.OrderID),
				zap.Error(err),
			)
		}

		utils.LogBusinessEvent(uc.Log, "checkout_completed", requestID,
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.String(constvars.LoggingOrderIDKey, order.OrderID),
			zap.String(constvars.LoggingReferenceKey, order.Reference),
			zap.String("outcome", string(outcome)),
		)
	})
}

func (uc *checkoutUsecase) receiptMaxSize() int64 {
	megabytes := uc.InternalConfig.Minio.ReceiptMaxUploadSizeInMB
	if megabytes <= 0 {
		megabytes = constvars.ReceiptMaxUploadSizeMB
	}
	return megabytes << 20
}
