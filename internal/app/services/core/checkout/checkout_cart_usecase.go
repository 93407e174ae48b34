package checkout

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

func (uc *checkoutUsecase) ApplyCartAction(ctx context.Context, sc contracts.SessionContext, request *requests.CartAction) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, request.CheckoutCommand, "ApplyCartAction", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		if session.Kind == models.KindSubscription {
			return illegalTransition("cart_"+request.Type, session.Step)
		}
		err := requireStep("cart_"+request.Type, session, models.StepCart)
		if err != nil {
			return err
		}

		cartChange := CartChange{
			Type:      models.CartActionType(request.Type),
			ProductID: request.ProductID,
			Quantity:  request.Quantity,
		}
		if cartChange.Type == models.CartActionAdd {
			prices, err := uc.PricingAPI.GetProductPrices(ctx, sc.Token(), []string{request.ProductID})
			if err != nil {
				return err
			}
			cartChange.UnitPrice = prices[request.ProductID]
		}

		previousSubtotal := Subtotal(session.Lines)
		lines, err := ReduceCart(session.Lines, cartChange)
		if err != nil {
			return cartError(err)
		}
		session.Lines = lines
		dropStalePromotion(session, previousSubtotal, change)
		return nil
	})
}

// SyncPrices refreshes unit prices from the Pricing API.
func (uc *checkoutUsecase) SyncPrices(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "SyncPrices", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := requireStep("sync_prices", session, models.StepCart)
		if err != nil {
			return err
		}
		if len(session.Lines) == 0 {
			return nil
		}

		productIDs := make([]string, 0, len(session.Lines))
		for _, line := range session.Lines {
			productIDs = append(productIDs, line.ProductID)
		}
		prices, err := uc.PricingAPI.GetProductPrices(ctx, sc.Token(), productIDs)
		if err != nil {
			return err
		}

		previousSubtotal := Subtotal(session.Lines)
		lines, changed := ApplyPrices(session.Lines, prices)
		if !changed {
			return nil
		}
		session.Lines = lines
		dropStalePromotion(session, previousSubtotal, change)
		return nil
	})
}

func (uc *checkoutUsecase) ApplyPromotion(ctx context.Context, sc contracts.SessionContext, request *requests.ApplyPromotion) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, request.CheckoutCommand, "ApplyPromotion", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		if session.Kind == models.KindSubscription {
			return illegalTransition("apply_promotion", session.Step)
		}
		err := requireStep("apply_promotion", session, models.StepCart, models.StepAddress, models.StepPaymentMethod)
		if err != nil {
			return err
		}

		code := strings.ToUpper(strings.TrimSpace(request.Code))
		if code == "" {
			return exceptions.ErrCheckoutValidation(errors.New("promotion code empty"), constvars.ErrClientPromotionCodeEmpty)
		}
		if session.Promotion != nil {
			return exceptions.ErrPromotionAlreadyApplied(errors.New(constvars.ErrClientPromotionAlreadyApplied))
		}
		if len(session.Lines) == 0 {
			return exceptions.ErrCheckoutValidation(errors.New("cart is empty"), constvars.ErrClientCheckoutCartEmpty)
		}
		if !uc.PromotionLimiter.Allow(session.ID) {
			return exceptions.ErrPromotionAttemptLimit(errors.New(constvars.ErrClientTooManyRequests), session.ID)
		}

		subtotal := Subtotal(session.Lines)
		result, err := uc.PricingAPI.ValidatePromotion(ctx, sc.Token(), &requests.ValidatePromotionPayload{
			Codigo:   code,
			Subtotal: subtotal,
			Items:    purchaseItems(session.Lines),
		})
		if err != nil {
			return err
		}

		session.Promotion = &models.PromotionApplication{
			Code:            code,
			DiscountAmount:  result.Descuento,
			Percentage:      result.Porcentaje,
			AppliedSubtotal: subtotal,
		}
		session.PromotionNotice = nil
		change.record(models.EventPromotionApplied, "", "", code)

		uc.Log.Info("checkoutUsecase.ApplyPromotion promotion accepted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPromotionCodeKey, code),
			zap.Int64("discount", result.Descuento),
		)
		return nil
	})
}

func (uc *checkoutUsecase) ClearPromotion(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, *request, "ClearPromotion", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := requireStep("clear_promotion", session, models.StepCart, models.StepAddress, models.StepPaymentMethod)
		if err != nil {
			return err
		}
		if session.Promotion != nil {
			change.record(models.EventPromotionDropped, "", "", session.Promotion.Code)
		}
		session.Promotion = nil
		session.PromotionNotice = nil
		return nil
	})
}

// SelectAddress accepts only ids from the user's saved addresses.
func (uc *checkoutUsecase) SelectAddress(ctx context.Context, sc contracts.SessionContext, request *requests.SelectAddress) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, request.CheckoutCommand, "SelectAddress", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		if session.Kind == models.KindSubscription {
			return illegalTransition("select_address", session.Step)
		}
		err := requireStep("select_address", session, models.StepAddress)
		if err != nil {
			return err
		}

		addresses, err := uc.IdentityAPI.ListAddresses(ctx, sc.Token())
		if err != nil {
			return err
		}
		for _, address := range addresses {
			if address.ID == request.AddressID {
				session.DeliveryAddressID = address.ID
				return nil
			}
		}
		return exceptions.ErrCheckoutValidation(errors.New("address not owned by user"), constvars.ErrClientCheckoutAddressUnknown)
	})
}

func (uc *checkoutUsecase) SelectPaymentMethod(ctx context.Context, sc contracts.SessionContext, request *requests.SelectPaymentMethod) (*responses.CheckoutSession, error) {
	return uc.mutate(ctx, sc, request.CheckoutCommand, "SelectPaymentMethod", func(ctx context.Context, sc contracts.SessionContext, session *models.CheckoutSession, change *sessionChange) error {
		err := requireStep("select_payment_method", session, models.StepPaymentMethod)
		if err != nil {
			return err
		}

		method := models.PaymentMethod(strings.ToUpper(request.Method))
		if !method.IsValid() {
			return exceptions.ErrCheckoutValidation(errors.New("unknown payment method"), constvars.ErrClientCheckoutMethodMissing)
		}
		session.PaymentMethod = method
		return nil
	})
}

// dropStalePromotion discards an applied promotion once the subtotal it was
// validated against no longer holds, leaving a notice for the UI.
func dropStalePromotion(session *models.CheckoutSession, previousSubtotal int64, change *sessionChange) {
	if session.Promotion == nil || Subtotal(session.Lines) == previousSubtotal {
		return
	}
	change.record(models.EventPromotionDropped, "", "", session.Promotion.Code)
	session.PromotionNotice = &models.PromotionNotice{
		Code:   session.Promotion.Code,
		Reason: models.PromotionNoticeCartChanged,
	}
	session.Promotion = nil
}

func cartError(err error) error {
	switch {
	case errors.Is(err, errQuantityBelowOne):
		return exceptions.ErrCheckoutValidation(err, constvars.ErrClientCheckoutQuantityInvalid)
	case errors.Is(err, errLineNotFound):
		return exceptions.ErrCheckoutValidation(err, constvars.ErrClientCheckoutLineNotFound)
	case errors.Is(err, errPriceRequired):
		return exceptions.ErrCheckoutValidation(err, constvars.ErrClientCheckoutPriceUnavailable)
	}
	return exceptions.ErrCheckoutValidation(err, constvars.ErrClientCannotProcessRequest)
}

func purchaseItems(lines []models.CartLine) []requests.PurchaseItem {
	items := make([]requests.PurchaseItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, requests.PurchaseItem{ProductID: line.ProductID, Cantidad: line.Quantity})
	}
	return items
}
