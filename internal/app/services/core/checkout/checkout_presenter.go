package checkout

import (
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/utils"
)

// presentSession builds the UI view of a session. Once an order exists its
// server computed amounts are shown instead of the local cart totals.
func presentSession(session *models.CheckoutSession, formatter *utils.MoneyFormatter) *responses.CheckoutSession {
	subtotal := Subtotal(session.Lines)
	var discount int64
	if session.Promotion != nil {
		discount = session.Promotion.DiscountAmount
	}
	total := Total(subtotal, discount)

	lines := session.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}

	view := &responses.CheckoutSession{
		ID:                session.ID,
		Kind:              session.Kind,
		PlanID:            session.PlanID,
		Step:              session.Step,
		Lines:             lines,
		Promotion:         session.Promotion,
		PromotionNotice:   session.PromotionNotice,
		DeliveryAddressID: session.DeliveryAddressID,
		PaymentMethod:     session.PaymentMethod,
		Payment:           session.Intent,
		Outcome:           session.Outcome,
		LastProviderError: session.LastProviderError,
		ReceiptUploaded:   session.ReceiptKey != "",
		Version:           session.Version,
		ExpiresAt:         session.ExpiresAt,
	}

	if session.Order != nil {
		subtotal, discount, total = session.Order.Subtotal, session.Order.Discount, session.Order.Total
		view.Order = &responses.CheckoutOrder{
			OrderID:   session.Order.OrderID,
			Reference: session.Order.Reference,
			State:     session.Order.State,
			Subtotal:  session.Order.Subtotal,
			Discount:  session.Order.Discount,
			Total:     session.Order.Total,
		}
	}

	view.Totals = responses.CheckoutTotals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
		Currency: formatter.PrimaryCurrency(),
		Display: responses.MoneyDisplay{
			Subtotal:        formatter.FormatPrimary(subtotal),
			Discount:        formatter.FormatPrimary(discount),
			Total:           formatter.FormatPrimary(total),
			DerivedTotal:    formatter.FormatDerived(total),
			DerivedCurrency: formatter.DerivedCurrency(),
		},
	}
	return view
}
