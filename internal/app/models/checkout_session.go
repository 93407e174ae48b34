package models

import "time"

type CartLine struct {
	ProductID string `json:"product_id"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type PromotionApplication struct {
	Code            string  `json:"code"`
	DiscountAmount  int64   `json:"discount_amount"`
	Percentage      float64 `json:"percentage"`
	AppliedSubtotal int64   `json:"applied_subtotal"`
}

const PromotionNoticeCartChanged = "cart_changed"

// PromotionNotice tells the UI that an applied code was dropped and must be re-applied.
type PromotionNotice struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type CheckoutSession struct {
	ID                string                `json:"id"`
	UserID            string                `json:"user_id"`
	Kind              CheckoutKind          `json:"kind"`
	PlanID            string                `json:"plan_id,omitempty"`
	Step              CheckoutStep          `json:"step"`
	Lines             []CartLine            `json:"lines"`
	Promotion         *PromotionApplication `json:"promotion,omitempty"`
	PromotionNotice   *PromotionNotice      `json:"promotion_notice,omitempty"`
	DeliveryAddressID string                `json:"delivery_address_id,omitempty"`
	PaymentMethod     PaymentMethod         `json:"payment_method,omitempty"`
	Order             *OrderDraft           `json:"order,omitempty"`
	Intent            *PaymentIntent        `json:"intent,omitempty"`
	Outcome           CheckoutOutcome       `json:"outcome,omitempty"`
	LastProviderError string                `json:"last_provider_error,omitempty"`
	ReceiptKey        string                `json:"receipt_key,omitempty"`
	Version           int64                 `json:"version"`
	ExpiresAt         time.Time             `json:"expires_at"`
	TimeModel
}

func (s *CheckoutSession) IsOwnedBy(userID string) bool {
	return s.UserID != "" && s.UserID == userID
}

// HasOpenOrder reports whether the session holds a draft the backend still
// treats as unpaid and unacknowledged.
func (s *CheckoutSession) HasOpenOrder() bool {
	return s.Order != nil && !s.Order.State.IsTerminal()
}

type CartActionType string

const (
	CartActionAdd         CartActionType = "add"
	CartActionIncrement   CartActionType = "increment"
	CartActionDecrement   CartActionType = "decrement"
	CartActionSetQuantity CartActionType = "set_quantity"
	CartActionRemove      CartActionType = "remove"
	CartActionClear       CartActionType = "clear"
)

type CardResultStatus string

const (
	CardResultSuccess CardResultStatus = "success"
	CardResultError   CardResultStatus = "error"
)
