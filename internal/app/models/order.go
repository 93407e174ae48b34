package models

import "time"

type CheckoutKind string

const (
	KindPurchase     CheckoutKind = "purchase"
	KindSubscription CheckoutKind = "subscription"
)

type PaymentMethod string

const (
	MethodCard           PaymentMethod = "CARD"
	MethodOnlineBanking  PaymentMethod = "ONLINE_BANKING"
	MethodManualTransfer PaymentMethod = "MANUAL_TRANSFER"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodOnlineBanking, MethodManualTransfer:
		return true
	}
	return false
}

// UpstreamCode is the metodoPago value understood by the Order API.
func (m PaymentMethod) UpstreamCode() string {
	switch m {
	case MethodCard:
		return "stripe"
	case MethodOnlineBanking:
		return "pse"
	case MethodManualTransfer:
		return "consignacion"
	}
	return ""
}

type OrderState string

const (
	OrderStatePending                   OrderState = "pending"
	OrderStatePaid                      OrderState = "paid"
	OrderStatePendingManualVerification OrderState = "pending_manual_verification"
	OrderStateAbandoned                 OrderState = "abandoned"
)

func (s OrderState) IsTerminal() bool {
	return s == OrderStatePaid || s == OrderStatePendingManualVerification || s == OrderStateAbandoned
}

type CheckoutOutcome string

const (
	OutcomePaid                      CheckoutOutcome = "paid"
	OutcomePendingManualVerification CheckoutOutcome = "pending_manual_verification"
)

// OrderDraft mirrors the order the Order API created. Only server responses change State.
type OrderDraft struct {
	OrderID           string        `json:"order_id"`
	PaymentOrderID    string        `json:"payment_order_id"`
	Kind              CheckoutKind  `json:"kind"`
	Lines             []CartLine    `json:"lines"`
	Subtotal          int64         `json:"subtotal"`
	Discount          int64         `json:"discount"`
	Total             int64         `json:"total"`
	DeliveryAddressID string        `json:"delivery_address_id,omitempty"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	PromotionCode     string        `json:"promotion_code,omitempty"`
	State             OrderState    `json:"state"`
	Reference         string        `json:"reference"`
	Fingerprint       string        `json:"fingerprint"`
	CreatedAt         time.Time     `json:"created_at"`
}

// CreatedOrder is the Order API answer to an order creation, decoded once at the boundary.
type CreatedOrder struct {
	OrderID        string
	PaymentOrderID string
	State          OrderState
	FinalAmount    int64
	Discount       int64
	Intent         PaymentIntent
}

// OpenDraft is an order created for a session that has not reached a terminal state.
type OpenDraft struct {
	SessionID string
	OrderID   string
}
