package models

import "time"

type CheckoutEventType string

const (
	EventSessionOpened     CheckoutEventType = "session_opened"
	EventStepChanged       CheckoutEventType = "step_changed"
	EventPromotionApplied  CheckoutEventType = "promotion_applied"
	EventPromotionDropped  CheckoutEventType = "promotion_dropped"
	EventOrderCreated      CheckoutEventType = "order_created"
	EventOrderAbandoned    CheckoutEventType = "order_abandoned"
	EventProviderError     CheckoutEventType = "provider_error"
	EventReceiptAttached   CheckoutEventType = "receipt_attached"
	EventCheckoutCompleted CheckoutEventType = "checkout_completed"
	EventSessionAbandoned  CheckoutEventType = "session_abandoned"
)

// CheckoutEvent is one entry of the checkout audit trail.
type CheckoutEvent struct {
	ID        string            `json:"id" bson:"_id"`
	SessionID string            `json:"session_id" bson:"sessionId"`
	UserID    string            `json:"user_id" bson:"userId"`
	Type      CheckoutEventType `json:"type" bson:"type"`
	FromStep  CheckoutStep      `json:"from_step,omitempty" bson:"fromStep,omitempty"`
	ToStep    CheckoutStep      `json:"to_step,omitempty" bson:"toStep,omitempty"`
	OrderID   string            `json:"order_id,omitempty" bson:"orderId,omitempty"`
	Reference string            `json:"reference,omitempty" bson:"reference,omitempty"`
	Detail    string            `json:"detail,omitempty" bson:"detail,omitempty"`
	RequestID string            `json:"request_id,omitempty" bson:"requestId,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"createdAt"`
}

// CheckoutCompletedMessage is published when a session reaches SUCCESS.
type CheckoutCompletedMessage struct {
	Event     string          `json:"event"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	UserEmail string          `json:"user_email,omitempty"`
	Kind      CheckoutKind    `json:"kind"`
	OrderID   string          `json:"order_id"`
	Reference string          `json:"reference"`
	Method    PaymentMethod   `json:"payment_method"`
	Outcome   CheckoutOutcome `json:"outcome"`
	Total     int64           `json:"total"`
	Currency  string          `json:"currency"`
	At        time.Time       `json:"at"`
}

// OrderAbandonedMessage asks the backend to expire an unpaid draft.
type OrderAbandonedMessage struct {
	Event     string       `json:"event"`
	SessionID string       `json:"session_id"`
	OrderID   string       `json:"order_id"`
	Kind      CheckoutKind `json:"kind,omitempty"`
	Reason    string       `json:"reason"`
	At        time.Time    `json:"at"`
}

const (
	AbandonReasonSessionDeleted = "session_deleted"
	AbandonReasonSessionExpired = "session_expired"
	AbandonReasonDraftReplaced  = "draft_replaced"
	AbandonReasonInvalidIntent  = "invalid_payment_intent"
)
