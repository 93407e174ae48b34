package requests

import "io"

// CheckoutCommand identifies the session a command targets. ExpectedVersion is
// taken from the X-Checkout-Version header; zero skips the check.
type CheckoutCommand struct {
	SessionID       string `json:"-" validate:"required,uuid"`
	ExpectedVersion int64  `json:"-" validate:"gte=0"`
}

type OpenCheckoutSession struct {
	Kind   string `json:"kind" validate:"required,checkout_kind"`
	PlanID string `json:"plan_id" validate:"required_if=Kind subscription,max=64"`
}

type CartAction struct {
	CheckoutCommand
	Type      string `json:"type" validate:"required,cart_action_type"`
	ProductID string `json:"product_id" validate:"required_unless=Type clear,max=64"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

type ApplyPromotion struct {
	CheckoutCommand
	Code string `json:"code" validate:"required,max=32,promotion_code"`
}

type SelectAddress struct {
	CheckoutCommand
	AddressID string `json:"address_id" validate:"required,max=64"`
}

type SelectPaymentMethod struct {
	CheckoutCommand
	Method string `json:"method" validate:"required,payment_method"`
}

type CardResult struct {
	CheckoutCommand
	Status            string `json:"status" validate:"required,card_result_state"`
	Message           string `json:"message" validate:"required_if=Status error,max=500"`
	ProviderPaymentID string `json:"provider_payment_id" validate:"max=128"`
}

type AttachTransferReceipt struct {
	CheckoutCommand
	FileName    string    `validate:"required"`
	ContentType string    `validate:"required"`
	Size        int64     `validate:"gt=0"`
	File        io.Reader `validate:"required"`
}
