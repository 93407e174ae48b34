package responses

import (
	"checkout-service/internal/app/models"
	"time"
)

type CheckoutSession struct {
	ID                string                       `json:"id"`
	Kind              models.CheckoutKind          `json:"kind"`
	PlanID            string                       `json:"plan_id,omitempty"`
	Step              models.CheckoutStep          `json:"step"`
	Lines             []models.CartLine            `json:"lines"`
	Totals            CheckoutTotals               `json:"totals"`
	Promotion         *models.PromotionApplication `json:"promotion,omitempty"`
	PromotionNotice   *models.PromotionNotice      `json:"promotion_notice,omitempty"`
	DeliveryAddressID string                       `json:"delivery_address_id,omitempty"`
	PaymentMethod     models.PaymentMethod         `json:"payment_method,omitempty"`
	Order             *CheckoutOrder               `json:"order,omitempty"`
	Payment           *models.PaymentIntent        `json:"payment,omitempty"`
	Outcome           models.CheckoutOutcome       `json:"outcome,omitempty"`
	LastProviderError string                       `json:"last_provider_error,omitempty"`
	ReceiptUploaded   bool                         `json:"receipt_uploaded"`
	Version           int64                        `json:"version"`
	ExpiresAt         time.Time                    `json:"expires_at"`
}

type CheckoutTotals struct {
	Subtotal int64        `json:"subtotal"`
	Discount int64        `json:"discount"`
	Total    int64        `json:"total"`
	Currency string       `json:"currency"`
	Display  MoneyDisplay `json:"display"`
}

// MoneyDisplay carries locale formatted amounts. Derived amounts are display only.
type MoneyDisplay struct {
	Subtotal        string `json:"subtotal"`
	Discount        string `json:"discount"`
	Total           string `json:"total"`
	DerivedTotal    string `json:"derived_total,omitempty"`
	DerivedCurrency string `json:"derived_currency,omitempty"`
}

type CheckoutOrder struct {
	OrderID   string            `json:"order_id"`
	Reference string            `json:"reference"`
	State     models.OrderState `json:"state"`
	Subtotal  int64             `json:"subtotal"`
	Discount  int64             `json:"discount"`
	Total     int64             `json:"total"`
}

type DeliveryAddresses struct {
	Addresses []models.DeliveryAddress `json:"addresses"`
}
