package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutStep_ForwardStep(t *testing.T) {
	tests := []struct {
		name   string
		step   CheckoutStep
		kind   CheckoutKind
		want   CheckoutStep
		wantOK bool
	}{
		{"Purchase Cart Goes To Address", StepCart, KindPurchase, StepAddress, true},
		{"Subscription Cart Skips Address", StepCart, KindSubscription, StepPaymentMethod, true},
		{"Address Goes To Payment Method", StepAddress, KindPurchase, StepPaymentMethod, true},
		{"Payment Method Needs An Order", StepPaymentMethod, KindPurchase, "", false},
		{"Confirmation Needs An Outcome", StepOrderConfirmation, KindPurchase, "", false},
		{"Success Is Final", StepSuccess, KindSubscription, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.step.ForwardStep(tt.kind)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckoutStep_BackStep(t *testing.T) {
	tests := []struct {
		name   string
		step   CheckoutStep
		kind   CheckoutKind
		want   CheckoutStep
		wantOK bool
	}{
		{"Cart Has No Back", StepCart, KindPurchase, "", false},
		{"Address Back To Cart", StepAddress, KindPurchase, StepCart, true},
		{"Purchase Payment Method Back To Address", StepPaymentMethod, KindPurchase, StepAddress, true},
		{"Subscription Payment Method Back To Cart", StepPaymentMethod, KindSubscription, StepCart, true},
		{"Confirmation Back To Payment Method", StepOrderConfirmation, KindPurchase, StepPaymentMethod, true},
		{"Success Cannot Go Back", StepSuccess, KindPurchase, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.step.BackStep(tt.kind)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StepSuccess.IsTerminal())
	assert.False(t, StepOrderConfirmation.IsTerminal())

	assert.True(t, OrderStatePaid.IsTerminal())
	assert.True(t, OrderStatePendingManualVerification.IsTerminal())
	assert.True(t, OrderStateAbandoned.IsTerminal())
	assert.False(t, OrderStatePending.IsTerminal())
}

func TestPaymentMethod_UpstreamCode(t *testing.T) {
	assert.Equal(t, "stripe", MethodCard.UpstreamCode())
	assert.Equal(t, "pse", MethodOnlineBanking.UpstreamCode())
	assert.Equal(t, "consignacion", MethodManualTransfer.UpstreamCode())
	assert.Equal(t, "", PaymentMethod("CASH").UpstreamCode())
	assert.False(t, PaymentMethod("CASH").IsValid())
}
