package models

type CheckoutStep string

const (
	StepCart              CheckoutStep = "CART"
	StepAddress           CheckoutStep = "ADDRESS"
	StepPaymentMethod     CheckoutStep = "PAYMENT_METHOD"
	StepOrderConfirmation CheckoutStep = "ORDER_CONFIRMATION"
	StepSuccess           CheckoutStep = "SUCCESS"
)

func (s CheckoutStep) IsTerminal() bool {
	return s == StepSuccess
}

func (s CheckoutStep) String() string {
	return string(s)
}

// ForwardStep returns the step reached by a plain "next" action. Leaving
// PAYMENT_METHOD needs an order and leaving ORDER_CONFIRMATION needs a payment
// outcome, so neither has a plain forward step.
func (s CheckoutStep) ForwardStep(kind CheckoutKind) (CheckoutStep, bool) {
	switch s {
	case StepCart:
		if kind == KindSubscription {
			return StepPaymentMethod, true
		}
		return StepAddress, true
	case StepAddress:
		return StepPaymentMethod, true
	default:
		return "", false
	}
}

// BackStep returns the step reached by a "back" action.
func (s CheckoutStep) BackStep(kind CheckoutKind) (CheckoutStep, bool) {
	switch s {
	case StepAddress:
		return StepCart, true
	case StepPaymentMethod:
		if kind == KindSubscription {
			return StepCart, true
		}
		return StepAddress, true
	case StepOrderConfirmation:
		return StepPaymentMethod, true
	default:
		return "", false
	}
}
