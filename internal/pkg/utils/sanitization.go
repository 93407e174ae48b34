package utils

import (
	"checkout-service/internal/pkg/dto/requests"
	"strings"
)

func SanitizeOpenCheckoutSessionRequest(input *requests.OpenCheckoutSession) {
	input.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	input.PlanID = strings.TrimSpace(input.PlanID)
}

func SanitizeCartActionRequest(input *requests.CartAction) {
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	input.ProductID = strings.TrimSpace(input.ProductID)
}

// SanitizeApplyPromotionRequest trims the code and upper-cases it; codes are
// matched case-insensitively upstream.
func SanitizeApplyPromotionRequest(input *requests.ApplyPromotion) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
}

func SanitizeSelectAddressRequest(input *requests.SelectAddress) {
	input.AddressID = strings.TrimSpace(input.AddressID)
}

func SanitizeSelectPaymentMethodRequest(input *requests.SelectPaymentMethod) {
	input.Method = strings.ToUpper(strings.TrimSpace(input.Method))
}

func SanitizeCardResultRequest(input *requests.CardResult) {
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	input.ProviderPaymentID = strings.TrimSpace(input.ProviderPaymentID)
}
