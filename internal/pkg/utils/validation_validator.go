package utils

import (
	"checkout-service/internal/app/models"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate           *validator.Validate
	promotionCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("promotion_code", validatePromotionCode)
	validate.RegisterValidation("checkout_kind", validateCheckoutKind)
	validate.RegisterValidation("payment_method", validatePaymentMethod)
	validate.RegisterValidation("cart_action_type", validateCartActionType)
	validate.RegisterValidation("card_result_state", validateCardResultState)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePromotionCode(fl validator.FieldLevel) bool {
	return promotionCodeRegex.MatchString(fl.Field().String())
}

func validateCheckoutKind(fl validator.FieldLevel) bool {
	value := models.CheckoutKind(fl.Field().String())
	return value == models.KindPurchase || value == models.KindSubscription
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return models.PaymentMethod(fl.Field().String()).IsValid()
}

func validateCartActionType(fl validator.FieldLevel) bool {
	switch models.CartActionType(fl.Field().String()) {
	case models.CartActionAdd,
		models.CartActionIncrement,
		models.CartActionDecrement,
		models.CartActionSetQuantity,
		models.CartActionRemove,
		models.CartActionClear:
		return true
	}
	return false
}

func validateCardResultState(fl validator.FieldLevel) bool {
	value := models.CardResultStatus(fl.Field().String())
	return value == models.CardResultSuccess || value == models.CardResultError
}
