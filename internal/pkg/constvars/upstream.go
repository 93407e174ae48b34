package constvars

const (
	UpstreamOrderAPI    = "order_api"
	UpstreamPricingAPI  = "pricing_api"
	UpstreamIdentityAPI = "identity_api"
)

// Order/Payment API
const (
	PathCreatePurchase              = "/productos/compra"
	PathCreateSubscription          = "/suscripcion"
	PathConfirmPurchaseFormat       = "/pagos/confirmar-compra/%s"
	PathConfirmSubscriptionFormat   = "/pagos/confirmar-suscripcion/%s"
	PathSimulateCardFormat          = "/pagos/simular-exito/%s"
	PathSimulateOnlineBankingFormat = "/pagos/simular-pse/%s"
	PathListPurchases               = "/productos/mis-compras"
	PathListSubscriptions           = "/suscripcion/mis-suscripciones"
)

// Pricing API
const (
	PathProductPrices     = "/productos/precios"
	PathValidatePromotion = "/promociones/validar"
)

// Identity API
const (
	PathAuthMe        = "/auth/me"
	PathUserAddresses = "/usuarios/direcciones"
)

const (
	UpstreamCurrencyDefault = "COP"
)
