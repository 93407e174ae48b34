package requests

type PurchaseItem struct {
	ProductID string `json:"productId"`
	Cantidad  int    `json:"cantidad"`
}

// CreatePurchasePayload is the body of POST /productos/compra.
type CreatePurchasePayload struct {
	Items              []PurchaseItem `json:"items"`
	MetodoPago         string         `json:"metodoPago"`
	DireccionEntregaID string         `json:"direccion_entrega_id"`
	CodigoPromocion    string         `json:"codigoPromocion,omitempty"`
}

// CreateSubscriptionPayload is the body of POST /suscripcion.
type CreateSubscriptionPayload struct {
	PlanID     string `json:"planId"`
	MetodoPago string `json:"metodoPago"`
}

type ConfirmPaymentPayload struct {
	Referencia      string `json:"referencia"`
	IDPagoProveedor string `json:"idPagoProveedor,omitempty"`
}

type ValidatePromotionPayload struct {
	Codigo   string         `json:"codigo"`
	Subtotal int64          `json:"subtotal"`
	Items    []PurchaseItem `json:"items"`
}

type ProductPricesPayload struct {
	IDs []string `json:"ids"`
}
