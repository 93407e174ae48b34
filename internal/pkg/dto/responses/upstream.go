package responses

import "github.com/goccy/go-json"

type ProductPrice struct {
	ProductID string `json:"productId"`
	Precio    int64  `json:"precio"`
}

// ProductPricesResult is the body of POST /productos/precios.
type ProductPricesResult struct {
	Precios []ProductPrice `json:"precios"`
}

// PromotionValidationResult is the body of POST /promociones/validar.
type PromotionValidationResult struct {
	Valido     bool    `json:"valido"`
	Mensaje    string  `json:"mensaje"`
	Descuento  int64   `json:"descuento"`
	Porcentaje float64 `json:"porcentaje"`
}

type IdentityProfile struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
}

// HistoryPage keeps the upstream records untouched; only the total is read.
type HistoryPage struct {
	Items  json.RawMessage `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
