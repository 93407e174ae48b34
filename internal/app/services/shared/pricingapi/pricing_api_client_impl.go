package pricingapi

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/services/shared/httpclient"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type pricingAPIClient struct {
	Client *httpclient.Client
	Log    *zap.Logger
}

func NewPricingAPIClient(client *httpclient.Client, logger *zap.Logger) contracts.PricingAPIClient {
	return &pricingAPIClient{
		Client: client,
		Log:    logger,
	}
}

// GetProductPrices returns the current unit price of every requested product
// the Pricing API knows about. Unknown products are absent from the map.
func (c *pricingAPIClient) GetProductPrices(ctx context.Context, token string, productIDs []string) (map[string]int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("pricingAPIClient.GetProductPrices called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Strings("product_ids", productIDs),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: "product_prices",
		Method:    http.MethodPost,
		Path:      constvars.PathProductPrices,
		Token:     token,
		Body:      &requests.ProductPricesPayload{IDs: productIDs},
	})
	if err != nil {
		return nil, err
	}

	var result responses.ProductPricesResult
	err = c.Client.DecodeJSON(response, &result)
	if err != nil {
		c.Log.Error("pricingAPIClient.GetProductPrices error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	prices := make(map[string]int64, len(result.Precios))
	for _, price := range result.Precios {
		prices[price.ProductID] = price.Precio
	}

	c.Log.Info("pricingAPIClient.GetProductPrices succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(prices)),
	)
	return prices, nil
}

// ValidatePromotion asks the Pricing API to evaluate a code against a subtotal.
// A rejection, whether signalled by valido=false or a 4xx, is returned as a 422
// carrying the server's message.
func (c *pricingAPIClient) ValidatePromotion(ctx context.Context, token string, payload *requests.ValidatePromotionPayload) (*responses.PromotionValidationResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("pricingAPIClient.ValidatePromotion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPromotionCodeKey, payload.Codigo),
		zap.Int64("subtotal", payload.Subtotal),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: "validate_promotion",
		Method:    http.MethodPost,
		Path:      constvars.PathValidatePromotion,
		Token:     token,
		Body:      payload,
	})
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && isPromotionRejection(customErr.StatusCode) {
			return nil, exceptions.ErrPromotionRejected(err, httpclient.ServerMessageOf(customErr))
		}
		return nil, err
	}

	var result responses.PromotionValidationResult
	err = c.Client.DecodeJSON(response, &result)
	if err != nil {
		c.Log.Error("pricingAPIClient.ValidatePromotion error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if !result.Valido {
		c.Log.Info("pricingAPIClient.ValidatePromotion code rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPromotionCodeKey, payload.Codigo),
			zap.String(constvars.LoggingErrorMessageKey, result.Mensaje),
		)
		return nil, exceptions.ErrPromotionRejected(errors.New(constvars.ErrDevValidationFailed), result.Mensaje)
	}

	c.Log.Info("pricingAPIClient.ValidatePromotion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPromotionCodeKey, payload.Codigo),
		zap.Int64("discount", result.Descuento),
	)
	return &result, nil
}

func isPromotionRejection(statusCode int) bool {
	switch statusCode {
	case constvars.StatusBadRequest, constvars.StatusNotFound, constvars.StatusConflict, constvars.StatusUnprocessableEntity:
		return true
	}
	return false
}
