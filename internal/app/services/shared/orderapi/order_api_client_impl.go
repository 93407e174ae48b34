package orderapi

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/app/services/shared/httpclient"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type orderAPIClient struct {
	Client *httpclient.Client
	Log    *zap.Logger
}

func NewOrderAPIClient(client *httpclient.Client, logger *zap.Logger) contracts.OrderAPIClient {
	return &orderAPIClient{
		Client: client,
		Log:    logger,
	}
}

func (c *orderAPIClient) CreatePurchase(ctx context.Context, token string, payload *requests.CreatePurchasePayload) (*models.CreatedOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("orderAPIClient.CreatePurchase called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentMethodKey, payload.MetodoPago),
		zap.Int(constvars.LoggingCountKey, len(payload.Items)),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: "create_purchase",
		Method:    http.MethodPost,
		Path:      constvars.PathCreatePurchase,
		Token:     token,
		Body:      payload,
	})
	if err != nil {
		return nil, err
	}

	order, err := c.decodeCreatedOrder(requestID, response.Body)
	if err != nil {
		return nil, err
	}

	c.Log.Info("orderAPIClient.CreatePurchase succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.OrderID),
		zap.String(constvars.LoggingReferenceKey, order.Intent.Reference),
	)
	return order, nil
}

func (c *orderAPIClient) CreateSubscription(ctx context.Context, token string, payload *requests.CreateSubscriptionPayload) (*models.CreatedOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("orderAPIClient.CreateSubscription called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentMethodKey, payload.MetodoPago),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: "create_subscription",
		Method:    http.MethodPost,
		Path:      constvars.PathCreateSubscription,
		Token:     token,
		Body:      payload,
	})
	if err != nil {
		return nil, err
	}

	order, err := c.decodeCreatedOrder(requestID, response.Body)
	if err != nil {
		return nil, err
	}

	c.Log.Info("orderAPIClient.CreateSubscription succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.OrderID),
	)
	return order, nil
}

func (c *orderAPIClient) ConfirmPurchase(ctx context.Context, token, purchaseID string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error) {
	return c.confirm(ctx, "confirm_purchase", fmt.Sprintf(constvars.PathConfirmPurchaseFormat, url.PathEscape(purchaseID)), token, payload)
}

func (c *orderAPIClient) ConfirmSubscription(ctx context.Context, token, subscriptionID string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error) {
	return c.confirm(ctx, "confirm_subscription", fmt.Sprintf(constvars.PathConfirmSubscriptionFormat, url.PathEscape(subscriptionID)), token, payload)
}

func (c *orderAPIClient) confirm(ctx context.Context, operation, path, token string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("orderAPIClient.confirm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.String(constvars.LoggingReferenceKey, payload.Referencia),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: operation,
		Method:    http.MethodPost,
		Path:      path,
		Token:     token,
		Body:      payload,
	})
	if err != nil {
		return "", err
	}

	root := unwrapData(gjson.ParseBytes(response.Body))
	state := ParseOrderState(firstString(root, "estado", "ordenPago.estado"))
	if state == "" {
		// a 2xx confirm without an explicit state means the payment went through
		state = models.OrderStatePaid
	}

	c.Log.Info("orderAPIClient.confirm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.String("state", string(state)),
	)
	return state, nil
}

func (c *orderAPIClient) SimulateCardSuccess(ctx context.Context, token, paymentOrderID string) error {
	return c.simulate(ctx, "simulate_card", fmt.Sprintf(constvars.PathSimulateCardFormat, url.PathEscape(paymentOrderID)), token)
}

func (c *orderAPIClient) SimulateOnlineBanking(ctx context.Context, token, paymentOrderID string) error {
	return c.simulate(ctx, "simulate_online_banking", fmt.Sprintf(constvars.PathSimulateOnlineBankingFormat, url.PathEscape(paymentOrderID)), token)
}

func (c *orderAPIClient) simulate(ctx context.Context, operation, path, token string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("orderAPIClient.simulate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, operation),
	)

	_, err := c.Client.Do(ctx, httpclient.Request{
		Operation: operation,
		Method:    http.MethodPost,
		Path:      path,
		Token:     token,
	})
	return err
}

func (c *orderAPIClient) ListPurchases(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error) {
	return c.listHistory(ctx, "list_purchases", constvars.PathListPurchases, token, limit, offset)
}

func (c *orderAPIClient) ListSubscriptions(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error) {
	return c.listHistory(ctx, "list_subscriptions", constvars.PathListSubscriptions, token, limit, offset)
}

func (c *orderAPIClient) listHistory(ctx context.Context, operation, path, token string, limit, offset int) (*responses.HistoryPage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("orderAPIClient.listHistory called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.Int(constvars.URLQueryParamLimit, limit),
		zap.Int(constvars.URLQueryParamOffset, offset),
	)

	query := url.Values{}
	query.Set(constvars.URLQueryParamLimit, strconv.Itoa(limit))
	query.Set(constvars.URLQueryParamOffset, strconv.Itoa(offset))

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: operation,
		Method:    http.MethodGet,
		Path:      path,
		Query:     query,
		Token:     token,
	})
	if err != nil {
		return nil, err
	}

	page, err := decodeHistoryPage(response.Body)
	if err != nil {
		c.Log.Error("orderAPIClient.listHistory error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeUpstreamResponse(err, c.Client.Name())
	}
	return page, nil
}

func (c *orderAPIClient) decodeCreatedOrder(requestID string, body []byte) (*models.CreatedOrder, error) {
	order, err := DecodeCreatedOrder(body)
	if err != nil {
		c.Log.Error("orderAPIClient.decodeCreatedOrder error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeUpstreamResponse(err, c.Client.Name())
	}
	return order, nil
}

// DecodeCreatedOrder turns a loose order creation body into a CreatedOrder
// whose Intent is exactly one of the known payment instruction shapes.
func DecodeCreatedOrder(body []byte) (*models.CreatedOrder, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(constvars.ErrDevCannotParseJSON)
	}
	root := unwrapData(gjson.ParseBytes(body))

	orderID := firstString(root, "compra.id", "suscripcion.id", "id", "compraId", "suscripcionId")
	if orderID == "" {
		return nil, errors.New("order API response carries no order id")
	}

	reference := firstString(root, "ordenPago.referencia", "referencia")
	amount := firstInt(root, "montoFinal", "ordenPago.monto", "monto")
	currency := firstString(root, "ordenPago.moneda", "moneda")
	if currency == "" {
		currency = constvars.UpstreamCurrencyDefault
	}

	intent, err := decodePaymentIntent(root, reference)
	if err != nil {
		return nil, err
	}
	intent.Amount = amount
	intent.Currency = currency

	state := ParseOrderState(firstString(root, "ordenPago.estado", "estado"))
	if state == "" {
		state = models.OrderStatePending
	}

	return &models.CreatedOrder{
		OrderID:        orderID,
		PaymentOrderID: firstString(root, "ordenPago.id", "ordenPagoId"),
		State:          state,
		FinalAmount:    amount,
		Discount:       firstInt(root, "descuentoAplicado"),
		Intent:         *intent,
	}, nil
}

func decodePaymentIntent(root gjson.Result, reference string) (*models.PaymentIntent, error) {
	switch {
	case root.Get("stripe.clientSecret").Exists():
		return &models.PaymentIntent{
			Kind:      models.IntentCard,
			Card:      &models.CardIntent{ClientSecret: root.Get("stripe.clientSecret").String()},
			Reference: reference,
		}, nil

	case root.Get("pse").IsObject():
		pse := root.Get("pse")
		if ref := pse.Get("referencia").String(); ref != "" {
			reference = ref
		}
		return &models.PaymentIntent{
			Kind: models.IntentBankRedirect,
			BankRedirect: &models.BankRedirectIntent{
				Reference: reference,
				BankURL:   pse.Get("urlBanco").String(),
			},
			Reference: reference,
		}, nil

	case root.Get("consignacion").IsObject():
		transfer := root.Get("consignacion")
		if ref := transfer.Get("referencia").String(); ref != "" {
			reference = ref
		}
		return &models.PaymentIntent{
			Kind: models.IntentManualTransfer,
			ManualTransfer: &models.ManualTransferIntent{
				Reference: reference,
				Instructions: models.TransferInstructions{
					Bank:          transfer.Get("banco").String(),
					AccountType:   transfer.Get("tipoCuenta").String(),
					AccountNumber: transfer.Get("numeroCuenta").String(),
					Holder:        transfer.Get("titular").String(),
					TaxID:         transfer.Get("nit").String(),
					Amount:        transfer.Get("monto").Int(),
				},
			},
			Reference: reference,
		}, nil
	}
	return nil, errors.New(constvars.ErrDevUpstreamUnknownIntent)
}

// ParseOrderState maps the Order API state vocabulary onto OrderState.
// Unknown non-empty values are treated as pending.
func ParseOrderState(raw string) models.OrderState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return ""
	case "pagado", "pagada", "aprobado", "aprobada", "paid", "completado":
		return models.OrderStatePaid
	case "pendiente_verificacion", "pending_manual_verification":
		return models.OrderStatePendingManualVerification
	case "abandonado", "cancelado", "expirado", "abandoned":
		return models.OrderStateAbandoned
	default:
		return models.OrderStatePending
	}
}

// decodeHistoryPage accepts {items,total}, {data,total} or a bare array.
// A missing total is reported as -1.
func decodeHistoryPage(body []byte) (*responses.HistoryPage, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(constvars.ErrDevCannotParseJSON)
	}
	root := gjson.ParseBytes(body)

	items := root
	if !root.IsArray() {
		items = root.Get("items")
		if !items.Exists() {
			items = root.Get("data")
		}
	}
	if !items.IsArray() {
		return nil, errors.New("history response carries no item list")
	}

	total := -1
	if value := root.Get("total"); value.Exists() {
		total = int(value.Int())
	} else if value := root.Get("pagination.total"); value.Exists() {
		total = int(value.Int())
	}

	return &responses.HistoryPage{
		Items: []byte(items.Raw),
		Total: total,
	}, nil
}

func unwrapData(root gjson.Result) gjson.Result {
	if data := root.Get("data"); data.IsObject() {
		return data
	}
	return root
}

func firstString(root gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := root.Get(path); value.Exists() && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func firstInt(root gjson.Result, paths ...string) int64 {
	for _, path := range paths {
		if value := root.Get(path); value.Exists() {
			return value.Int()
		}
	}
	return 0
}
