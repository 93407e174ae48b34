package identityapi

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/app/services/shared/httpclient"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"net/http"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type identityAPIClient struct {
	Client *httpclient.Client
	Log    *zap.Logger
}

func NewIdentityAPIClient(client *httpclient.Client, logger *zap.Logger) contracts.IdentityAPIClient {
	return &identityAPIClient{
		Client: client,
		Log:    logger,
	}
}

func (c *identityAPIClient) GetProfile(ctx context.Context, token string) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("identityAPIClient.GetProfile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: "auth_me",
		Method:    http.MethodGet,
		Path:      constvars.PathAuthMe,
		Token:     token,
	})
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(response.Body)
	if data := root.Get("data"); data.IsObject() {
		root = data
	}

	var profile responses.IdentityProfile
	err = c.Client.DecodeJSON(&httpclient.Response{Body: []byte(root.Raw)}, &profile)
	if err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, exceptions.ErrDecodeUpstreamResponse(errors.New("profile without id"), c.Client.Name())
	}

	c.Log.Info("identityAPIClient.GetProfile succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, profile.ID),
	)
	return &models.User{
		ID:    profile.ID,
		Email: profile.Email,
		Name:  profile.Nombre,
	}, nil
}

func (c *identityAPIClient) ListAddresses(ctx context.Context, token string) ([]models.DeliveryAddress, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("identityAPIClient.ListAddresses called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := c.Client.Do(ctx, httpclient.Request{
		Operation: "list_addresses",
		Method:    http.MethodGet,
		Path:      constvars.PathUserAddresses,
		Token:     token,
	})
	if err != nil {
		return nil, err
	}

	addresses, err := DecodeAddresses(response.Body)
	if err != nil {
		c.Log.Error("identityAPIClient.ListAddresses error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeUpstreamResponse(err, c.Client.Name())
	}

	c.Log.Info("identityAPIClient.ListAddresses succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(addresses)),
	)
	return addresses, nil
}

// DecodeAddresses accepts a bare array or one wrapped in "data" or "direcciones".
func DecodeAddresses(body []byte) ([]models.DeliveryAddress, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(constvars.ErrDevCannotParseJSON)
	}

	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		for _, path := range []string{"data", "direcciones"} {
			if candidate := list.Get(path); candidate.IsArray() {
				list = candidate
				break
			}
		}
	}
	if !list.IsArray() {
		return nil, errors.New("address response carries no list")
	}

	addresses := make([]models.DeliveryAddress, 0, len(list.Array()))
	for _, item := range list.Array() {
		id := item.Get("id").String()
		if id == "" {
			continue
		}
		addresses = append(addresses, models.DeliveryAddress{
			ID:         id,
			Label:      firstOf(item, "etiqueta", "label", "nombre"),
			Line:       firstOf(item, "direccion", "line", "linea"),
			City:       firstOf(item, "ciudad", "city"),
			Department: firstOf(item, "departamento", "department"),
			Phone:      firstOf(item, "telefono", "phone"),
			IsDefault:  item.Get("predeterminada").Bool() || item.Get("esPrincipal").Bool() || item.Get("is_default").Bool(),
		})
	}
	return addresses, nil
}

func firstOf(item gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := item.Get(path).String(); value != "" {
			return value
		}
	}
	return ""
}
