package httpclient

import (
	"bytes"
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var errUpstreamServerError = errors.New("upstream server error")

// serverMessagePaths are the fields upstream APIs put human readable errors in.
var serverMessagePaths = []string{"message", "mensaje", "error.message", "error"}

type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Token     string
	Body      interface{}
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Client is a JSON client for one upstream API. Calls go through a circuit
// breaker that fails fast while open; nothing is retried.
type Client struct {
	name    string
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Response]
	metrics contracts.CheckoutMetrics
	Log     *zap.Logger
}

func NewClient(name, baseURL string, timeout time.Duration, upstreamCfg config.AppUpstream, breakerCfg config.AppBreaker, metrics contracts.CheckoutMetrics, logger *zap.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if upstreamCfg.MaxIdleConnectionsPerUpstream > 0 {
		transport.MaxIdleConnsPerHost = upstreamCfg.MaxIdleConnectionsPerUpstream
	}

	consecutiveFailures := breakerCfg.ConsecutiveFailures
	if consecutiveFailures == 0 {
		consecutiveFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    time.Duration(breakerCfg.IntervalInSeconds) * time.Second,
		Timeout:     time.Duration(breakerCfg.OpenTimeoutInSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("httpclient circuit breaker state changed",
				zap.String(constvars.LoggingUpstreamKey, name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		name:    name,
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{Transport: transport},
		breaker: breaker,
		metrics: metrics,
		Log:     logger,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Do sends request and returns the response of a 2xx answer. Every other
// outcome is mapped to a CustomError: 4xx keep their status, 5xx become 502,
// and both carry the server message when the body has one. Transport
// failures become 502, deadlines 504 and an open breaker 503.
func (c *Client) Do(ctx context.Context, request Request) (*Response, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	endpoint := c.baseURL + request.Path
	if len(request.Query) > 0 {
		endpoint = endpoint + "?" + request.Query.Encode()
	}

	c.Log.Info("httpclient.Do called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUpstreamKey, c.name),
		zap.String(constvars.LoggingOperationKey, request.Operation),
		zap.String(constvars.LoggingMethodKey, request.Method),
		zap.String(constvars.LoggingURLKey, endpoint),
	)

	var body io.Reader
	if request.Body != nil {
		payload, err := json.Marshal(request.Body)
		if err != nil {
			return nil, exceptions.ErrCannotMarshalJSON(err)
		}
		body = bytes.NewReader(payload)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpRequest, err := http.NewRequestWithContext(callCtx, request.Method, endpoint, body)
	if err != nil {
		c.Log.Error("httpclient.Do error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	httpRequest.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if body != nil {
		httpRequest.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if request.Token != "" {
		httpRequest.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+request.Token)
	}
	if requestID != "" {
		httpRequest.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	start := time.Now()
	response, err := c.breaker.Execute(func() (*Response, error) {
		httpResponse, err := c.http.Do(httpRequest)
		if err != nil {
			return nil, err
		}
		defer httpResponse.Body.Close()

		responseBody, err := io.ReadAll(httpResponse.Body)
		if err != nil {
			return nil, err
		}

		result := &Response{StatusCode: httpResponse.StatusCode, Body: responseBody}
		if httpResponse.StatusCode >= constvars.StatusInternalServerError {
			return result, errUpstreamServerError
		}
		return result, nil
	})
	duration := time.Since(start)

	statusCode := 0
	if response != nil {
		statusCode = response.StatusCode
	}
	if c.metrics != nil {
		c.metrics.ObserveUpstreamCall(c.name, request.Operation, statusCode, duration)
	}

	if err != nil {
		return nil, c.mapCallError(requestID, request.Operation, response, err)
	}

	if response.StatusCode < constvars.StatusOK || response.StatusCode >= 300 {
		serverMessage := ServerMessage(response.Body)
		c.Log.Warn("httpclient.Do upstream rejected request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUpstreamKey, c.name),
			zap.String(constvars.LoggingOperationKey, request.Operation),
			zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode),
			zap.String(constvars.LoggingErrorMessageKey, serverMessage),
		)
		statusErr := fmt.Errorf("%s %s", request.Method, request.Path)
		return nil, exceptions.ErrUpstreamStatus(statusErr, c.name, response.StatusCode, serverMessage)
	}

	c.Log.Info("httpclient.Do succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUpstreamKey, c.name),
		zap.String(constvars.LoggingOperationKey, request.Operation),
		zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, duration),
	)
	return response, nil
}

func (c *Client) mapCallError(requestID, operation string, response *Response, err error) error {
	c.Log.Error("httpclient.Do error calling upstream",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUpstreamKey, c.name),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return exceptions.ErrUpstreamCircuitOpen(err, c.name)
	case errors.Is(err, context.DeadlineExceeded):
		return exceptions.ErrServerDeadlineExceeded(err)
	case errors.Is(err, errUpstreamServerError) && response != nil:
		return exceptions.ErrUpstreamStatus(err, c.name, response.StatusCode, ServerMessage(response.Body))
	default:
		return exceptions.ErrSendHTTPRequest(err)
	}
}

// DecodeJSON decodes a successful response body into out.
func (c *Client) DecodeJSON(response *Response, out interface{}) error {
	err := json.Unmarshal(response.Body, out)
	if err != nil {
		return exceptions.ErrDecodeUpstreamResponse(err, c.name)
	}
	return nil
}

// ServerMessage extracts the human readable message of an upstream error body.
func ServerMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range serverMessagePaths {
		value := gjson.GetBytes(body, path)
		if value.Type == gjson.String && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

// ServerMessageOf returns the upstream message carried by an ErrUpstreamStatus
// error, or "" when the upstream gave none.
func ServerMessageOf(err *exceptions.CustomError) string {
	if err.ClientMessage == constvars.ErrClientCannotProcessRequest || err.ClientMessage == constvars.ErrClientUpstreamUnavailable {
		return ""
	}
	return err.ClientMessage
}
