package controllers

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/delivery/http/middlewares"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// requestScope is what every handler needs before calling a usecase.
type requestScope struct {
	requestID      string
	sessionContext contracts.SessionContext
}

func beginRequest(log *zap.Logger, w http.ResponseWriter, r *http.Request, operation string) (*requestScope, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error(operation + " requestID not found in context")
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(errors.New(constvars.ErrDevMissingRequestID)))
		return nil, false
	}
	log.Info(operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	sessionContext, ok := middlewares.SessionContextFromRequest(r)
	if !ok {
		log.Error(operation+" session context not found in request context",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingSessionContext(errors.New(constvars.ErrDevMissingSessionContext)))
		return nil, false
	}

	return &requestScope{requestID: requestID, sessionContext: sessionContext}, true
}

func usecaseContext(r *http.Request, timeoutInSeconds int) (context.Context, context.CancelFunc) {
	timeout := time.Duration(timeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, operation, requestID string, err error) {
	log.Error(operation+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) && exceptions.StatusCodeOf(err) == constvars.StatusInternalServerError {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
