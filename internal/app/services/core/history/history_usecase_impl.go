package history

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"

	"go.uber.org/zap"
)

type historyUsecase struct {
	OrderAPI contracts.OrderAPIClient
	Log      *zap.Logger
}

func NewHistoryUsecase(
	orderAPI contracts.OrderAPIClient,
	logger *zap.Logger,
) contracts.HistoryUsecase {
	return &historyUsecase{
		OrderAPI: orderAPI,
		Log:      logger,
	}
}

func (uc *historyUsecase) ListPurchases(ctx context.Context, sc contracts.SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error) {
	return uc.list(ctx, sc, request, "ListPurchases", uc.OrderAPI.ListPurchases)
}

func (uc *historyUsecase) ListSubscriptions(ctx context.Context, sc contracts.SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error) {
	return uc.list(ctx, sc, request, "ListSubscriptions", uc.OrderAPI.ListSubscriptions)
}

type historyFetcher func(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error)

func (uc *historyUsecase) list(ctx context.Context, sc contracts.SessionContext, request *requests.HistoryPagination, operation string, fetch historyFetcher) (*responses.HistoryPage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("historyUsecase."+operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("limit", request.Limit),
		zap.Int("offset", request.Offset),
	)

	if sc == nil || !sc.IsAuthenticated() {
		return nil, exceptions.ErrSessionInvalidated(errors.New(constvars.ErrDevAuthSessionInvalidated))
	}

	limit := request.Limit
	if limit <= 0 {
		limit = constvars.DefaultHistoryLimit
	}
	if limit > constvars.MaxHistoryLimit {
		limit = constvars.MaxHistoryLimit
	}
	offset := request.Offset
	if offset < 0 {
		offset = 0
	}

	page, err := fetch(ctx, sc.Token(), limit, offset)
	if err != nil {
		uc.Log.Error("historyUsecase."+operation+" error calling Order API",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if exceptions.StatusCodeOf(err) == constvars.StatusUnauthorized {
			sc.Invalidate()
			return nil, exceptions.ErrSessionInvalidated(err)
		}
		return nil, err
	}

	page.Limit = limit
	page.Offset = offset
	if len(page.Items) == 0 {
		page.Items = []byte("[]")
	}
	return page, nil
}
