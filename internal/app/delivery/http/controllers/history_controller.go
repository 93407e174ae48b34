package controllers

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"net/http"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type HistoryController struct {
	Log            *zap.Logger
	HistoryUsecase contracts.HistoryUsecase
	InternalConfig *config.InternalConfig
}

func NewHistoryController(logger *zap.Logger, historyUsecase contracts.HistoryUsecase, internalConfig *config.InternalConfig) *HistoryController {
	return &HistoryController{
		Log:            logger,
		HistoryUsecase: historyUsecase,
		InternalConfig: internalConfig,
	}
}

type historyLister func(ctx context.Context, sc contracts.SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error)

func (ctrl *HistoryController) ListPurchases(w http.ResponseWriter, r *http.Request) {
	ctrl.list(w, r, "HistoryController.ListPurchases", constvars.HistoryPurchasesFetchedMessage, ctrl.HistoryUsecase.ListPurchases)
}

func (ctrl *HistoryController) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctrl.list(w, r, "HistoryController.ListSubscriptions", constvars.HistorySubscriptionsFetchedMessage, ctrl.HistoryUsecase.ListSubscriptions)
}

func (ctrl *HistoryController) list(w http.ResponseWriter, r *http.Request, operation, message string, lister historyLister) {
	scope, ok := beginRequest(ctrl.Log, w, r, operation)
	if !ok {
		return
	}

	paginationData, err := utils.BuildHistoryPaginationRequest(r)
	if err != nil {
		ctrl.Log.Error(operation+" error parsing pagination",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLQueryParamLimit+"/"+constvars.URLQueryParamOffset))
		return
	}

	ctx, cancel := usecaseContext(r, ctrl.InternalConfig.App.RequestTimeoutInSeconds)
	defer cancel()

	page, err := lister(ctx, scope.sessionContext, paginationData)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, operation, scope.requestID, err)
		return
	}

	received := len(gjson.ParseBytes(page.Items).Array())
	pagination := utils.BuildPaginationResponse(page.Total, page.Limit, page.Offset, received, r.URL.Path)

	ctrl.Log.Info(operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int(constvars.LoggingCountKey, received),
	)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, message, pagination, page.Items)
}
