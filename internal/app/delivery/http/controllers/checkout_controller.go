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
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Log             *zap.Logger
	CheckoutUsecase contracts.CheckoutUsecase
	InternalConfig  *config.InternalConfig
}

func NewCheckoutController(logger *zap.Logger, checkoutUsecase contracts.CheckoutUsecase, internalConfig *config.InternalConfig) *CheckoutController {
	return &CheckoutController{
		Log:             logger,
		CheckoutUsecase: checkoutUsecase,
		InternalConfig:  internalConfig,
	}
}

type sessionAction func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error)

func (ctrl *CheckoutController) OpenSession(w http.ResponseWriter, r *http.Request) {
	scope, ok := beginRequest(ctrl.Log, w, r, "CheckoutController.OpenSession")
	if !ok {
		return
	}

	request := new(requests.OpenCheckoutSession)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("CheckoutController.OpenSession error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeOpenCheckoutSessionRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("CheckoutController.OpenSession validation error",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := usecaseContext(r, ctrl.InternalConfig.App.RequestTimeoutInSeconds)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.OpenSession(ctx, scope.sessionContext, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "CheckoutController.OpenSession", scope.requestID, err)
		return
	}

	ctrl.Log.Info("CheckoutController.OpenSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.String(constvars.LoggingSessionIDKey, response.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CheckoutSessionOpenedMessage, response)
}

func (ctrl *CheckoutController) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.GetSession", constvars.CheckoutSessionFetchedMessage, ctrl.getSession)
}

func (ctrl *CheckoutController) getSession(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return ctrl.CheckoutUsecase.GetSession(ctx, sc, &command)
}

func (ctrl *CheckoutController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	scope, ok := beginRequest(ctrl.Log, w, r, "CheckoutController.DeleteSession")
	if !ok {
		return
	}
	command, ok := ctrl.buildCommand(w, r, scope, "CheckoutController.DeleteSession")
	if !ok {
		return
	}

	ctx, cancel := usecaseContext(r, ctrl.InternalConfig.App.RequestTimeoutInSeconds)
	defer cancel()

	err := ctrl.CheckoutUsecase.DeleteSession(ctx, scope.sessionContext, &command)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "CheckoutController.DeleteSession", scope.requestID, err)
		return
	}

	ctrl.Log.Info("CheckoutController.DeleteSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckoutSessionAbandonedMessage, nil)
}

func (ctrl *CheckoutController) ApplyCartAction(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CartAction)
	ctrl.runBody(w, r, "CheckoutController.ApplyCartAction", constvars.CheckoutCartUpdatedMessage, request,
		func(command requests.CheckoutCommand) interface{} {
			request.CheckoutCommand = command
			utils.SanitizeCartActionRequest(request)
			return request
		},
		func(ctx context.Context, sc contracts.SessionContext, _ requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.ApplyCartAction(ctx, sc, request)
		},
	)
}

func (ctrl *CheckoutController) SyncPrices(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.SyncPrices", constvars.CheckoutCartSyncedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.SyncPrices(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	request := new(requests.ApplyPromotion)
	ctrl.runBody(w, r, "CheckoutController.ApplyPromotion", constvars.CheckoutPromotionAppliedMessage, request,
		func(command requests.CheckoutCommand) interface{} {
			request.CheckoutCommand = command
			utils.SanitizeApplyPromotionRequest(request)
			return request
		},
		func(ctx context.Context, sc contracts.SessionContext, _ requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.ApplyPromotion(ctx, sc, request)
		},
	)
}

func (ctrl *CheckoutController) ClearPromotion(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.ClearPromotion", constvars.CheckoutPromotionClearedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.ClearPromotion(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) SelectAddress(w http.ResponseWriter, r *http.Request) {
	request := new(requests.SelectAddress)
	ctrl.runBody(w, r, "CheckoutController.SelectAddress", constvars.CheckoutAddressSelectedMessage, request,
		func(command requests.CheckoutCommand) interface{} {
			request.CheckoutCommand = command
			utils.SanitizeSelectAddressRequest(request)
			return request
		},
		func(ctx context.Context, sc contracts.SessionContext, _ requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.SelectAddress(ctx, sc, request)
		},
	)
}

func (ctrl *CheckoutController) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	request := new(requests.SelectPaymentMethod)
	ctrl.runBody(w, r, "CheckoutController.SelectPaymentMethod", constvars.CheckoutMethodSelectedMessage, request,
		func(command requests.CheckoutCommand) interface{} {
			request.CheckoutCommand = command
			utils.SanitizeSelectPaymentMethodRequest(request)
			return request
		},
		func(ctx context.Context, sc contracts.SessionContext, _ requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.SelectPaymentMethod(ctx, sc, request)
		},
	)
}

func (ctrl *CheckoutController) Next(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.Next", constvars.CheckoutStepAdvancedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.Next(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) Back(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.Back", constvars.CheckoutStepReturnedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.Back(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.CreateOrder", constvars.CheckoutOrderCreatedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.CreateOrder(ctx, sc, &command)
		},
	)
}

// ReportCardResult answers 200 for provider errors too; the session then
// carries the provider message.
func (ctrl *CheckoutController) ReportCardResult(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CardResult)
	ctrl.runBody(w, r, "CheckoutController.ReportCardResult", constvars.CheckoutPaymentConfirmedMessage, request,
		func(command requests.CheckoutCommand) interface{} {
			request.CheckoutCommand = command
			utils.SanitizeCardResultRequest(request)
			return request
		},
		func(ctx context.Context, sc contracts.SessionContext, _ requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.ReportCardResult(ctx, sc, request)
		},
	)
}

func (ctrl *CheckoutController) ConfirmOnlineBanking(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.ConfirmOnlineBanking", constvars.CheckoutPaymentConfirmedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.ConfirmOnlineBanking(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) AcknowledgeInstructions(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.AcknowledgeInstructions", constvars.CheckoutInstructionsAckMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.AcknowledgeInstructions(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) AttachTransferReceipt(w http.ResponseWriter, r *http.Request) {
	scope, ok := beginRequest(ctrl.Log, w, r, "CheckoutController.AttachTransferReceipt")
	if !ok {
		return
	}
	command, ok := ctrl.buildCommand(w, r, scope, "CheckoutController.AttachTransferReceipt")
	if !ok {
		return
	}

	maxMemory := ctrl.InternalConfig.Minio.ReceiptMaxUploadSizeInMB
	if maxMemory <= 0 {
		maxMemory = constvars.ReceiptMaxUploadSizeMB
	}
	if err := r.ParseMultipartForm(maxMemory << 20); err != nil {
		ctrl.Log.Error("CheckoutController.AttachTransferReceipt error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	request, file, err := utils.BuildAttachTransferReceiptRequest(r, command)
	if err != nil {
		ctrl.Log.Error("CheckoutController.AttachTransferReceipt error reading receipt file",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := usecaseContext(r, ctrl.InternalConfig.App.RequestTimeoutInSeconds)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.AttachTransferReceipt(ctx, scope.sessionContext, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "CheckoutController.AttachTransferReceipt", scope.requestID, err)
		return
	}

	ctrl.Log.Info("CheckoutController.AttachTransferReceipt succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.String(constvars.LoggingSessionIDKey, response.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckoutReceiptAttachedMessage, response)
}

func (ctrl *CheckoutController) SimulatePayment(w http.ResponseWriter, r *http.Request) {
	ctrl.runCommand(w, r, "CheckoutController.SimulatePayment", constvars.CheckoutPaymentSimulatedMessage,
		func(ctx context.Context, sc contracts.SessionContext, command requests.CheckoutCommand) (*responses.CheckoutSession, error) {
			return ctrl.CheckoutUsecase.SimulatePayment(ctx, sc, &command)
		},
	)
}

func (ctrl *CheckoutController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	scope, ok := beginRequest(ctrl.Log, w, r, "CheckoutController.ListAddresses")
	if !ok {
		return
	}

	ctx, cancel := usecaseContext(r, ctrl.InternalConfig.App.RequestTimeoutInSeconds)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.ListAddresses(ctx, scope.sessionContext)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, "CheckoutController.ListAddresses", scope.requestID, err)
		return
	}

	ctrl.Log.Info("CheckoutController.ListAddresses succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int(constvars.LoggingCountKey, len(response.Addresses)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckoutAddressesFetchedMessage, response)
}

func (ctrl *CheckoutController) buildCommand(w http.ResponseWriter, r *http.Request, scope *requestScope, operation string) (requests.CheckoutCommand, bool) {
	command, err := utils.BuildCheckoutCommand(r)
	if err != nil {
		ctrl.Log.Error(operation+" invalid checkout version header",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.HeaderCheckoutVersion))
		return command, false
	}
	if err := utils.ValidateStruct(&command); err != nil {
		ctrl.Log.Error(operation+" invalid session id",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamSessionID))
		return command, false
	}
	return command, true
}

// runCommand serves the bodiless session actions.
func (ctrl *CheckoutController) runCommand(w http.ResponseWriter, r *http.Request, operation, message string, action sessionAction) {
	scope, ok := beginRequest(ctrl.Log, w, r, operation)
	if !ok {
		return
	}
	command, ok := ctrl.buildCommand(w, r, scope, operation)
	if !ok {
		return
	}
	ctrl.execute(w, r, scope, operation, message, command, action)
}

// runBody decodes a JSON body into request, lets bind attach the command and
// sanitize it, validates the result and runs action.
func (ctrl *CheckoutController) runBody(w http.ResponseWriter, r *http.Request, operation, message string, request interface{}, bind func(command requests.CheckoutCommand) interface{}, action sessionAction) {
	scope, ok := beginRequest(ctrl.Log, w, r, operation)
	if !ok {
		return
	}
	command, ok := ctrl.buildCommand(w, r, scope, operation)
	if !ok {
		return
	}

	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error(operation+" error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(bind(command)); err != nil {
		ctrl.Log.Error(operation+" validation error",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctrl.execute(w, r, scope, operation, message, command, action)
}

func (ctrl *CheckoutController) execute(w http.ResponseWriter, r *http.Request, scope *requestScope, operation, message string, command requests.CheckoutCommand, action sessionAction) {
	ctx, cancel := usecaseContext(r, ctrl.InternalConfig.App.RequestTimeoutInSeconds)
	defer cancel()

	response, err := action(ctx, scope.sessionContext, command)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, operation, scope.requestID, err)
		return
	}

	if message == constvars.CheckoutPaymentConfirmedMessage && response.LastProviderError != "" {
		message = constvars.CheckoutPaymentRejectedMessage
	}
	ctrl.Log.Info(operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.String(constvars.LoggingSessionIDKey, response.ID),
		zap.String(constvars.LoggingStepKey, response.Step.String()),
		zap.Int64("version", response.Version),
	)
	w.Header().Set(constvars.HeaderCheckoutVersion, strconv.FormatInt(response.Version, 10))
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, response)
}
