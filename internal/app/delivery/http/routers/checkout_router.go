package routers

import (
	"checkout-service/internal/app/delivery/http/controllers"
	"checkout-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCheckoutRoutes(router chi.Router, middlewares *middlewares.Middlewares, checkoutController *controllers.CheckoutController, simulationAllowed bool) {
	router.With(middlewares.Authenticate).Get("/addresses", checkoutController.ListAddresses)
	router.With(middlewares.Authenticate).Post("/sessions", checkoutController.OpenSession)

	router.Route("/sessions/{session_id}", func(r chi.Router) {
		r.Use(middlewares.Authenticate)

		r.Get("/", checkoutController.GetSession)
		r.Delete("/", checkoutController.DeleteSession)
		r.Post("/cart/actions", checkoutController.ApplyCartAction)
		r.Post("/cart/sync", checkoutController.SyncPrices)
		r.Post("/promotion", checkoutController.ApplyPromotion)
		r.Delete("/promotion", checkoutController.ClearPromotion)
		r.Put("/address", checkoutController.SelectAddress)
		r.Put("/payment-method", checkoutController.SelectPaymentMethod)
		r.Post("/next", checkoutController.Next)
		r.Post("/back", checkoutController.Back)
		r.Post("/order", checkoutController.CreateOrder)
		r.Post("/payment/card-result", checkoutController.ReportCardResult)
		r.Post("/payment/confirm", checkoutController.ConfirmOnlineBanking)
		r.Post("/payment/acknowledge", checkoutController.AcknowledgeInstructions)
		r.Post("/payment/receipt", checkoutController.AttachTransferReceipt)
		if simulationAllowed {
			r.Post("/payment/simulate", checkoutController.SimulatePayment)
		}
	})
}
