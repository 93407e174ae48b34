package routers

import (
	"checkout-service/internal/app/delivery/http/controllers"
	"checkout-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachHistoryRoutes(router chi.Router, middlewares *middlewares.Middlewares, historyController *controllers.HistoryController) {
	router.With(middlewares.Authenticate).Get("/purchases", historyController.ListPurchases)
	router.With(middlewares.Authenticate).Get("/subscriptions", historyController.ListSubscriptions)
}
