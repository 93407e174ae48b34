package routers

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/delivery/http/controllers"
	"checkout-service/internal/app/delivery/http/middlewares"
	"checkout-service/internal/app/services/shared/metrics"
	"checkout-service/internal/pkg/constvars"
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	checkoutController *controllers.CheckoutController,
	historyController *controllers.HistoryController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins(internalConfig.App.FrontendDomain),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID, constvars.HeaderCheckoutVersion},
		ExposedHeaders:   []string{constvars.HeaderXRequestID, constvars.HeaderCheckoutVersion},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.CreateRateLimiter())
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	router.Handle("/metrics", metrics.Handler())

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/checkout", func(r chi.Router) {
				attachCheckoutRoutes(r, middlewares, checkoutController, internalConfig.SimulationAllowed())
			})

			r.Route("/history", func(r chi.Router) {
				attachHistoryRoutes(r, middlewares, historyController)
			})
		})
	})
}

func allowedOrigins(frontendDomain string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(frontendDomain, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
