package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	checkoutsvc "github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Cart     cart.Service
	Session  session.Service
	Auth     auth.Service
	Orders   orders.Service
	Checkout checkoutsvc.Service
}

// Params bundles everything NewRouter needs.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Services Services
	// Ready is pinged by /health/ready, keyed by dependency name.
	Ready    map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg, logg, svc := p.Config, p.Logger, p.Services

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Ready))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	requireSession := middleware.RequireSession(svc.Session, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svc.Cart, logg))
			r.Delete("/", controllers.CartClear(svc.Cart, logg))
			r.Get("/count", controllers.CartCount(svc.Cart, logg))
			r.With(requireSession).Post("/items", controllers.CartAddItem(svc.Cart, logg))
			r.Patch("/items/{id}", controllers.CartUpdateItem(svc.Cart, logg))
			r.Delete("/items/{id}", controllers.CartRemoveItem(svc.Cart, logg))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionGet(svc.Session, logg))
			r.Post("/login", controllers.SessionLogin(svc.Auth, logg))
			r.Post("/register", controllers.SessionRegister(svc.Auth, logg))
			r.Post("/logout", controllers.SessionLogout(svc.Session, logg))
		})

		r.With(requireSession).Get("/orders", controllers.OrdersList(svc.Orders, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", controllers.CheckoutQuote(svc.Checkout, logg))
			r.Post("/", controllers.CheckoutPlaceOrder(svc.Checkout, logg))
		})
	})

	return r
}
