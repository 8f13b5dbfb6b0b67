package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/startupwebapp/storefront-backend/api/controllers"
	"github.com/startupwebapp/storefront-backend/api/middleware"
	"github.com/startupwebapp/storefront-backend/internal/accounts"
	"github.com/startupwebapp/storefront-backend/internal/cart"
	"github.com/startupwebapp/storefront-backend/internal/catalog"
	checkoutsvc "github.com/startupwebapp/storefront-backend/internal/checkout"
	"github.com/startupwebapp/storefront-backend/internal/events"
	"github.com/startupwebapp/storefront-backend/internal/orders"
	stripewebhook "github.com/startupwebapp/storefront-backend/internal/webhooks/stripe"
	"github.com/startupwebapp/storefront-backend/pkg/auth/session"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/metrics"
	"github.com/startupwebapp/storefront-backend/pkg/redis"
	"github.com/startupwebapp/storefront-backend/pkg/stripe"
)

// Deps collects everything the storefront router serves.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	ReadyProbes    map[string]controllers.Pinger

	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Accounts accounts.Service
	Events   events.Service

	StripeClient  *stripe.Client
	StripeWebhook *stripewebhook.Service
}

// NewRouter builds the storefront HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
		middleware.Identity(cfg.JWT, cfg.Cookie, deps.Sessions, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps.ReadyProbes))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/order", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/product/{identifier}", controllers.ProductDetail(deps.Catalog, logg))

		r.Get("/cart-items", controllers.CartItems(deps.Cart, logg))
		r.Get("/cart-shipping-methods", controllers.CartShippingMethods(deps.Cart, logg))
		r.Get("/cart-discount-codes", controllers.CartDiscountCodes(deps.Cart, logg))
		r.Get("/cart-totals", controllers.CartTotals(deps.Cart, logg))
		r.Post("/cart-add-product-sku", controllers.CartAddProductSKU(deps.Cart, cfg.Cookie, logg))
		r.Post("/cart-update-sku-quantity", controllers.CartUpdateSKUQuantity(deps.Cart, cfg.Cookie, logg))
		r.Post("/cart-remove-sku", controllers.CartRemoveSKU(deps.Cart, cfg.Cookie, logg))
		r.Post("/cart-apply-discount-code", controllers.CartApplyDiscountCode(deps.Cart, cfg.Cookie, logg))
		r.Post("/cart-remove-discount-code", controllers.CartRemoveDiscountCode(deps.Cart, cfg.Cookie, logg))
		r.Post("/cart-update-shipping-method", controllers.CartUpdateShippingMethod(deps.Cart, cfg.Cookie, logg))
		r.Post("/cart-delete-cart", controllers.CartDeleteCart(deps.Cart, cfg.Cookie, logg))

		r.Get("/checkout-allowed", controllers.CheckoutAllowed(deps.Checkout, logg))
		r.Get("/confirm-items", controllers.ConfirmItems(deps.Checkout, deps.Cart, logg))
		r.Get("/confirm-shipping-method", controllers.ConfirmShippingMethod(deps.Checkout, deps.Cart, logg))
		r.Get("/confirm-discount-codes", controllers.ConfirmDiscountCodes(deps.Checkout, deps.Cart, logg))
		r.Get("/confirm-totals", controllers.ConfirmTotals(deps.Checkout, deps.Cart, logg))
		r.Post("/confirm-place-order", controllers.ConfirmPlaceOrder(deps.Checkout, cfg.Cookie, logg))
		r.Post("/process-stripe-payment-token", controllers.ProcessStripePaymentToken(deps.Checkout, logg))
		r.Post("/create-checkout-session", controllers.CreateCheckoutSession(deps.Checkout, logg))
		r.Get("/checkout-session-success", controllers.CheckoutSessionSuccess(deps.Checkout, cfg.Cookie, logg))
		r.Post("/stripe-webhook", controllers.StripeWebhook(deps.StripeWebhook, deps.StripeClient, logg))
		r.Post("/anonymous-email-address-payment-lookup", controllers.AnonymousEmailLookup(deps.Accounts, logg))
		r.Post("/change-confirmation-email-address", controllers.ChangeConfirmationEmail(deps.Checkout, logg))

		r.Get("/{orderIdentifier}", controllers.OrderDetail(deps.Orders, logg))
	})

	r.Route("/user", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.Register(deps.Accounts, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.Accounts, logg))
		r.With(middleware.RequireMember(logg)).
			Post("/logout", controllers.Logout(deps.Accounts, logg))
		r.Post("/forgot-password", controllers.ForgotPassword(deps.Accounts, logg))
		r.Post("/reset-password", controllers.ResetPassword(deps.Accounts, logg))
		r.With(middleware.RequireMember(logg)).
			Post("/verify-email", controllers.VerifyEmail(deps.Accounts, logg))
	})

	r.Route("/event", func(r chi.Router) {
		r.Post("/page-view", controllers.PageView(deps.Events, logg))
		r.Post("/button-click", controllers.ButtonClick(deps.Events, logg))
		r.Post("/link-event", controllers.LinkEvent(deps.Events, logg))
		r.Post("/ajax-error", controllers.AJAXError(deps.Events, logg))
	})

	return r
}
