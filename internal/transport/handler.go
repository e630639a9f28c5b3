package transport

import (
	"net/http"

	"paniervert-be/internal/cart"
	"paniervert-be/internal/catalog"
	"paniervert-be/internal/logger"
	"paniervert-be/internal/metrics"
	"paniervert-be/internal/middleware"
	"paniervert-be/internal/order"
	"paniervert-be/internal/user"
	"paniervert-be/internal/utils"
	"paniervert-be/internal/wallet"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	userSvc    user.Service
	catalogSvc catalog.Service
	cartSvc    cart.Service
	orderSvc   order.Service
	walletSvc  wallet.Service
}

func NewHandler(
	userSvc user.Service,
	catalogSvc catalog.Service,
	cartSvc cart.Service,
	orderSvc order.Service,
	walletSvc wallet.Service,
) *Handler {
	return &Handler{
		userSvc:    userSvc,
		catalogSvc: catalogSvc,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		walletSvc:  walletSvc,
	}
}

// Routes assembles the REST API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(countRequests)

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addCartItem)
		r.Post("/items/{productID}/increment", h.incrementCartItem)
		r.Post("/items/{productID}/decrement", h.decrementCartItem)
		r.Delete("/items/{productID}", h.removeCartItem)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{orderID}", h.getOrder)
		r.Post("/{orderID}/status", h.advanceOrderStatus)
		r.Post("/{orderID}/payment", h.recordPayment)
		r.Post("/{orderID}/cancel", h.cancelOrder)
	})

	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", h.getWallet)
		r.Post("/topup", h.topUpWallet)
		r.Post("/reconcile", h.reconcileWallet)
	})

	r.Get("/metrics", h.getMetrics)

	return r
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.Default.HTTPRequests.Inc()
		next.ServeHTTP(w, r)
	})
}

// requireUser pulls the authenticated identity out of the context. It
// writes a 401 and returns ok=false for anonymous requests.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (uint, string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, user.ErrUnauthenticated)
		return 0, "", false
	}
	return userID, utils.GetUserRoleFromContext(r.Context()), true
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (order.Actor, bool) {
	userID, role, ok := h.requireUser(w, r)
	if !ok {
		return order.Actor{}, false
	}
	return order.Actor{ID: userID, Role: role}, true
}

func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Default.Snapshot())
}
