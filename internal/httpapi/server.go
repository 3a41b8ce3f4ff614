package httpapi

import (
	"net/http"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/app"
	"github.com/diamondnunstraw/kartcentral/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server exposes the ledgers, catalog, identity, and checkout operations
// over HTTP. It serves the single active identity scope held by the app
// context.
type Server struct {
	app     *app.Context
	catalog catalog.Reader
	loader  *catalog.Loader
	timeout time.Duration
	logger  *zap.Logger
}

func NewServer(appCtx *app.Context, reader catalog.Reader, loader *catalog.Loader, timeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		app:     appCtx,
		catalog: reader,
		loader:  loader,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.ListProducts)
			r.Get("/categories", s.ListCategories)
			r.Get("/category/{category}", s.ListByCategory)
			r.Get("/{product_id}", s.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.GetCart)
			r.Delete("/", s.ClearCart)
			r.Post("/items", s.AddCartItem)
			r.Put("/items/{product_id}", s.UpdateCartQuantity)
			r.Delete("/items/{product_id}", s.RemoveCartItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", s.GetWishlist)
			r.Delete("/", s.ClearWishlist)
			r.Post("/items", s.AddWishlistItem)
			r.Delete("/items/{product_id}", s.RemoveWishlistItem)
			r.Post("/items/{product_id}/move-to-cart", s.MoveWishlistItemToCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", s.GetCheckout)
			r.Post("/shipping", s.SubmitShipping)
			r.Post("/payment", s.SubmitPayment)
			r.Post("/back", s.CheckoutBack)
			r.Post("/place-order", s.PlaceOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.ListOrders)
			r.Get("/{order_id}", s.GetOrder)
			r.Get("/{order_id}/status", s.GetOrderStatus)
			r.Put("/{order_id}/status", s.UpdateOrderStatus)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/me", s.CurrentIdentity)
			r.Post("/signin", s.SignIn)
			r.Post("/signup", s.SignUp)
			r.Post("/signout", s.SignOut)
			r.Post("/guest", s.GuestCheckout)
		})
	})

	return r
}
