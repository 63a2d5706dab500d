// Package api exposes the shop over JSON/HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/logger"
	"storefront/pkg/shop"
)

// Options carries the optional collaborators of a Server.
type Options struct {
	// Sink receives every finalized purchase. Nil disables it.
	Sink shop.PurchaseSink
	// SinkTimeout bounds a single Sink call. Defaults to two seconds.
	SinkTimeout time.Duration
	// Tracer starts the per-request spans. Nil uses the global provider.
	Tracer trace.Tracer
}

// Server owns the store and serves the HTTP surface.
type Server struct {
	store       shop.Store
	log         *logger.Logger
	sink        shop.PurchaseSink
	sinkTimeout time.Duration
	tracer      trace.Tracer
	validate    *validator.Validate
}

// New creates a Server over store.
func New(store shop.Store, log *logger.Logger, opts Options) *Server {
	if opts.SinkTimeout <= 0 {
		opts.SinkTimeout = 2 * time.Second
	}
	return &Server{
		store:       store,
		log:         log,
		sink:        opts.Sink,
		sinkTimeout: opts.SinkTimeout,
		tracer:      opts.Tracer,
		validate:    newValidator(),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
	})
	r.Use(requestIDMiddleware, s.traceMiddleware, s.accessLogMiddleware)

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	items := r.PathPrefix("/items").Subrouter()
	items.HandleFunc("", s.createItemHandler).Methods(http.MethodPost)
	items.HandleFunc("", s.listItemsHandler).Methods(http.MethodGet)
	items.HandleFunc("/{id}", s.getItemHandler).Methods(http.MethodGet)
	items.HandleFunc("/{id}", s.updateItemHandler).Methods(http.MethodPut)
	items.HandleFunc("/{id}", s.deleteItemHandler).Methods(http.MethodDelete)

	cart := r.PathPrefix("/cart").Subrouter()
	cart.HandleFunc("", s.viewCartHandler).Methods(http.MethodGet)
	cart.HandleFunc("/add", s.addToCartHandler).Methods(http.MethodPost)
	cart.HandleFunc("/items/{id}", s.removeFromCartHandler).Methods(http.MethodDelete)
	cart.HandleFunc("/finalize", s.finalizeHandler).Methods(http.MethodPost)

	purchases := r.PathPrefix("/purchases").Subrouter()
	purchases.HandleFunc("", s.listPurchasesHandler).Methods(http.MethodGet)
	purchases.HandleFunc("/{id}", s.getPurchaseHandler).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

// healthHandler reports liveness.
// @Summary Health check
// @Success 200
// @Router /healthz [get]
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
