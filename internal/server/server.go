package server

import (
	"context"
	"net/http"
	"time"

	"github.com/thorfins/thorfins-be/internal/auth"
	"github.com/thorfins/thorfins-be/internal/config"
	"github.com/thorfins/thorfins-be/internal/http/handlers"
	"github.com/thorfins/thorfins-be/internal/mail"
	"github.com/thorfins/thorfins-be/internal/middleware"
	"github.com/thorfins/thorfins-be/internal/storage"
)

// Stores bundles the persistence interfaces the route groups need.
type Stores struct {
	Users        storage.UserStore
	Categories   storage.CategoryStore
	Transactions storage.TransactionStore
	Currencies   storage.CurrencyStore
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware and the statically declared route groups.
func New(cfg config.Config, stores Stores, mailer mail.Sender) *Server {
	mux := http.NewServeMux()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	requireAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Auth(tokens, next)
	}

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(stores.Users, tokens, mailer).Register(mux, requireAuth)
	handlers.NewCategoryHandler(stores.Categories).Register(mux, requireAuth)
	handlers.NewTransactionHandler(stores.Transactions).Register(mux, requireAuth)
	handlers.NewReportsHandler(stores.Transactions).Register(mux, requireAuth)
	handlers.NewCurrencyHandler(stores.Currencies).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
