package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/utang/internal/auth"
	"github.com/MrJamesThe3rd/utang/internal/http/ledger"
	"github.com/MrJamesThe3rd/utang/internal/http/respond"
)

type Options struct {
	AllowedOrigins []string
	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error
}

func New(ledgerV1 *ledger.Handler, verifier *auth.Verifier, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.MethodNotAllowed(respond.MethodNotAllowed)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r.Context()); err != nil {
				respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	trx := func(r chi.Router) {
		// Method is checked before the token so every non-GET gets 405.
		r.Use(allowMethods(http.MethodGet))
		r.Use(verifier.Middleware(respond.Unauthorized))
		ledgerV1.Routes(r)
	}

	router.Route("/api/v1/trx", trx)
	router.Route("/api/trx", trx)

	return router
}

func allowMethods(methods ...string) func(http.Handler) http.Handler {
	allow := strings.Join(methods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(methods, r.Method) {
				w.Header().Set("Allow", allow)
				respond.MethodNotAllowed(w, r)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
