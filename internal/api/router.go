package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fastprodman/refledger/internal/services/referral"
	"github.com/fastprodman/refledger/internal/services/settings"
)

// NewRouter constructs the router with all API endpoints registered.
// adminToken guards the /admin subtree; full authorization is the caller's
// concern, this is a single shared-secret check.
func NewRouter(svc *referral.Service, sts *settings.Service, adminToken string) http.Handler {
	h := NewHandler(svc, sts)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/user/{userId}", func(r chi.Router) {
		r.Post("/register", h.RegisterHandler)
		r.Post("/creditable", h.CreditableEventHandler)
		r.Get("/balance", h.GetBalanceHandler)
		r.Get("/dashboard", h.DashboardHandler)
		r.Get("/transactions", h.TransactionsHandler)
		r.Post("/withdraw", h.WithdrawHandler)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdminToken(adminToken))
		r.Get("/stats", h.AdminStatsHandler)
		r.Put("/settings", h.UpdateSettingsHandler)
	})

	return r
}

func requireAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
