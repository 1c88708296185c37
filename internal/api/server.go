package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fastprodman/refledger/internal/services/referral"
	"github.com/fastprodman/refledger/internal/services/settings"
)

// NewServer creates and returns a configured *http.Server for the referral API.
func NewServer(port uint16, svc *referral.Service, sts *settings.Service, adminToken string) *http.Server {
	mux := NewRouter(svc, sts, adminToken)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
