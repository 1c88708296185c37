package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/refledger/internal/repos/transactions"
	"github.com/fastprodman/refledger/internal/repos/users"
	"github.com/fastprodman/refledger/internal/services/referral"
	"github.com/fastprodman/refledger/internal/services/settings"
)

// HandlerProvider wraps the referral service and exposes HTTP handlers.
type HandlerProvider struct {
	svc *referral.Service
	sts *settings.Service
}

// NewHandler returns a new handler provider.
func NewHandler(svc *referral.Service, sts *settings.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc, sts: sts}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseUserIDFromPath reads `{userId}` from chi routes like:
//
//	GET  /user/{userId}/dashboard
//	POST /user/{userId}/creditable
func parseUserIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

// decodeBody decodes a small JSON body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	return nil
}

func mapDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, users.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient balance")
	case errors.Is(err, transactions.ErrDuplicateTransaction):
		writeError(w, http.StatusConflict, "duplicate transaction")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type userSnapshotResponse struct {
	UserID        int64   `json:"userId"`
	Username      *string `json:"username,omitempty"`
	Balance       string  `json:"balance"`
	ReferralCount int     `json:"referralCount"`
	IsCreditable  bool    `json:"isCreditable"`
	ReferrerID    *int64  `json:"referrerId,omitempty"`
	ReferralLink  string  `json:"referralLink,omitempty"`
	InviteLink    *string `json:"inviteLink,omitempty"`
}

func toSnapshotResponse(s referral.UserSnapshot) userSnapshotResponse {
	return userSnapshotResponse{
		UserID:        s.UserID,
		Username:      s.Username,
		Balance:       referral.FormatMinor(s.Balance),
		ReferralCount: s.ReferralCount,
		IsCreditable:  s.IsCreditable,
		ReferrerID:    s.ReferrerID,
		ReferralLink:  s.ReferralLink,
		InviteLink:    s.InviteLink,
	}
}

// --- Handlers ---

type registerRequest struct {
	Username   *string `json:"username"`
	ReferrerID *int64  `json:"referrerId"`
	InviteLink *string `json:"inviteLink"`
}

// RegisterHandler handles POST /user/{userId}/register
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req registerRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.svc.RegisterUser(r.Context(), userID, req.Username, req.ReferrerID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	if req.InviteLink != nil && *req.InviteLink != "" {
		err = h.svc.SetInviteLink(r.Context(), userID, *req.InviteLink)
		if err != nil {
			mapDomainError(w, err)
			return
		}

		snap.InviteLink = req.InviteLink
	}

	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

type creditableRequest struct {
	EventID string `json:"eventId"`
}

// CreditableEventHandler handles POST /user/{userId}/creditable
func (h *HandlerProvider) CreditableEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req creditableRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.HandleCreditableEvent(r.Context(), userID, req.EventID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"credited":          res.Credited,
		"creditedAncestors": res.CreditedAncestors,
	})
}

// GetBalanceHandler handles GET /user/{userId}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	dash, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": referral.FormatMinor(dash.Balance),
	})
}

// DashboardHandler handles GET /user/{userId}/dashboard
func (h *HandlerProvider) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	dash, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balance":       referral.FormatMinor(dash.Balance),
		"referralCount": dash.ReferralCount,
		"referralLink":  dash.ReferralLink,
		"inviteLink":    dash.InviteLink,
	})
}

// TransactionsHandler handles GET /user/{userId}/transactions
func (h *HandlerProvider) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	limit := 50
	offset := 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 500 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
	}

	list, err := h.svc.Transactions(r.Context(), userID, limit, offset)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	type txResponse struct {
		ID        int64  `json:"id"`
		Amount    string `json:"amount"`
		Kind      string `json:"kind"`
		CreatedAt string `json:"createdAt"`
	}

	out := make([]txResponse, 0, len(list))
	for _, t := range list {
		out = append(out, txResponse{
			ID:        t.ID,
			Amount:    referral.FormatMinor(t.Amount),
			Kind:      string(t.Kind),
			CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":       userID,
		"transactions": out,
	})
}

type withdrawRequest struct {
	PayoutDetails string `json:"payoutDetails"`
}

// WithdrawHandler handles POST /user/{userId}/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req withdrawRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.PayoutDetails == "" {
		writeError(w, http.StatusBadRequest, "payoutDetails required")
		return
	}

	res, err := h.svc.RequestWithdrawal(r.Context(), userID, req.PayoutDetails)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"amount": referral.FormatMinor(res.Amount),
	})
}

// AdminStatsHandler handles GET /admin/stats
func (h *HandlerProvider) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.AdminStats(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalUsers":         st.TotalUsers,
		"totalWithReferrer":  st.WithReferrer,
		"totalCreditable":    st.Creditable,
		"totalNotCreditable": st.NotCreditable,
	})
}

type settingsRequest struct {
	TargetChatID *int64  `json:"targetChatId"`
	BotUsername  *string `json:"botUsername"`
}

// UpdateSettingsHandler handles PUT /admin/settings
func (h *HandlerProvider) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cur := h.sts.Update(settings.Patch{
		TargetChatID: req.TargetChatID,
		BotUsername:  req.BotUsername,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"targetChatId": cur.TargetChatID,
		"botUsername":  cur.BotUsername,
	})
}
