package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayush/social-media-api/internal/models"
)

// AccountFinder resolves the account behind a session.
type AccountFinder interface {
	AccountByID(ctx context.Context, id int) (*models.Account, error)
}

// Handler holds session-related HTTP handlers.
type Handler struct {
	accounts AccountFinder
	sessions *SessionStore
}

func NewHandler(accounts AccountFinder, sessions *SessionStore) *Handler {
	return &Handler{accounts: accounts, sessions: sessions}
}

// StartSession creates a session for accountID and sets the session cookie.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request, accountID int) error {
	sid, err := h.sessions.Create(r.Context(), accountID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	return nil
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"logged out"}`))
}

// Me returns the account of the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	acct, err := h.accounts.AccountByID(r.Context(), accountID)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if acct == nil {
		http.Error(w, `{"error":"account not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acct)
}
