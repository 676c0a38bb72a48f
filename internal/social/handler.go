package social

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ayush/social-media-api/internal/models"
)

// SessionIssuer starts a login session for an authenticated account.
type SessionIssuer interface {
	StartSession(w http.ResponseWriter, r *http.Request, accountID int) error
}

// Handler holds account and message HTTP handlers.
type Handler struct {
	svc      *Service
	sessions SessionIssuer
	log      *logrus.Entry
}

// NewHandler builds the HTTP layer. sessions may be nil, in which case login
// only verifies credentials.
func NewHandler(svc *Service, sessions SessionIssuer, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{svc: svc, sessions: sessions, log: log.WithField("component", "http")}
}

// Routes registers every account and message route on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.PostMessage)
		r.Get("/", h.ListMessages)
		r.Get("/{messageId}", h.GetMessage)
		r.Delete("/{messageId}", h.DeleteMessage)
		r.Patch("/{messageId}", h.UpdateMessage)
	})

	r.Route("/accounts/{accountId}", func(r chi.Router) {
		r.Get("/messages", h.ListMessagesByAuthor)
		r.Post("/messages/archive", h.ArchiveMessages)
		r.Get("/messages/archive", h.DownloadArchive)
		r.Get("/activity", h.Activity)
	})
}

// Register creates a new account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var acct models.Account
	if !decode(w, r, &acct) {
		return
	}

	saved, err := h.svc.Register(r.Context(), acct)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Login checks the credentials and, when sessions are enabled, sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Account
	if !decode(w, r, &creds) {
		return
	}

	acct, err := h.svc.Login(r.Context(), creds)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.sessions != nil {
		if err := h.sessions.StartSession(w, r, acct.AccountID); err != nil {
			h.log.WithError(err).WithField("account_id", acct.AccountID).Error("session creation failed")
			http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, acct)
}

// PostMessage creates a message.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var msg models.Message
	if !decode(w, r, &msg) {
		return
	}

	saved, err := h.svc.PostMessage(r.Context(), msg)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// ListMessages returns every message.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListMessages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// GetMessage returns a message, or an empty 200 response when it doesn't exist.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	msg, err := h.svc.GetMessage(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// ListMessagesByAuthor returns the messages posted by an account.
func (h *Handler) ListMessagesByAuthor(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	msgs, err := h.svc.ListMessagesByAuthor(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// DeleteMessage returns the deleted row count, or an empty 200 response when
// nothing matched.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	rows, deleted, err := h.svc.DeleteMessage(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// UpdateMessage replaces a message's text and returns the updated row count.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}
	var req models.UpdateMessageRequest
	if !decode(w, r, &req) {
		return
	}

	rows, updated, err := h.svc.UpdateMessage(r.Context(), id, req.MessageText)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !updated {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Activity returns the audit trail of an account.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	entries, err := h.svc.Activity(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ArchiveMessages writes the author's messages to the archive store.
func (h *Handler) ArchiveMessages(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	res, err := h.svc.ArchiveMessages(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DownloadArchive streams the last archive written for the author.
func (h *Handler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	data, contentType, err := h.svc.DownloadArchive(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=messages-%d.json", accountID))
	w.Write(data)
}

// fail maps an error to its response. Rule violations carry no body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrConflict):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	case errors.Is(err, ErrUnavailable):
		http.Error(w, `{"error":"feature not configured"}`, http.StatusServiceUnavailable)
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	// Ids are 32-bit on every backend.
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid %s"}`, name), http.StatusBadRequest)
		return 0, false
	}
	return int(id), true
}
