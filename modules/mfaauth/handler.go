package mfaauth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/reauth"
)

// Handler exposes the MFA operation surface as JSON endpoints. All routes
// require a verified principal on the request context; sensitive routes
// (disable, backup-codes) additionally demand a valid current code, with a
// recent re-authentication marker allowing closely following calls to skip
// the repeat challenge.
type Handler struct {
	svc    *mfa.Service
	reauth reauth.Cache
	log    *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithReauthCache enables the re-authentication freshness window for
// sensitive routes. Without it every sensitive call requires a code.
func WithReauthCache(cache reauth.Cache) HandlerOption {
	return func(h *Handler) {
		h.reauth = cache
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler creates the MFA HTTP handler over the given service.
func NewHandler(svc *mfa.Service, opts ...HandlerOption) *Handler {
	if svc == nil {
		panic("mfaauth: service cannot be nil")
	}
	h := &Handler{
		svc: svc,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle returns the module router, ready to mount:
//
//	r.Mount("/mfa", handler.Handle())
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/status", h.status)
	r.Post("/setup", h.setup)
	r.Post("/verify-setup", h.verifySetup)
	r.Post("/verify", h.verify)
	r.Post("/disable", h.disable)
	r.Post("/backup-codes", h.backupCodes)

	return r
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	status, err := h.svc.GetStatus(r.Context(), principal.UserID)
	if err != nil {
		h.serverError(w, r, "mfa status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// Re-running setup is only allowed before verification completes;
	// enabled MFA must be disabled (with a valid code) first.
	enabled, err := h.svc.IsEnabled(r.Context(), principal.UserID)
	if err != nil {
		h.serverError(w, r, "mfa setup", err)
		return
	}
	if enabled {
		writeError(w, http.StatusBadRequest, "MFA is already enabled")
		return
	}

	result, err := h.svc.InitiateSetup(r.Context(), principal.UserID, principal.Email)
	if err != nil {
		h.serverError(w, r, "mfa setup", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) verifySetup(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.svc.VerifySetup(r.Context(), principal.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, mfa.ErrInvalidCodeFormat):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, mfa.ErrNotFound):
			writeError(w, http.StatusBadRequest, "MFA setup has not been started")
		default:
			h.serverError(w, r, "mfa verify-setup", err)
		}
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid verification code")
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Success: true})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	verified, err := h.verifyEither(r, principal.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, mfa.ErrInvalidCodeFormat):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, mfa.ErrNotEnabled):
			writeError(w, http.StatusBadRequest, "MFA is not enabled")
		default:
			h.serverError(w, r, "mfa verify", err)
		}
		return
	}
	if !verified {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	h.markReauthenticated(r, principal.UserID)
	writeJSON(w, http.StatusOK, verifyResponse{Success: true})
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if !h.requireFreshCode(w, r, principal.UserID) {
		return
	}

	if err := h.svc.Disable(r.Context(), principal.UserID); err != nil {
		h.serverError(w, r, "mfa disable", err)
		return
	}

	// Disabling destroys all MFA material; the freshness marker dies with it.
	if h.reauth != nil {
		if err := h.reauth.Forget(r.Context(), principal.UserID); err != nil {
			h.log.WarnContext(r.Context(), "failed to drop reauth marker", slog.Any("error", err))
		}
	}

	writeJSON(w, http.StatusOK, verifyResponse{Success: true})
}

func (h *Handler) backupCodes(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if !h.requireFreshCode(w, r, principal.UserID) {
		return
	}

	codes, err := h.svc.RegenerateBackupCodes(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, mfa.ErrNotEnabled) {
			writeError(w, http.StatusBadRequest, "MFA is not enabled")
			return
		}
		h.serverError(w, r, "mfa backup-codes", err)
		return
	}
	writeJSON(w, http.StatusOK, backupCodesResponse{BackupCodes: codes})
}

// verifyEither dispatches between TOTP and backup-code verification.
func (h *Handler) verifyEither(r *http.Request, userID string, req verifyRequest) (bool, error) {
	if req.IsBackupCode {
		return h.svc.VerifyBackupCode(r.Context(), userID, req.Code)
	}
	return h.svc.VerifyCode(r.Context(), userID, req.Code)
}

// requireFreshCode gates sensitive routes: the request must carry a valid
// current code, unless the user re-authenticated within the freshness
// window. Writes the error response itself and reports whether to proceed.
func (h *Handler) requireFreshCode(w http.ResponseWriter, r *http.Request, userID string) bool {
	if h.reauth != nil {
		recent, err := h.reauth.Recent(r.Context(), userID)
		if err != nil {
			// Advisory cache: a failed lookup just means we re-challenge.
			h.log.WarnContext(r.Context(), "reauth cache lookup failed", slog.Any("error", err))
		} else if recent {
			return true
		}
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	verified, err := h.verifyEither(r, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, mfa.ErrInvalidCodeFormat):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, mfa.ErrNotEnabled):
			writeError(w, http.StatusBadRequest, "MFA is not enabled")
		default:
			h.serverError(w, r, "mfa code check", err)
		}
		return false
	}
	if !verified {
		writeError(w, http.StatusUnauthorized, "a valid current code is required")
		return false
	}

	h.markReauthenticated(r, userID)
	return true
}

func (h *Handler) markReauthenticated(r *http.Request, userID string) {
	if h.reauth == nil {
		return
	}
	if err := h.reauth.Mark(r.Context(), userID); err != nil {
		h.log.WarnContext(r.Context(), "failed to mark reauthentication", slog.Any("error", err))
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.ErrorContext(r.Context(), op+" failed", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
