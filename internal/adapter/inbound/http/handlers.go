package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/inbound/query"
)

// HandlerConfig wires the command and query handlers into the HTTP surface.
type HandlerConfig struct {
	ChangePassword    command.ChangePasswordHandler
	ChangeEmail       command.ChangeEmailHandler
	LogoutEverywhere  command.LogoutEverywhereHandler
	ForceLogout       command.ForceLogoutHandler
	DeleteAccount     command.DeleteAccountHandler
	ClearRevocation   command.ClearRevocationHandler
	GetUser           query.GetUserHandler
	SearchUsers       query.SearchUsersHandler
	GetSecurityStatus query.GetSecurityStatusHandler
	Logger            *zap.Logger
}

// Handler exposes the account, admin and directory routes.
type Handler struct {
	cfg HandlerConfig
}

// NewHandler creates the HTTP handler set.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		h.cfg.Logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: message})
}

// callerID returns the authenticated user, set by the enforcement middleware.
func callerID(r *http.Request) (uuid.UUID, bool) {
	ac, ok := AuthContextFrom(r.Context())
	if !ok || ac.Claims == nil {
		return uuid.Nil, false
	}
	return ac.Claims.UserID, true
}

func pathUserID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type tokenResponse struct {
	Token          string `json:"token,omitempty"`
	TokenExpiresAt int64  `json:"token_expires_at,omitempty"`
}

// setSessionCookie replaces the browser session cookie with the freshly
// issued token. An empty token clears the cookie instead.
func setSessionCookie(w http.ResponseWriter, token string, expiresAt int64) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	} else if expiresAt > 0 {
		cookie.Expires = time.Unix(expiresAt, 0)
	}
	http.SetCookie(w, cookie)
}

// --- account routes (behind enforcement) ---

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.cfg.ChangePassword.Handle(r.Context(), command.ChangePassword{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ClientIP:        r.RemoteAddr,
		UserAgent:       r.UserAgent(),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	setSessionCookie(w, result.Token, result.TokenExpiresAt)
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:          result.Token,
		TokenExpiresAt: result.TokenExpiresAt,
	})
}

type changeEmailRequest struct {
	Password string `json:"password"`
	NewEmail string `json:"new_email"`
}

func (h *Handler) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req changeEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.cfg.ChangeEmail.Handle(r.Context(), command.ChangeEmail{
		UserID:    userID,
		Password:  req.Password,
		NewEmail:  req.NewEmail,
		ClientIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	setSessionCookie(w, result.Token, result.TokenExpiresAt)
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:          result.Token,
		TokenExpiresAt: result.TokenExpiresAt,
	})
}

func (h *Handler) handleLogoutEverywhere(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	_, err := h.cfg.LogoutEverywhere.Handle(r.Context(), command.LogoutEverywhere{
		UserID:    userID,
		ClientIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	setSessionCookie(w, "", 0)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	_, err := h.cfg.DeleteAccount.Handle(r.Context(), command.DeleteAccount{
		UserID:    userID,
		ClientIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	setSessionCookie(w, "", 0)
	w.WriteHeader(http.StatusNoContent)
}

type securityStatusResponse struct {
	Revoked   bool   `json:"revoked"`
	Reason    string `json:"reason,omitempty"`
	Scope     string `json:"scope,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

func (h *Handler) handleSecurityStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	result, err := h.cfg.GetSecurityStatus.Handle(r.Context(), query.GetSecurityStatus{UserID: userID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := securityStatusResponse{Revoked: result.Revoked}
	if result.Revoked {
		resp.Reason = string(result.Reason)
		resp.Scope = string(result.Scope)
		resp.CreatedAt = result.CreatedAt.UTC().Format(time.RFC3339)
		if !result.ExpiresAt.IsZero() {
			resp.ExpiresAt = result.ExpiresAt.UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- directory routes (behind enforcement) ---

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID().String(),
		Email:     u.Email(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt().UTC().Format(time.RFC3339),
	}
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	result, err := h.cfg.GetUser.Handle(r.Context(), query.GetUser{UserID: id})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(result.User))
}

func (h *Handler) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := query.SearchUsers{Query: r.URL.Query().Get("q")}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		q.Offset = offset
	}

	result, err := h.cfg.SearchUsers.Handle(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	users := make([]userResponse, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// --- admin routes (behind admin token) ---

type forceLogoutRequest struct {
	Reason    string `json:"reason"`
	Permanent bool   `json:"permanent"`
	Actor     string `json:"actor"`
}

func (h *Handler) handleForceLogout(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var req forceLogoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reason, err := model.ParseRevocationReason(req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.cfg.ForceLogout.Handle(r.Context(), command.ForceLogout{
		UserID:    id,
		Reason:    reason,
		Permanent: req.Permanent,
		Actor:     req.Actor,
		ClientIP:  r.RemoteAddr,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"scope": string(result.Scope)})
}

func (h *Handler) handleClearRevocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	_, err = h.cfg.ClearRevocation.Handle(r.Context(), command.ClearRevocation{
		UserID: id,
		Actor:  r.Header.Get("X-Admin-Actor"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
