package auth

import (
	"context"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/transport"
	"github.com/frahmantamala/maintenance-management/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*AuthResult, error)
	Register(ctx context.Context, dto RegisterDTO) (*AuthResult, error)
	RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (*AuthResult, error)
	RevokeToken(ctx context.Context, tokenString string) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
	LoadPrincipal(ctx context.Context, claims *Claims) (*User, error)
	GetCurrentUser(ctx context.Context, principal *User) (*User, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
	IssueResetToken(ctx context.Context, dto ResetPasswordTokenDTO) (*ResetTokenResult, error)
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
	AssignRole(ctx context.Context, grantedBy int64, dto RoleAssignmentDTO) error
	RemoveRole(ctx context.Context, dto RoleAssignmentDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	if baseHandler == nil {
		lg := logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
		baseHandler = transport.NewBaseHandler(lg)
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", result)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Registration successful", result)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.RefreshTokens(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token refreshed", result)
}

type revokeTokenRequest struct {
	Token string `json:"token"`
}

// RevokeToken revokes the token in the body, or the caller's own bearer token
// when the body is empty.
func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if r.ContentLength > 0 {
		var req revokeTokenRequest
		if err := h.DecodeJSON(w, r, &req); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		if req.Token != "" {
			token = req.Token
		}
	}

	if err := h.Service.RevokeToken(r.Context(), token); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token revoked", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}

	var dto ChangePasswordDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), user.ID, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password changed", nil)
}

func (h *Handler) IssueResetToken(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordTokenDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.IssueResetToken(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Reset token issued", result)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password reset", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}

	current, err := h.Service.GetCurrentUser(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Current user", current)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var dto RoleAssignmentDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var grantedBy int64
	if user != nil {
		grantedBy = user.ID
	}
	if err := h.Service.AssignRole(r.Context(), grantedBy, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Role assigned", nil)
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	var dto RoleAssignmentDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.RemoveRole(r.Context(), dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Role removed", nil)
}

// AuthMiddleware authenticates the bearer token and stores the principal in
// the request context. A failing revocation lookup rejects the request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		user, err := h.Service.LoadPrincipal(r.Context(), claims)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = logger.With(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
