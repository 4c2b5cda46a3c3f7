package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kmalygin/machine-vault/internal/model"
	"github.com/kmalygin/machine-vault/internal/response"
	"github.com/kmalygin/machine-vault/internal/service"
	"github.com/kmalygin/machine-vault/internal/validate"
)

// AuthHandler handles login, registration and credential update requests.
type AuthHandler struct {
	Auth service.AuthService
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var auth model.Auth
	if err := json.NewDecoder(r.Body).Decode(&auth); err != nil {
		response.Failure[any]("Invalid request body", http.StatusBadRequest).Write(w)
		return
	}
	if auth.Email == "" || auth.Password == "" {
		response.Failure[any]("Email and password are required", http.StatusBadRequest).Write(w)
		return
	}
	h.Auth.Login(r.Context(), auth).Write(w)
}

// Register handles POST /auth/register. Email format and the password policy
// are enforced here, before the service's ordered checks run.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		response.Failure[any]("Invalid request body", http.StatusBadRequest).Write(w)
		return
	}
	var violations []string
	if !validate.Email(reg.Email) {
		violations = append(violations, "Invalid email address")
	}
	violations = append(violations, validate.Password(reg.Password)...)
	// The policy covers the confirmation field too; a mismatch is only
	// reported once both values individually satisfy it.
	if reg.PasswordConfirmation != reg.Password {
		violations = append(violations, validate.Password(reg.PasswordConfirmation)...)
	}
	if len(violations) > 0 {
		response.Failure[any](strings.Join(violations, "; "), http.StatusBadRequest).Write(w)
		return
	}
	h.Auth.Register(r.Context(), reg).Write(w)
}

// Update handles PUT /auth/update. The acting identity comes from the
// authentication gate, never from the request body.
func (h *AuthHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		response.Failure[any](MsgTokenNotProvided, http.StatusUnauthorized).Write(w)
		return
	}
	var upd model.CredentialUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.Failure[any]("Invalid request body", http.StatusBadRequest).Write(w)
		return
	}
	if violations := validate.Password(upd.NewPassword); len(violations) > 0 {
		response.Failure[any](strings.Join(violations, "; "), http.StatusBadRequest).Write(w)
		return
	}
	h.Auth.Update(r.Context(), id.Email, upd).Write(w)
}
