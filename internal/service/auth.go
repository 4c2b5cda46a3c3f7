// Package service contains application services for credentials and machines.
// Every public method returns a response envelope; errors never cross the
// service boundary.
package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/kmalygin/machine-vault/internal/crypto"
	"github.com/kmalygin/machine-vault/internal/errs"
	"github.com/kmalygin/machine-vault/internal/model"
	"github.com/kmalygin/machine-vault/internal/repository"
	"github.com/kmalygin/machine-vault/internal/response"
	"github.com/kmalygin/machine-vault/internal/token"
)

// AuthService defines credential operations.
type AuthService interface {
	// Login validates credentials and issues a session token.
	Login(ctx context.Context, auth model.Auth) response.Envelope[*model.TokenPayload]
	// Register creates a new user account.
	Register(ctx context.Context, reg model.Registration) response.Envelope[any]
	// Update changes name and password of the authenticated user. email is
	// the identity resolved from the verified session token.
	Update(ctx context.Context, email string, upd model.CredentialUpdate) response.Envelope[any]
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Manager
	logger *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, logger: logger}
}

// Login checks the password against the stored representation and returns a
// signed session token carrying the user's email and name.
func (s *AuthServiceImpl) Login(ctx context.Context, auth model.Auth) response.Envelope[*model.TokenPayload] {
	u, err := s.users.GetByEmail(ctx, auth.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.Failure[*model.TokenPayload](MsgInvalidCredentials, http.StatusUnauthorized)
		}
		return s.internalLogin("Error logging in: "+err.Error(), err)
	}
	if !crypto.Verify(auth.Password, u.PasswordHash) {
		return response.Failure[*model.TokenPayload](MsgInvalidCredentials, http.StatusUnauthorized)
	}
	tok, err := s.tokens.Issue(u.Email, u.Name)
	if err != nil {
		return s.internalLogin("Error logging in: "+err.Error(), err)
	}
	return response.Success(MsgLoginSuccessful, &model.TokenPayload{Token: tok}, http.StatusOK)
}

func (s *AuthServiceImpl) internalLogin(msg string, err error) response.Envelope[*model.TokenPayload] {
	s.logger.Error("login failed", zap.Error(err))
	return response.Failure[*model.TokenPayload](msg, http.StatusInternalServerError)
}

// Register runs its checks in a fixed order, each short-circuiting the rest:
// duplicate email first, then password confirmation, then persistence. The
// ordering is a contract: a duplicate email is reported even when the
// supplied passwords also mismatch.
func (s *AuthServiceImpl) Register(ctx context.Context, reg model.Registration) response.Envelope[any] {
	exists, err := s.users.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return s.internal("Error registering: "+err.Error(), err)
	}
	if exists {
		return response.Failure[any](MsgEmailAlreadyExists, http.StatusConflict)
	}
	if reg.Password != reg.PasswordConfirmation {
		return response.Failure[any](MsgPasswordsDoNotMatch, http.StatusBadRequest)
	}
	hash, err := crypto.Hash(reg.Password)
	if err != nil {
		return s.internal("Error registering: "+err.Error(), err)
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return s.internal("Error registering: "+err.Error(), err)
	}
	u := &model.User{ID: uid, Name: reg.Name, Email: reg.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		// The pre-check can lose a race with a concurrent register; the
		// unique index reports it as ErrAlreadyExists.
		if errors.Is(err, errs.ErrAlreadyExists) {
			return response.Failure[any](MsgEmailAlreadyExists, http.StatusConflict)
		}
		return s.internal("Error registering: "+err.Error(), err)
	}
	return response.Success[any](MsgRegistrationSuccessful, nil, http.StatusCreated)
}

// Update re-proves the current password before anything else; only then is
// the new-password confirmation even compared.
func (s *AuthServiceImpl) Update(ctx context.Context, email string, upd model.CredentialUpdate) response.Envelope[any] {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return response.Failure[any](MsgPasswordIsInvalid, http.StatusUnauthorized)
		}
		return s.internal("Error updating: "+err.Error(), err)
	}
	if !crypto.Verify(upd.Password, u.PasswordHash) {
		return response.Failure[any](MsgPasswordIsInvalid, http.StatusUnauthorized)
	}
	if upd.NewPassword != upd.NewPasswordConfirmation {
		return response.Failure[any](MsgPasswordsDoNotMatch, http.StatusBadRequest)
	}
	hash, err := crypto.Hash(upd.NewPassword)
	if err != nil {
		return s.internal("Error updating: "+err.Error(), err)
	}
	if err := s.users.UpdateCredentials(ctx, email, upd.Name, hash); err != nil {
		return s.internal("Error updating: "+err.Error(), err)
	}
	return response.Success[any](MsgUpdateSuccessful, nil, http.StatusOK)
}

func (s *AuthServiceImpl) internal(msg string, err error) response.Envelope[any] {
	s.logger.Error(msg, zap.Error(err))
	return response.Failure[any](msg, http.StatusInternalServerError)
}
