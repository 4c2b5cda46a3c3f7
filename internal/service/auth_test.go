package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kmalygin/machine-vault/internal/crypto"
	"github.com/kmalygin/machine-vault/internal/errs"
	"github.com/kmalygin/machine-vault/internal/model"
	"github.com/kmalygin/machine-vault/internal/repository"
	"github.com/kmalygin/machine-vault/internal/response"
	"github.com/kmalygin/machine-vault/internal/token"
)

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
	existsErr error
	updateErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUsers) UpdateCredentials(_ context.Context, email, name, passwordHash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errs.ErrNotFound
	}
	u.Name = name
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) GetIDByEmail(_ context.Context, email string) (uuid.UUID, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return uuid.Nil, errs.ErrNotFound
	}
	return u.ID, nil
}

func seedUser(t *testing.T, users *fakeUsers, name, email, password string) {
	t.Helper()
	hash, err := crypto.Hash(password)
	require.NoError(t, err)
	if users.byEmail == nil {
		users.byEmail = map[string]*model.User{}
	}
	users.byEmail[email] = &model.User{
		ID:           uuid.Must(uuid.NewV4()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
}

func newAuthService(users *fakeUsers) (*AuthServiceImpl, *token.Manager) {
	tokens := token.NewManager([]byte("secret"), 24*time.Hour)
	return NewAuthService(users, tokens, zap.NewNop()), tokens
}

func TestAuth_Login_Success(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "izip", "user@user.com izip", "password")
	s, tokens := newAuthService(users)

	env := s.Login(context.Background(), model.Auth{Email: "user@user.com izip", Password: "password"})
	require.Equal(t, response.StatusSuccess, env.Status)
	require.Equal(t, http.StatusOK, env.StatusCode)
	require.NotNil(t, env.Payload)

	claims, err := tokens.Decode(env.Payload.Token)
	require.NoError(t, err)
	require.Equal(t, "user@user.com izip", claims.Email)
	require.Equal(t, "izip", claims.Name)
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "u", "user@user.com", "password")
	s, _ := newAuthService(users)

	env := s.Login(context.Background(), model.Auth{Email: "user@user.com", Password: "wrong"})
	require.Equal(t, response.StatusFailed, env.Status)
	require.Equal(t, http.StatusUnauthorized, env.StatusCode)
	require.Equal(t, MsgInvalidCredentials, env.Message)
	require.Nil(t, env.Payload)

	env = s.Login(context.Background(), model.Auth{Email: "nobody@user.com", Password: "password"})
	require.Equal(t, http.StatusUnauthorized, env.StatusCode)
	require.Equal(t, MsgInvalidCredentials, env.Message)
}

func TestAuth_Login_RepoErrorIsInternal(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{getErr: errors.New("connection refused")}
	s, _ := newAuthService(users)

	env := s.Login(context.Background(), model.Auth{Email: "user@user.com", Password: "password"})
	require.Equal(t, http.StatusInternalServerError, env.StatusCode)
	require.Contains(t, env.Message, "connection refused")
}

func TestAuth_Register_ConflictBeforeMismatch(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "u", "taken@user.com", "password")
	s, _ := newAuthService(users)

	// Existing email AND mismatched confirmation: Conflict wins, never BadRequest.
	env := s.Register(context.Background(), model.Registration{
		Name:                 "u2",
		Email:                "taken@user.com",
		Password:             "P3R#35J8t8g4",
		PasswordConfirmation: "different",
	})
	require.Equal(t, http.StatusConflict, env.StatusCode)
	require.Equal(t, MsgEmailAlreadyExists, env.Message)
}

func TestAuth_Register_PasswordMismatch(t *testing.T) {
	t.Parallel()
	s, _ := newAuthService(&fakeUsers{})

	env := s.Register(context.Background(), model.Registration{
		Name:                 "u",
		Email:                "new@user.com",
		Password:             "P3R#35J8t8g4",
		PasswordConfirmation: "different",
	})
	require.Equal(t, http.StatusBadRequest, env.StatusCode)
	require.Equal(t, MsgPasswordsDoNotMatch, env.Message)
}

func TestAuth_Register_Success(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	s, _ := newAuthService(users)

	env := s.Register(context.Background(), model.Registration{
		Name:                 "u",
		Email:                "new@user.com",
		Password:             "P3R#35J8t8g4",
		PasswordConfirmation: "P3R#35J8t8g4",
	})
	require.Equal(t, response.StatusSuccess, env.Status)
	require.Equal(t, http.StatusCreated, env.StatusCode)

	stored := users.byEmail["new@user.com"]
	require.NotNil(t, stored)
	require.True(t, crypto.Verify("P3R#35J8t8g4", stored.PasswordHash))
}

func TestAuth_Register_DuplicateRace(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{createErr: errs.ErrAlreadyExists}
	s, _ := newAuthService(users)

	// Pre-check passed but the insert lost the race with a concurrent register.
	env := s.Register(context.Background(), model.Registration{
		Name:                 "u",
		Email:                "raced@user.com",
		Password:             "P3R#35J8t8g4",
		PasswordConfirmation: "P3R#35J8t8g4",
	})
	require.Equal(t, http.StatusConflict, env.StatusCode)
	require.Equal(t, MsgEmailAlreadyExists, env.Message)
}

func TestAuth_Update_UnauthorizedBeforeMismatch(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "u", "user@user.com", "Curr3nt!pass")
	s, _ := newAuthService(users)

	// Wrong current password AND mismatched confirmation: Unauthorized wins.
	env := s.Update(context.Background(), "user@user.com", model.CredentialUpdate{
		Name:                    "u",
		Password:                "wrong",
		NewPassword:             "N3w!passwd",
		NewPasswordConfirmation: "different",
	})
	require.Equal(t, http.StatusUnauthorized, env.StatusCode)
	require.Equal(t, MsgPasswordIsInvalid, env.Message)
}

func TestAuth_Update_MismatchAfterReproof(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "u", "user@user.com", "Curr3nt!pass")
	s, _ := newAuthService(users)

	env := s.Update(context.Background(), "user@user.com", model.CredentialUpdate{
		Name:                    "u",
		Password:                "Curr3nt!pass",
		NewPassword:             "N3w!passwd",
		NewPasswordConfirmation: "different",
	})
	require.Equal(t, http.StatusBadRequest, env.StatusCode)
	require.Equal(t, MsgPasswordsDoNotMatch, env.Message)
}

func TestAuth_Update_Success(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "old name", "user@user.com", "Curr3nt!pass")
	s, _ := newAuthService(users)

	env := s.Update(context.Background(), "user@user.com", model.CredentialUpdate{
		Name:                    "new name",
		Password:                "Curr3nt!pass",
		NewPassword:             "N3w!passwd",
		NewPasswordConfirmation: "N3w!passwd",
	})
	require.Equal(t, response.StatusSuccess, env.Status)
	require.Equal(t, http.StatusOK, env.StatusCode)

	stored := users.byEmail["user@user.com"]
	require.Equal(t, "new name", stored.Name)
	require.True(t, crypto.Verify("N3w!passwd", stored.PasswordHash))
	require.False(t, crypto.Verify("Curr3nt!pass", stored.PasswordHash))
}

func TestAuth_Update_PersistFailureIsInternal(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	seedUser(t, users, "u", "user@user.com", "Curr3nt!pass")
	users.updateErr = errors.New("boom")
	s, _ := newAuthService(users)

	env := s.Update(context.Background(), "user@user.com", model.CredentialUpdate{
		Name:                    "u",
		Password:                "Curr3nt!pass",
		NewPassword:             "N3w!passwd",
		NewPasswordConfirmation: "N3w!passwd",
	})
	require.Equal(t, http.StatusInternalServerError, env.StatusCode)
	require.Contains(t, env.Message, "boom")
}

func TestAuth_Register_PersistFailureIsInternal(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{createErr: errors.New("insert failed: disk full")}
	s, _ := newAuthService(users)

	env := s.Register(context.Background(), model.Registration{
		Name:                 "u",
		Email:                "new@user.com",
		Password:             "P3R#35J8t8g4",
		PasswordConfirmation: "P3R#35J8t8g4",
	})
	require.Equal(t, http.StatusInternalServerError, env.StatusCode)
	require.Contains(t, env.Message, "insert failed: disk full")
}
