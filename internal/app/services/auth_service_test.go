package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/auth"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeTokenStore) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return t, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.Revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID int64) error {
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func newAuthService(t *testing.T) (AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "campuslink.test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens
}

func registerUser(t *testing.T, svc AuthService, username, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "sup3rsecret",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users, _ := newAuthService(t)

	resp := registerUser(t, svc, "jdoe", "jdoe@campus.edu")
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "jdoe", resp.User.Username)

	// the stored password is hashed
	stored := users.users[resp.User.ID]
	assert.NotEqual(t, "sup3rsecret", stored.Password)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "JDoe@Campus.edu", // email lookup is case-insensitive
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerUser(t, svc, "jdoe", "jdoe@campus.edu")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "jdoe",
		Email:    "other@campus.edu",
		Password: "sup3rsecret",
		FullName: "Other User",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "other",
		Email:    "jdoe@campus.edu",
		Password: "sup3rsecret",
		FullName: "Other User",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterPasswordPolicy(t *testing.T) {
	svc, _, _ := newAuthService(t)

	for _, password := range []string{"short1", "alllowercase", "12345678"} {
		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Username: "policy",
			Email:    "policy@campus.edu",
			Password: password,
			FullName: "Policy Test",
		})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest, "password %q should be rejected", password)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newAuthService(t)
	resp := registerUser(t, svc, "jdoe", "jdoe@campus.edu")

	// wrong password and unknown account fail identically
	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "jdoe@campus.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@campus.edu", Password: "sup3rsecret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// disabled accounts cannot sign in
	users.users[resp.User.ID].IsActive = false
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "jdoe@campus.edu", Password: "sup3rsecret"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	resp := registerUser(t, svc, "jdoe", "jdoe@campus.edu")

	refreshed, err := svc.RefreshToken(context.Background(), resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Token.RefreshToken, refreshed.RefreshToken)

	// the old token was revoked by the rotation
	assert.True(t, tokens.tokens[resp.Token.RefreshToken].Revoked)
	_, err = svc.RefreshToken(context.Background(), resp.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	// an expired token is rejected
	tokens.tokens[refreshed.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.RefreshToken(context.Background(), refreshed.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	resp := registerUser(t, svc, "jdoe", "jdoe@campus.edu")

	require.NoError(t, svc.Logout(context.Background(), resp.Token.RefreshToken))
	assert.True(t, tokens.tokens[resp.Token.RefreshToken].Revoked)

	err := svc.Logout(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	first := registerUser(t, svc, "jdoe", "jdoe@campus.edu")

	// a second login opens a second session
	second, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jdoe@campus.edu",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), first.User.ID))

	assert.True(t, tokens.tokens[first.Token.RefreshToken].Revoked)
	assert.True(t, tokens.tokens[second.Token.RefreshToken].Revoked)

	_, err = svc.RefreshToken(context.Background(), first.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
