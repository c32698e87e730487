package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/student-mgmt-api/internal/models"
	"github.com/campuskit/student-mgmt-api/internal/repository"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type mockUserStore struct {
	user       *models.User
	findErr    error
	findByIDFn func(id string) (*models.User, error)
}

func (m *mockUserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

type mockTokenStore struct {
	sessions map[string]*models.RefreshSession
	saveErr  error
}

func (m *mockTokenStore) Save(ctx context.Context, session *models.RefreshSession) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.sessions == nil {
		m.sessions = make(map[string]*models.RefreshSession)
	}
	m.sessions[session.Token] = session
	return nil
}

func (m *mockTokenStore) Find(ctx context.Context, token string) (*models.RefreshSession, error) {
	session, ok := m.sessions[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	return session, nil
}

func (m *mockTokenStore) Revoke(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  30 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "test",
	}
}

func hashFor(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeStudent(t *testing.T) *models.User {
	return &models.User{
		ID:           "u1",
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		PasswordHash: hashFor(t, "secret123"),
		Role:         models.RoleStudent,
		Active:       true,
	}
}

func TestLoginSuccessIssuesTokenPair(t *testing.T) {
	users := &mockUserStore{user: activeStudent(t)}
	tokens := &mockTokenStore{}
	svc := NewAuthService(users, tokens, nil, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "u1", res.User.ID)
	assert.Contains(t, tokens.sessions, res.RefreshToken)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(&mockUserStore{user: activeStudent(t)}, &mockTokenStore{}, nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc := NewAuthService(&mockUserStore{findErr: sql.ErrNoRows}, &mockTokenStore{}, nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeStudent(t)
	user.Active = false
	svc := NewAuthService(&mockUserStore{user: user}, &mockTokenStore{}, nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	users := &mockUserStore{user: activeStudent(t)}
	tokens := &mockTokenStore{}
	svc := NewAuthService(users, tokens, nil, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, res.RefreshToken)
	assert.NotContains(t, tokens.sessions, login.RefreshToken)
	assert.Contains(t, tokens.sessions, res.RefreshToken)

	// Replaying the used token must fail.
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	users := &mockUserStore{user: activeStudent(t)}
	tokens := &mockTokenStore{}
	svc := NewAuthService(users, tokens, nil, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Contains(t, tokens.sessions, login.RefreshToken)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "u1"))
	assert.NotContains(t, tokens.sessions, login.RefreshToken)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(&mockUserStore{user: activeStudent(t)}, &mockTokenStore{}, nil, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	other := NewAuthService(&mockUserStore{}, &mockTokenStore{}, nil, nil, nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Minute,
	})
	_, err = other.ValidateToken(login.AccessToken)
	assert.Error(t, err)
}
