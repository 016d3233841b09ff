package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credo/api/internal/core/domain"
	"github.com/credo/api/internal/core/services"
)

type stubAuthService struct {
	signUpErr  error
	signInErr  error
	refreshErr error
	logoutErr  error

	accessToken  string
	refreshToken string

	logoutCalls int
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string) error {
	return s.signUpErr
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, string, error) {
	if s.signInErr != nil {
		return "", "", s.signInErr
	}
	return s.accessToken, s.refreshToken, nil
}

func (s *stubAuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	s.logoutCalls++
	return s.logoutErr
}

func (s *stubAuthService) RefreshAccessToken(ctx context.Context, userID uuid.UUID, token string) (string, error) {
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return s.accessToken, nil
}

type stubUserService struct {
	user *domain.User
	err  error
}

func (s *stubUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.user, s.err
}

func newTestRouter(t *testing.T, svc *stubAuthService, userSvc *stubUserService) (http.Handler, *services.TokenService, *services.TokenService) {
	t.Helper()

	accessSigner, err := services.NewTokenService(services.PurposeAccess, []byte("access-secret"), time.Minute)
	require.NoError(t, err)
	refreshSigner, err := services.NewTokenService(services.PurposeRefresh, []byte("refresh-secret"), time.Hour)
	require.NoError(t, err)

	authHandler := NewAuthHandler(svc, refreshSigner)
	userHandler := NewUserHandler(userSvc)
	return NewHandler(authHandler, userHandler, accessSigner), accessSigner, refreshSigner
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_SignIn(t *testing.T) {
	svc := &stubAuthService{accessToken: "access", refreshToken: "refresh"}
	router, _, _ := newTestRouter(t, svc, &stubUserService{})

	rec := postJSON(t, router, "/auth/signin", map[string]string{"email": "a@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenPairResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
}

func TestAuthHandler_SignIn_Unauthorized(t *testing.T) {
	svc := &stubAuthService{signInErr: domain.ErrUnauthorized}
	router, _, _ := newTestRouter(t, svc, &stubUserService{})

	rec := postJSON(t, router, "/auth/signin", map[string]string{"email": "a@x.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_SignUp(t *testing.T) {
	router, _, _ := newTestRouter(t, &stubAuthService{}, &stubUserService{})

	rec := postJSON(t, router, "/auth/signup", map[string]string{"email": "a@x.com", "password": "p1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAuthHandler_SignUp_Conflict(t *testing.T) {
	svc := &stubAuthService{signUpErr: domain.ErrEmailTaken}
	router, _, _ := newTestRouter(t, svc, &stubUserService{})

	rec := postJSON(t, router, "/auth/signup", map[string]string{"email": "a@x.com", "password": "p1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := &stubAuthService{accessToken: "new-access"}
	router, _, refreshSigner := newTestRouter(t, svc, &stubUserService{})

	token, _, err := refreshSigner.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, router, "/auth/refresh", map[string]string{"refresh_token": token})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp accessTokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "new-access", resp.AccessToken)
}

func TestAuthHandler_Refresh_GarbageToken(t *testing.T) {
	router, _, _ := newTestRouter(t, &stubAuthService{}, &stubUserService{})

	rec := postJSON(t, router, "/auth/refresh", map[string]string{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Refresh_AccessTokenRejected(t *testing.T) {
	router, accessSigner, _ := newTestRouter(t, &stubAuthService{}, &stubUserService{})

	// An access token presented where a refresh token belongs must fail.
	token, _, err := accessSigner.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, router, "/auth/refresh", map[string]string{"refresh_token": token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Refresh_Invalidated(t *testing.T) {
	svc := &stubAuthService{refreshErr: domain.ErrUnauthorized}
	router, _, refreshSigner := newTestRouter(t, svc, &stubUserService{})

	token, _, err := refreshSigner.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, router, "/auth/refresh", map[string]string{"refresh_token": token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Refresh_UserGone(t *testing.T) {
	svc := &stubAuthService{refreshErr: domain.ErrUserNotFound}
	router, _, refreshSigner := newTestRouter(t, svc, &stubUserService{})

	token, _, err := refreshSigner.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, router, "/auth/refresh", map[string]string{"refresh_token": token})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	router, _, refreshSigner := newTestRouter(t, svc, &stubUserService{})

	token, _, err := refreshSigner.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, router, "/auth/logout", map[string]string{"refresh_token": token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.logoutCalls)
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	svc := &stubAuthService{}
	router, _, _ := newTestRouter(t, svc, &stubUserService{})

	rec := postJSON(t, router, "/auth/logout", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.logoutCalls)
}

func TestAuthenticator_ProtectedRoute(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	router, accessSigner, refreshSigner := newTestRouter(t, &stubAuthService{}, &stubUserService{user: user})

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Refresh token in place of an access token.
	wrongPurpose, _, err := refreshSigner.Issue(user.ID)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+wrongPurpose)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid access token.
	token, _, err := accessSigner.Issue(user.ID)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, user.Email, got.Email)
}
