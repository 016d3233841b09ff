package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/credo/api/internal/core/domain"
	"github.com/credo/api/internal/core/ports"
)

type AuthHandler struct {
	authService   ports.AuthService
	refreshSigner ports.TokenSigner
}

func NewAuthHandler(authService ports.AuthService, refreshSigner ports.TokenSigner) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		refreshSigner: refreshSigner,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	if err := h.authService.SignUp(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "Sign up failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	accessToken, refreshToken, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Sign in failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Refresh mints a new access token. The caller's identity comes from the
// presented refresh token itself; the stored ledger record stays the final
// authority on whether the refresh is allowed.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.identifyRefreshCaller(w, r)
	if !ok {
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(r.Context(), userID, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrUnauthorized):
			http.Error(w, "Refresh token invalidated", http.StatusUnauthorized)
		default:
			http.Error(w, "Refresh failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: accessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.identifyRefreshCaller(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// identifyRefreshCaller decodes the body and verifies the refresh token
// with the refresh signer. All verification failures look the same to the
// client.
func (h *AuthHandler) identifyRefreshCaller(w http.ResponseWriter, r *http.Request) (refreshRequest, uuid.UUID, bool) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		http.Error(w, "Missing refresh token", http.StatusBadRequest)
		return req, uuid.Nil, false
	}

	userID, err := h.refreshSigner.Verify(req.RefreshToken)
	if err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return req, uuid.Nil, false
	}
	return req, userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
