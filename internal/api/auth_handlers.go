package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/pterohub-shop/internal/auth"
)

// AuthHandlers handles admin session endpoints.
type AuthHandlers struct {
	admins     *auth.AdminService
	jwtService *auth.JWTService
}

func NewAuthHandlers(admins *auth.AdminService, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		admins:     admins,
		jwtService: jwtService,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ProfileResponse is the admin account without its password hash.
type ProfileResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	StoreName string `json:"store_name"`
}

func profileResponse(a auth.Admin) ProfileResponse {
	return ProfileResponse{
		Username:  a.Username,
		Email:     a.Email,
		Phone:     a.Phone,
		StoreName: a.StoreName,
	}
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.admins.Login(req.Username, req.Password); err != nil {
		respondError(w, err)
		return
	}

	accessToken, expiresAt, err := h.jwtService.GenerateAccessToken(req.Username)
	if err != nil {
		respondJSONError(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	refreshToken, _, err := h.jwtService.GenerateRefreshToken(req.Username)
	if err != nil {
		respondJSONError(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	username, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondJSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	accessToken, expiresAt, err := h.jwtService.GenerateAccessToken(username)
	if err != nil {
		respondJSONError(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	})
}

// Logout exists for the dashboard's sake; tokens are stateless, so the
// client just discards them.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.admins.ChangePassword(r.Context(), req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *AuthHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, profileResponse(h.admins.Profile()))
}

func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd auth.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	admin, err := h.admins.UpdateProfile(r.Context(), upd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse(admin))
}
