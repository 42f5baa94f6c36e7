package handler

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/joaoac/cryptofolio/internal/transport/httpapi/middleware"
)

// AuthHandler exchanges a pre-shared API key for a short-lived access token
type AuthHandler struct {
	apiKeyHash []byte
	jwtService *middleware.JWTService
}

// NewAuthHandler creates a new auth handler. apiKeyHash is a bcrypt hash of
// the accepted API key.
func NewAuthHandler(apiKeyHash string, jwtService *middleware.JWTService) *AuthHandler {
	return &AuthHandler{
		apiKeyHash: []byte(apiKeyHash),
		jwtService: jwtService,
	}
}

// TokenRequest represents the token exchange request
type TokenRequest struct {
	APIKey string `json:"api_key"`
}

// TokenResponse represents the token exchange response
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// IssueToken handles POST /auth/token
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.APIKey == "" {
		respondWithError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.apiKeyHash, []byte(req.APIKey)); err != nil {
		respondWithError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	token, err := h.jwtService.GenerateToken()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: 24 * 60 * 60,
	})
}
