package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http/response"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Token(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	jwtService jwt.Service
	apiKey     string
}

// NewAuthHandler exchanges the static bridge API key for a short-lived
// bearer token. The bridge has no user accounts; the key is the single
// credential operators hold.
func NewAuthHandler(jwtService jwt.Service, apiKey string) AuthHandler {
	return &authHandlerImpl{
		jwtService: jwtService,
		apiKey:     apiKey,
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Token implements AuthHandler.
func (h *authHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		response.Unauthorized(w, "Invalid API key")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken("bridge-admin")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	})
}
