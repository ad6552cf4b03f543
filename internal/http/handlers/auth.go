package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claireundgeorge/accessible-site/internal/http/response"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/cms/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	accessToken, expiresAt, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
		"expires_at":   expiresAt.UTC(),
	})
}
