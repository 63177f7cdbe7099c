package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/auth"
	"github.com/router-for-me/calculator-api/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// AuthHandler serves login and identity endpoints.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

// loginRequest is the credential payload. Empty values fail as bad credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondBindError(c, errBind, "invalid json")
		return
	}

	token, errLogin := h.auth.Login(c.Request.Context(), body.Username, body.Password)
	if errLogin != nil {
		if errors.Is(errLogin, auth.ErrInvalidCredentials) {
			metrics.RecordLogin("rejected")
			RespondUnauthorized(c, MessageInvalidCredentials)
			return
		}
		metrics.RecordLogin("error")
		log.WithError(errLogin).Error("auth: login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	metrics.RecordLogin("success")
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int64(h.auth.TTL().Seconds()),
	})
}

// Me returns the authenticated user's public record.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, MessageUnauthorized)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}
