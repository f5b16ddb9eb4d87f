package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"referral-tracker/internal/auth"
	"referral-tracker/internal/services"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	accountService *services.AccountService
	log            logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accountService *services.AccountService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		log:            log,
	}
}

type credentialsRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Signup registers a new user
// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	account, err := h.accountService.Signup(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Signup successful.",
		"id":            account.ID,
		"phone":         account.Phone,
		"referral_code": account.ReferralCode,
		"token":         account.Token,
	})
}

// Login exchanges phone and password for a token
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	account, err := h.accountService.Login(c.Request.Context(), req.Phone, req.Password)
	if errors.Is(err, services.ErrUnauthorized) {
		respondErrorStatus(c, h.log, err, http.StatusUnauthorized)
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Logout is a no-op; tokens are discarded client side
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully.",
	})
}

// Protected returns the token holder's profile and referrals
// GET /protected
func (h *AuthHandler) Protected(c *gin.Context) {
	token := auth.TokenFromHeader(c.GetHeader("Authorization"))
	profile, err := h.accountService.GetProfile(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
