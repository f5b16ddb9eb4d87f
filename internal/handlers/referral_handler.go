package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"referral-tracker/internal/auth"
	"referral-tracker/internal/services"
)

type ReferralHandler struct {
	referralService *services.ReferralService
	log             logrus.FieldLogger
}

func NewReferralHandler(referralService *services.ReferralService, log logrus.FieldLogger) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		log:             log,
	}
}

// SendReferral records a referral for the token holder
// POST /send_referral
func (h *ReferralHandler) SendReferral(c *gin.Context) {
	var req struct {
		ReferredPhone string `json:"referred_phone"`
		ReferralType  string `json:"referral_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	token := auth.TokenFromHeader(c.GetHeader("Authorization"))
	receipt, err := h.referralService.CreateReferral(c.Request.Context(), token, req.ReferredPhone, req.ReferralType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// UpdatePurchases marks referrals for a comma separated phone list as purchased
// POST /update_purchases
func (h *ReferralHandler) UpdatePurchases(c *gin.Context) {
	var req struct {
		PhoneNumbers string `json:"phone_numbers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	updated, err := h.referralService.MarkPurchased(c.Request.Context(), req.PhoneNumbers)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase status updated for referred customers.",
		"updated": updated,
	})
}

// GetReferralStats returns referral counts for the authenticated user
// GET /referral_stats
func (h *ReferralHandler) GetReferralStats(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"message": "Token is missing!"})
		return
	}

	stats, err := h.referralService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
