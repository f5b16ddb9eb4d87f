package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"referral-tracker/internal/auth"
	"referral-tracker/internal/models"
	"referral-tracker/internal/repository"
)

// ReferralLinkPlaceholder is returned until a messaging integration exists
const ReferralLinkPlaceholder = "-"

// ReferralReceipt is returned after a referral is recorded
type ReferralReceipt struct {
	Message      string `json:"message"`
	ReferralLink string `json:"referral_link"`
}

// ReferralStatsReport adds the conversion rate to raw referral counts
type ReferralStatsReport struct {
	models.ReferralStats
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type ReferralService struct {
	referrals ReferralLedger
	tokens    *auth.TokenService
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewReferralService(referrals ReferralLedger, tokens *auth.TokenService, log logrus.FieldLogger) *ReferralService {
	return &ReferralService{
		referrals: referrals,
		tokens:    tokens,
		log:       log.WithField("service", "referral"),
		now:       time.Now,
	}
}

// CreateReferral records that the token holder referred referredPhone
func (s *ReferralService) CreateReferral(ctx context.Context, token, referredPhone, referralType string) (*ReferralReceipt, error) {
	referredPhone = strings.TrimSpace(referredPhone)
	referralType = strings.TrimSpace(referralType)

	var referrerID uint
	if token != "" {
		if id, err := verifyToken(s.tokens, s.log, token); err == nil {
			referrerID = id
		}
	}
	if referredPhone == "" || referralType == "" || referrerID == 0 {
		return nil, newError(ErrValidation, "Referred phone number, referral type, and valid token are required.")
	}

	typ := models.ReferralType(referralType)
	if !typ.Valid() {
		return nil, newError(ErrValidation, "Referral type must be Buy or Sell.")
	}

	referral := &models.Referral{
		ReferrerID:    referrerID,
		ReferredPhone: referredPhone,
		Type:          typ,
		Purchased:     false,
		Timestamp:     s.now().UTC(),
	}

	err := s.referrals.CreateReferral(ctx, referral)
	switch {
	case errors.Is(err, repository.ErrReferralExists):
		return nil, newError(ErrConflict, "Referral already exists for this phone number.")
	case errors.Is(err, repository.ErrPhoneAlreadyReferred):
		return nil, newError(ErrConflict, "This phone number has already been referred by someone else.")
	case err != nil:
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"referral_id": referral.ID,
		"referrer_id": referrerID,
		"type":        typ,
	}).Info("referral created")

	return &ReferralReceipt{Message: "Referral sent.", ReferralLink: ReferralLinkPlaceholder}, nil
}

// MarkPurchased flags referrals for every phone in the comma separated
// phoneList. Phones without a referral are skipped silently.
func (s *ReferralService) MarkPurchased(ctx context.Context, phoneList string) (int64, error) {
	phones := ParsePhoneList(phoneList)
	if len(phones) == 0 {
		return 0, newError(ErrValidation, "Phone numbers are required.")
	}

	updated, err := s.referrals.MarkPurchased(ctx, phones)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"requested": len(phones),
		"updated":   updated,
	}).Info("purchase status updated")
	return updated, nil
}

// GetStats summarizes referrerID's referrals
func (s *ReferralService) GetStats(ctx context.Context, referrerID uint) (*ReferralStatsReport, error) {
	stats, err := s.referrals.GetReferralStats(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	report := &ReferralStatsReport{ReferralStats: *stats, ConversionRate: decimal.Zero}
	if stats.Total > 0 {
		report.ConversionRate = decimal.NewFromInt(stats.Purchased).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(stats.Total)).
			Round(2)
	}
	return report, nil
}

// ParsePhoneList splits a comma separated list, trimming entries and
// dropping blanks and repeats while keeping first-seen order.
func ParsePhoneList(list string) []string {
	var phones []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(list, ",") {
		phone := strings.TrimSpace(part)
		if phone == "" {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}
	return phones
}
