package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"referral-tracker/internal/auth"
	"referral-tracker/internal/models"
	"referral-tracker/internal/repository"
	"referral-tracker/internal/utils"
)

// Account is returned by signup and login
type Account struct {
	ID           uint   `json:"id"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referral_code"`
	Token        string `json:"token"`
}

// ReferralSummary is one entry of a profile's referral list
type ReferralSummary struct {
	ReferredPhone string `json:"referred_phone"`
	Purchased     bool   `json:"purchased"`
	Type          string `json:"type"`
}

// Profile is the authenticated user's view of their account
type Profile struct {
	ID           uint              `json:"id"`
	Phone        string            `json:"phone"`
	ReferralCode string            `json:"referral_code"`
	Referrals    []ReferralSummary `json:"referrals"`
}

// AccountService handles signup, login and profile lookups
type AccountService struct {
	users        CredentialStore
	referrals    ReferralLedger
	tokens       *auth.TokenService
	log          logrus.FieldLogger
	codeAttempts int
	hashCost     int
	newCode      func() (string, error)
}

// NewAccountService creates a new AccountService. codeAttempts bounds how
// many referral codes are drawn before signup gives up on collisions.
func NewAccountService(users CredentialStore, referrals ReferralLedger, tokens *auth.TokenService, codeAttempts int, log logrus.FieldLogger) *AccountService {
	if codeAttempts <= 0 {
		codeAttempts = 1
	}
	return &AccountService{
		users:        users,
		referrals:    referrals,
		tokens:       tokens,
		log:          log.WithField("service", "account"),
		codeAttempts: codeAttempts,
		hashCost:     bcrypt.DefaultCost,
		newCode:      utils.GenerateReferralCode,
	}
}

// Signup registers a new user and returns it with a fresh token
func (s *AccountService) Signup(ctx context.Context, phone, password string) (*Account, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, newError(ErrValidation, "Phone and password are required.")
	}

	exists, err := s.users.PhoneExists(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(ErrConflict, "User already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, newError(ErrValidation, "Password is too long.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Phone:        phone,
		Password:     string(hash),
		ReferralCode: code,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "User already exists.")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "referral_code": code}).Info("user signed up")
	return &Account{ID: user.ID, Phone: user.Phone, ReferralCode: user.ReferralCode, Token: token}, nil
}

// Login checks phone and password and issues a fresh token
func (s *AccountService) Login(ctx context.Context, phone, password string) (*Account, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, newError(ErrValidation, "Phone and password are required.")
	}

	user, err := s.users.GetUserByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Debug("password mismatch")
		return nil, newError(ErrUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Account{ID: user.ID, Phone: user.Phone, ReferralCode: user.ReferralCode, Token: token}, nil
}

// GetProfile returns the token holder's account and referrals
func (s *AccountService) GetProfile(ctx context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, newError(ErrUnauthorized, "Token is missing!")
	}
	userID, err := verifyToken(s.tokens, s.log, token)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Token is invalid or expired!")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found!")
	}
	if err != nil {
		return nil, err
	}

	referrals, err := s.referrals.GetReferralsByReferrer(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:           user.ID,
		Phone:        user.Phone,
		ReferralCode: user.ReferralCode,
		Referrals:    make([]ReferralSummary, 0, len(referrals)),
	}
	for _, r := range referrals {
		profile.Referrals = append(profile.Referrals, ReferralSummary{
			ReferredPhone: r.ReferredPhone,
			Purchased:     r.Purchased,
			Type:          string(r.Type),
		})
	}
	return profile, nil
}

// uniqueReferralCode draws codes until one is unused or attempts run out
func (s *AccountService) uniqueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < s.codeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		taken, err := s.users.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		s.log.WithField("attempt", i+1).Warn("referral code collision")
	}
	return "", fmt.Errorf("no unused referral code after %d attempts", s.codeAttempts)
}

// verifyToken collapses expired and invalid tokens into one failure after
// logging which of the two it was.
func verifyToken(tokens *auth.TokenService, log logrus.FieldLogger, token string) (uint, error) {
	userID, err := tokens.Verify(token)
	if err != nil {
		log.WithField("expired", errors.Is(err, auth.ErrTokenExpired)).Debug("token rejected")
		return 0, err
	}
	return userID, nil
}
