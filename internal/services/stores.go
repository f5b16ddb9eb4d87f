package services

import (
	"context"

	"referral-tracker/internal/models"
)

// CredentialStore persists users. Implemented by repository.UserRepository.
type CredentialStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ReferralLedger persists referrals. Implemented by repository.ReferralRepository.
type ReferralLedger interface {
	CreateReferral(ctx context.Context, referral *models.Referral) error
	GetReferralsByReferrer(ctx context.Context, referrerID uint) ([]models.Referral, error)
	MarkPurchased(ctx context.Context, phones []string) (int64, error)
	ListReferrals(ctx context.Context) ([]models.Referral, error)
	GetReferralStats(ctx context.Context, referrerID uint) (*models.ReferralStats, error)
}
