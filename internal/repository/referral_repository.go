package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"referral-tracker/internal/models"
)

var (
	// ErrReferralExists means the referrer already referred this phone.
	ErrReferralExists = errors.New("referral already exists for this referrer")
	// ErrPhoneAlreadyReferred means some referrer already referred this phone.
	ErrPhoneAlreadyReferred = errors.New("phone already referred")
)

// ReferralRepository is the ledger of submitted referrals
type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateReferral inserts referral after checking that neither its referrer
// nor anyone else has referred the same phone. Checks and insert share one
// transaction; the unique index on referred_phone covers concurrent inserts.
func (r *ReferralRepository) CreateReferral(ctx context.Context, referral *models.Referral) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Referral{}).
			Where("referrer_id = ? AND referred_phone = ?", referral.ReferrerID, referral.ReferredPhone).
			Count(&count).Error
		if err != nil {
			return translate(err, "check referrer duplicate")
		}
		if count > 0 {
			return ErrReferralExists
		}

		err = tx.Model(&models.Referral{}).
			Where("referred_phone = ?", referral.ReferredPhone).
			Count(&count).Error
		if err != nil {
			return translate(err, "check phone duplicate")
		}
		if count > 0 {
			return ErrPhoneAlreadyReferred
		}

		if err := tx.Create(referral).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPhoneAlreadyReferred
			}
			return translate(err, "create referral")
		}
		return nil
	})
}

// GetReferralsByReferrer returns all referrals submitted by referrerID
func (r *ReferralRepository) GetReferralsByReferrer(ctx context.Context, referrerID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("id ASC").
		Find(&referrals).Error
	if err != nil {
		return nil, translate(err, "get referrals by referrer")
	}
	return referrals, nil
}

// MarkPurchased flags every referral whose referred phone is in phones.
// Phones with no referral are ignored.
func (r *ReferralRepository) MarkPurchased(ctx context.Context, phones []string) (int64, error) {
	if len(phones) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("referred_phone IN ?", phones).
		Update("purchased", true)
	if result.Error != nil {
		return 0, translate(result.Error, "mark purchased")
	}
	return result.RowsAffected, nil
}

// ListReferrals returns every referral ordered by ID
func (r *ReferralRepository) ListReferrals(ctx context.Context) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&referrals).Error; err != nil {
		return nil, translate(err, "list referrals")
	}
	return referrals, nil
}

// GetReferralStats aggregates referrerID's referrals
func (r *ReferralRepository) GetReferralStats(ctx context.Context, referrerID uint) (*models.ReferralStats, error) {
	var stats models.ReferralStats
	err := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN purchased THEN 1 ELSE 0 END), 0) AS purchased, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS buy, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS sell",
			models.ReferralTypeBuy, models.ReferralTypeSell,
		).
		Where("referrer_id = ?", referrerID).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err, "get referral stats")
	}
	return &stats, nil
}
