package repository

import (
	"context"

	"gorm.io/gorm"

	"referral-tracker/internal/models"
)

// UserRepository persists user credentials
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user and fills in its ID
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "get user by id")
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by phone number
func (r *UserRepository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err, "get user by phone")
	}
	return &user, nil
}

// PhoneExists reports whether a user is registered with phone
func (r *UserRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone = ?", phone)
}

// ReferralCodeExists reports whether code is already assigned to a user
func (r *UserRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, "referral_code = ?", code)
}

// ListUsers returns every user ordered by ID
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&count).Error
	if err != nil {
		return false, translate(err, "count users")
	}
	return count > 0, nil
}
