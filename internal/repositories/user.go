package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resume-optimizer/internal/models"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

type UserRepository interface {
	GetOrCreate(userID string, initialCredits int) (*models.User, error)
	FindByID(userID string) (*models.User, error)
	DeductCredit(userID string) error
	AddCredits(userID string, amount int) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetOrCreate returns the user record, creating it with the initial credit
// balance on first sight.
func (r *userRepository) GetOrCreate(userID string, initialCredits int) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", userID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user = models.User{
		ID:      userID,
		Credits: initialCredits,
		Plan:    "free",
	}
	if err := r.db.Create(&user).Error; err != nil {
		// Concurrent first request may have created it already.
		var existing models.User
		if ferr := r.db.Where("id = ?", userID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) FindByID(userID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// DeductCredit atomically spends one credit. Returns ErrInsufficientCredits
// when the balance is already zero.
func (r *userRepository) DeductCredit(userID string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND credits > 0", userID).
		Update("credits", gorm.Expr("credits - 1"))

	if result.Error != nil {
		return fmt.Errorf("failed to deduct credit: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrInsufficientCredits
	}

	return nil
}

func (r *userRepository) AddCredits(userID string, amount int) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount))

	if result.Error != nil {
		return fmt.Errorf("failed to add credits: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
