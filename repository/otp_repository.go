package repository

import (
	"context"
	"fmt"

	"tiffin-api/apperrors"
	"tiffin-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPRepository keeps OTP challenges in the database, one per phone.
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository.
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Save stores the challenge, replacing any pending one for the same phone.
func (r *OTPRepository) Save(ctx context.Context, c *models.OTPChallenge) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(c).Error
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) Find(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	var c models.OTPChallenge
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, notFound(err, apperrors.ErrOTPNotFound)
	}
	return &c, nil
}

func (r *OTPRepository) Delete(ctx context.Context, phone string) error {
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).Delete(&models.OTPChallenge{}).Error; err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// Consume deletes the challenge only if it still carries code. It reports
// whether this call was the one that removed it.
func (r *OTPRepository) Consume(ctx context.Context, phone, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("phone = ? AND code = ?", phone, code).
		Delete(&models.OTPChallenge{})
	if res.Error != nil {
		return false, fmt.Errorf("consume otp: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
