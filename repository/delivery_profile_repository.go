package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiffin-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryProfileRepository stores partners' online flag and location.
type DeliveryProfileRepository interface {
	// Find returns the partner's profile, or an offline profile with no
	// location when none was ever written.
	Find(ctx context.Context, userID uint) (*models.DeliveryProfile, error)
	SetOnline(ctx context.Context, userID uint, online bool) (*models.DeliveryProfile, error)
	SetLocation(ctx context.Context, userID uint, loc models.Location, at time.Time) (*models.DeliveryProfile, error)
}

type deliveryProfileRepository struct {
	db *gorm.DB
}

// NewDeliveryProfileRepository creates a new delivery profile repository.
func NewDeliveryProfileRepository(db *gorm.DB) DeliveryProfileRepository {
	return &deliveryProfileRepository{db: db}
}

func (r *deliveryProfileRepository) Find(ctx context.Context, userID uint) (*models.DeliveryProfile, error) {
	return r.find(r.db.WithContext(ctx), userID)
}

func (r *deliveryProfileRepository) find(db *gorm.DB, userID uint) (*models.DeliveryProfile, error) {
	var p models.DeliveryProfile
	err := db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DeliveryProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find delivery profile: %w", err)
	}
	return &p, nil
}

func (r *deliveryProfileRepository) SetOnline(ctx context.Context, userID uint, online bool) (*models.DeliveryProfile, error) {
	return r.upsert(ctx, &models.DeliveryProfile{UserID: userID, IsOnline: online}, "is_online")
}

func (r *deliveryProfileRepository) SetLocation(ctx context.Context, userID uint, loc models.Location, at time.Time) (*models.DeliveryProfile, error) {
	return r.upsert(ctx, &models.DeliveryProfile{
		UserID:            userID,
		Lat:               &loc.Lat,
		Lng:               &loc.Lng,
		LocationUpdatedAt: &at,
	}, "lat", "lng", "location_updated_at")
}

// upsert inserts p, or on an existing row overwrites only columns.
func (r *deliveryProfileRepository) upsert(ctx context.Context, p *models.DeliveryProfile, columns ...string) (*models.DeliveryProfile, error) {
	var out *models.DeliveryProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
		}).Create(p).Error
		if err != nil {
			return fmt.Errorf("save delivery profile: %w", err)
		}
		out, err = r.find(tx, p.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
