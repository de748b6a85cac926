package repository

import (
	"context"
	"errors"
	"fmt"

	"tiffin-api/apperrors"
	"tiffin-api/models"

	"gorm.io/gorm"
)

// UserRepository defines data access for users.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// FindByLogin looks a user up by email, falling back to phone.
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
	// CreateUnique inserts the user unless the email or phone is already taken.
	CreateUnique(ctx context.Context, user *models.User) error
	// FindOrCreateByPhone returns the user owning phone, creating one with
	// build when none exists. build receives the current user count.
	FindOrCreateByPhone(ctx context.Context, phone string, build func(userCount int64) *models.User) (*models.User, bool, error)
	List(ctx context.Context) ([]models.User, error)
	ToggleActive(ctx context.Context, id uint) (*models.User, error)
	CountByRole(ctx context.Context, role models.UserRole, activeOnly bool) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND email <> ''", identifier).
		Or("phone = ?", identifier).
		Order("id asc").
		First(&user).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) CreateUnique(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		q := tx.Model(&models.User{}).Where("phone = ?", user.Phone)
		if user.Email != "" {
			q = q.Or("email = ?", user.Email)
		}
		if err := q.Count(&taken).Error; err != nil {
			return fmt.Errorf("check existing user: %w", err)
		}
		if taken > 0 {
			return apperrors.ErrUserExists
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

func (r *userRepository) FindOrCreateByPhone(ctx context.Context, phone string, build func(userCount int64) *models.User) (*models.User, bool, error) {
	var (
		user    models.User
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("phone = ?", phone).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find user by phone: %w", err)
		}

		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		fresh := build(count)
		fresh.Phone = phone
		if err := tx.Create(fresh).Error; err != nil {
			return fmt.Errorf("create phone user: %w", err)
		}
		user = *fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &user, created, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ToggleActive(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
		user.IsActive = !user.IsActive
		if err := tx.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
			return fmt.Errorf("toggle user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role models.UserRole, activeOnly bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s users: %w", role, err)
	}
	return count, nil
}

// notFound translates gorm's not-found into the given domain error and wraps
// anything else.
func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return fmt.Errorf("query: %w", err)
}
