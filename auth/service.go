package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/models"
	"tiffin-api/repository"

	"go.uber.org/zap"
)

// Result is a successful authentication: the user and a fresh token.
type Result struct {
	User      *models.User
	Token     string
	IsNewUser bool
}

// SignupInput carries the fields of a password signup.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Service authenticates users by password or OTP and issues session tokens.
type Service struct {
	users  repository.UserRepository
	otps   OTPStore
	hasher PasswordHasher
	tokens *TokenService
	log    *zap.Logger

	codes  CodeGenerator
	otpTTL time.Duration
	now    func() time.Time
}

// NewService creates the credential service with random OTP codes and
// DefaultOTPTTL.
func NewService(users repository.UserRepository, otps OTPStore, hasher PasswordHasher, tokens *TokenService, log *zap.Logger) *Service {
	return &Service{
		users:  users,
		otps:   otps,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		codes:  RandomCode,
		otpTTL: DefaultOTPTTL,
		now:    time.Now,
	}
}

// WithOTP sets the code generator and validity window.
func (s *Service) WithOTP(codes CodeGenerator, ttl time.Duration) *Service {
	if codes != nil {
		s.codes = codes
	}
	if ttl > 0 {
		s.otpTTL = ttl
	}
	return s
}

// WithClock replaces the clock used for OTP expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SendOTP creates a challenge for phone, replacing any pending one, and
// returns the code.
func (s *Service) SendOTP(ctx context.Context, phone string) (string, error) {
	if phone == "" {
		return "", fmt.Errorf("phone number is required: %w", apperrors.ErrInvalidInput)
	}
	code, err := s.codes()
	if err != nil {
		return "", err
	}
	challenge := &models.OTPChallenge{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if err := s.otps.Save(ctx, challenge); err != nil {
		return "", err
	}
	s.log.Info("otp issued", zap.String("phone", phone), zap.Time("expires_at", challenge.ExpiresAt))
	return code, nil
}

// AuthenticateByOTP verifies code for phone and logs the owner in, creating
// a customer account on the first successful verification of a new phone.
func (s *Service) AuthenticateByOTP(ctx context.Context, phone, code string) (*Result, error) {
	if phone == "" || code == "" {
		return nil, fmt.Errorf("phone and OTP are required: %w", apperrors.ErrInvalidInput)
	}

	challenge, err := s.otps.Find(ctx, phone)
	if err != nil {
		return nil, err
	}
	if challenge.IsExpired(s.now()) {
		if err := s.otps.Delete(ctx, phone); err != nil {
			s.log.Warn("purge expired otp", zap.String("phone", phone), zap.Error(err))
		}
		return nil, apperrors.ErrOTPExpired
	}
	if challenge.Code != code {
		return nil, apperrors.ErrOTPMismatch
	}
	consumed, err := s.otps.Consume(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Someone else verified the same code first.
		return nil, apperrors.ErrOTPNotFound
	}

	user, created, err := s.users.FindOrCreateByPhone(ctx, phone, func(userCount int64) *models.User {
		return &models.User{
			Name:     fmt.Sprintf("User %d", userCount+1),
			Role:     models.RoleCustomer,
			IsActive: true,
		}
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("user created from otp", zap.Uint("user_id", user.ID), zap.String("name", user.Name))
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Token: token, IsNewUser: created}, nil
}

// AuthenticateByPassword logs in by email (or phone) and password. When
// roles is non-empty, users of other roles are rejected as if the
// credentials were wrong.
func (s *Service) AuthenticateByPassword(ctx context.Context, identifier, password string, roles ...models.UserRole) (*Result, error) {
	user, err := s.users.FindByLogin(ctx, identifier)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Info("login", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &Result{User: user, Token: token}, nil
}

// Signup registers a customer. Email and phone must be unused.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Result, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.users.CreateUnique(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Info("signup", zap.Uint("user_id", user.ID))
	return &Result{User: user, Token: token, IsNewUser: true}, nil
}

// Profile returns the stored user behind a session.
func (s *Service) Profile(ctx context.Context, session *Session) (*models.User, error) {
	if err := Authorize(session); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, session.UserID)
}
