package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/models"

	"github.com/redis/go-redis/v9"
)

// DefaultOTPTTL is how long a sent code stays usable.
const DefaultOTPTTL = 5 * time.Minute

// OTPStore holds at most one pending challenge per phone.
type OTPStore interface {
	Save(ctx context.Context, c *models.OTPChallenge) error
	// Find returns apperrors.ErrOTPNotFound when no challenge is pending.
	Find(ctx context.Context, phone string) (*models.OTPChallenge, error)
	Delete(ctx context.Context, phone string) error
	// Consume removes the challenge if it still carries code and reports
	// whether this call removed it.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

// CodeGenerator produces OTP codes.
type CodeGenerator func() (string, error)

// StaticCode always hands out the same code. Useful for demos, where OTPs
// are returned in the response instead of being delivered by SMS.
func StaticCode(code string) CodeGenerator {
	return func() (string, error) { return code, nil }
}

// RandomCode returns a uniformly random 6-digit code.
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

const otpKeyPrefix = "otp:"

// otpGrace keeps expired entries in redis a little longer than their
// validity so a late verify reports "expired" rather than "not found".
const otpGrace = time.Minute

// RedisOTPStore keeps challenges in redis under otp:<phone>.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore creates a redis-backed OTP store.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

type redisChallenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *RedisOTPStore) Save(ctx context.Context, c *models.OTPChallenge) error {
	payload, err := json.Marshal(redisChallenge{Code: c.Code, ExpiresAt: c.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	ttl := time.Until(c.ExpiresAt) + otpGrace
	if ttl < otpGrace {
		ttl = otpGrace
	}
	if err := s.client.Set(ctx, otpKeyPrefix+c.Phone, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) Find(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	data, err := s.client.Get(ctx, otpKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load otp: %w", err)
	}
	var rc redisChallenge
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &models.OTPChallenge{Phone: phone, Code: rc.Code, ExpiresAt: rc.ExpiresAt}, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, otpKeyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// consumeScript deletes the challenge only while it still carries the
// code, so the compare and the delete are one atomic step.
var consumeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return 0
end
if cjson.decode(v).code ~= ARGV[1] then
  return 0
end
return redis.call('DEL', KEYS[1])
`)

// Consume reports true only for the caller whose script run removed the
// key.
func (s *RedisOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	removed, err := consumeScript.Run(ctx, s.client, []string{otpKeyPrefix + phone}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return removed == 1, nil
}
