package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a token does not resolve to a live
// session, whether it never existed, expired or was revoked.
var ErrSessionNotFound = errors.New("session not found")

// ErrOTPMismatch is returned when a one-time code does not match or expired
var ErrOTPMismatch = errors.New("otp mismatch")

const (
	sessionPrefix = "session:"
	otpPrefix     = "otp:"
	otpTTL        = 5 * time.Minute
)

// Store keeps login sessions and one-time codes in Redis so they survive
// process restarts and are shared across replicas. Sessions expire server
// side through key TTLs; there is no in-process state.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store with the given session lifetime
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// IssueSession creates a session for the user and returns the opaque token
func (s *Store) IssueSession(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	err := s.rdb.Set(ctx, sessionPrefix+token, strconv.FormatUint(uint64(userID), 10), s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// ResolveSession returns the user behind a token and refreshes its lifetime
func (s *Store) ResolveSession(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve session: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", val, err)
	}

	// Sliding expiration: activity keeps the session alive.
	if err := s.rdb.Expire(ctx, sessionPrefix+token, s.ttl).Err(); err != nil {
		return 0, fmt.Errorf("refresh session ttl: %w", err)
	}
	return uint(userID), nil
}

// RevokeSession deletes a session. Revoking an unknown token is not an error.
func (s *Store) RevokeSession(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// PutOTP stores a one-time code for the phone, replacing any previous one
func (s *Store) PutOTP(ctx context.Context, phone, code string) error {
	if err := s.rdb.Set(ctx, otpPrefix+phone, code, otpTTL).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// VerifyOTP checks and consumes the code for the phone. A code verifies at
// most once; GETDEL makes the check-and-burn atomic.
func (s *Store) VerifyOTP(ctx context.Context, phone, code string) error {
	val, err := s.rdb.GetDel(ctx, otpPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPMismatch
	}
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if val != code {
		return ErrOTPMismatch
	}
	return nil
}
