package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rapex-ph/onboarding-backend/pkg/logger"
)

const (
	sessionKeyPrefix = "merchant_registration:"
	otpKeyPrefix     = "registration_otp:"
)

// RedisStore keeps sessions in Redis. Session and OTP records live under
// separate keys so the code can expire on its own 10 minute clock while
// the session keeps its full hour.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	otpTTL     time.Duration
}

func NewRedisStore(client *redis.Client, sessionTTL, otpTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		sessionTTL: sessionTTL,
		otpTTL:     otpTTL,
	}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
func otpKey(id string) string     { return otpKeyPrefix + id }

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	sess.ID = uuid.NewString()
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	if err := s.write(ctx, sess); err != nil {
		return err
	}

	logger.Debug("Registration session created", map[string]interface{}{
		"session_id": sess.ID,
		"ttl":        s.sessionTTL.String(),
	})
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.write(ctx, sess)
}

func (s *RedisStore) write(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id), otpKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	logger.Debug("Registration session deleted", map[string]interface{}{
		"session_id": id,
	})
	return nil
}

func (s *RedisStore) SetOTP(ctx context.Context, id string, record *OTPRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode otp record: %w", err)
	}
	if err := s.client.Set(ctx, otpKey(id), data, s.otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to write otp record: %w", err)
	}
	return nil
}

func (s *RedisStore) GetOTP(ctx context.Context, id string) (*OTPRecord, error) {
	data, err := s.client.Get(ctx, otpKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read otp record: %w", err)
	}

	var record OTPRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode otp record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) DeleteOTP(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, otpKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete otp record: %w", err)
	}
	return nil
}
