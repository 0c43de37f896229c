package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests. It honors the same
// TTLs as the Redis store, checked lazily on read.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]memoryEntry
	otps       map[string]memoryEntry
	sessionTTL time.Duration
	otpTTL     time.Duration

	// now is swappable so tests can step time past the TTLs.
	now func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore(sessionTTL, otpTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]memoryEntry),
		otps:       make(map[string]memoryEntry),
		sessionTTL: sessionTTL,
		otpTTL:     otpTTL,
		now:        time.Now,
	}
}

// SetClock replaces the store's time source.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Create(ctx context.Context, sess *Session) error {
	sess.ID = uuid.NewString()
	now := s.clock().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	return s.put(sess)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.clock().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	var sess Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.clock().UTC()
	return s.put(sess)
}

func (s *MemoryStore) put(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{
		data:      data,
		expiresAt: s.now().Add(s.sessionTTL),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.otps, id)
	return nil
}

func (s *MemoryStore) SetOTP(ctx context.Context, id string, record *OTPRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[id] = memoryEntry{
		data:      data,
		expiresAt: s.now().Add(s.otpTTL),
	}
	return nil
}

func (s *MemoryStore) GetOTP(ctx context.Context, id string) (*OTPRecord, error) {
	s.mu.RLock()
	entry, ok := s.otps[id]
	s.mu.RUnlock()

	if !ok || s.clock().After(entry.expiresAt) {
		return nil, ErrOTPNotFound
	}

	var record OTPRecord
	if err := json.Unmarshal(entry.data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *MemoryStore) DeleteOTP(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.otps, id)
	return nil
}

func (s *MemoryStore) clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}
