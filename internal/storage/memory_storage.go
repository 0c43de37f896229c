package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-process DocumentStorage used by tests.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string]memoryObject
}

type memoryObject struct {
	content     []byte
	contentType string
	modifiedAt  time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

func (m *MemoryStorage) PutStaged(ctx context.Context, sessionID, slot, filename, contentType string, body io.Reader) (*StoredObject, error) {
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s%s/%s/%s%s", stagingPrefix, sessionID, slot, uuid.NewString(), ext)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{
		content:     content,
		contentType: contentType,
		modifiedAt:  time.Now(),
	}
	return &StoredObject{Key: key, URL: "memory://" + key}, nil
}

func (m *MemoryStorage) Promote(ctx context.Context, stagedKey string, merchantID uint) (*StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[stagedKey]
	if !ok {
		return nil, fmt.Errorf("staged object %s not found", stagedKey)
	}

	key := fmt.Sprintf("%s%d/%s", documentsPrefix, merchantID, path.Base(stagedKey))
	m.objects[key] = obj
	delete(m.objects, stagedKey)

	return &StoredObject{Key: key, URL: "memory://" + key}, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.objects, key)
	}
	return nil
}

func (m *MemoryStorage) ListStagedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key, obj := range m.objects {
		if strings.HasPrefix(key, stagingPrefix) && obj.modifiedAt.Before(cutoff) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Exists reports whether a key is present. Test helper.
func (m *MemoryStorage) Exists(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Keys returns every stored key. Test helper.
func (m *MemoryStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	return keys
}

// Touch backdates an object's modification time. Test helper.
func (m *MemoryStorage) Touch(key string, modifiedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.objects[key]; ok {
		obj.modifiedAt = modifiedAt
		m.objects[key] = obj
	}
}
