package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rapex-ph/onboarding-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOrphanedDocuments(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewMemoryStorage()
	s := NewCleanupScheduler(objects, time.Hour)

	stale, err := objects.PutStaged(ctx, "abandoned-session", "business_permit", "permit.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	objects.Touch(stale.Key, time.Now().Add(-3*time.Hour))

	fresh, err := objects.PutStaged(ctx, "live-session", "business_permit", "permit.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	require.NoError(t, s.SweepOrphanedDocuments(ctx))

	assert.False(t, objects.Exists(stale.Key), "stale staged object should be swept")
	assert.True(t, objects.Exists(fresh.Key), "fresh staged object must survive")
}

func TestSweepOrphanedDocumentsNothingToDo(t *testing.T) {
	objects := storage.NewMemoryStorage()
	s := NewCleanupScheduler(objects, time.Hour)

	require.NoError(t, s.SweepOrphanedDocuments(context.Background()))
	assert.Empty(t, objects.Keys())
}
