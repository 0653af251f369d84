package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feichai0017/ocr-review/internal/models"
	"github.com/feichai0017/ocr-review/internal/review"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

type nopExtractor struct{}

func (nopExtractor) Extract(context.Context, []models.SelectedFile) ([]models.ExtractionResult, error) {
	return nil, nil
}

func newTestManager() *Manager {
	log := logger.NewTestLogger()
	return NewManager(func() *review.Panel { return review.NewPanel(nopExtractor{}, log) }, log)
}

func TestManager_GetCreatesAndReuses(t *testing.T) {
	m := newTestManager()

	id, p := m.Get("")
	assert.NotEmpty(t, id)
	assert.NotNil(t, p)

	sameID, same := m.Get(id)
	assert.Equal(t, id, sameID)
	assert.Same(t, p, same)

	otherID, other := m.Get("unknown-id")
	assert.NotEqual(t, "unknown-id", otherID)
	assert.NotSame(t, p, other)
	assert.Equal(t, 2, m.Len())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := newTestManager()
	_, a := m.Get("")
	_, b := m.Get("")

	a.SelectFiles([]models.SelectedFile{{Name: "a.pdf"}})
	assert.True(t, a.CanSubmit())
	assert.False(t, b.CanSubmit())
}

func TestManager_CleanupOldSessions(t *testing.T) {
	m := newTestManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	oldID, _ := m.Get("")
	now = now.Add(time.Hour)
	freshID, _ := m.Get("")

	assert.Equal(t, 1, m.CleanupOldSessions(30*time.Minute))
	assert.Equal(t, 1, m.Len())

	gotID, _ := m.Get(freshID)
	assert.Equal(t, freshID, gotID)
	gotID, _ = m.Get(oldID)
	assert.NotEqual(t, oldID, gotID)
}
