package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/ocr-review/internal/review"
	"github.com/feichai0017/ocr-review/pkg/logger"
)

// PanelFactory builds the panel for a new browser session.
type PanelFactory func() *review.Panel

// Manager keeps one review panel per browser session, in memory only.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	newPanel PanelFactory
	logger   logger.Logger
	now      func() time.Time
}

type entry struct {
	panel        *review.Panel
	lastAccessed time.Time
}

func NewManager(newPanel PanelFactory, log logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		newPanel: newPanel,
		logger:   log.Named("session"),
		now:      time.Now,
	}
}

// Get returns the panel for id. Unknown or empty ids get a fresh session; the
// returned id is the one the caller must keep using.
func (m *Manager) Get(id string) (string, *review.Panel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[id]; ok && id != "" {
		e.lastAccessed = m.now()
		return id, e.panel
	}

	id = uuid.New().String()
	e := &entry{panel: m.newPanel(), lastAccessed: m.now()}
	m.sessions[id] = e
	m.logger.Debug("Session created", logger.String("session_id", id))
	return id, e.panel
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CleanupOldSessions drops sessions idle for longer than maxAge. Sessions with a
// submission in flight are kept.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for id, e := range m.sessions {
		if e.lastAccessed.After(cutoff) || e.panel.Snapshot().InFlight {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.logger.Info("Expired sessions removed",
			logger.Int("removed", removed),
			logger.Int("remaining", len(m.sessions)),
		)
	}
	return removed
}
