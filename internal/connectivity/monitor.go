// Package connectivity tracks whether the flight API is reachable.
package connectivity

import (
	"sync"
	"time"

	"github.com/dharmasatrya/flightexplorer/internal/models"
)

const OfflineMessage = "You appear to be offline. Some results may be unavailable until the connection is restored."

type Monitor struct {
	mu      sync.RWMutex
	online  bool
	since   time.Time
	lastErr string
	now     func() time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{
		online: true,
		since:  time.Now(),
		now:    time.Now,
	}
}

// ReportSuccess marks the upstream reachable again.
func (m *Monitor) ReportSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.online {
		m.online = true
		m.since = m.now()
		m.lastErr = ""
	}
}

// ReportFailure marks the upstream unreachable. Only network failures belong here;
// an error answer still proves the connection works.
func (m *Monitor) ReportFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online {
		m.since = m.now()
	}
	m.online = false
	if err != nil {
		m.lastErr = err.Error()
	}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

func (m *Monitor) Status() models.UpstreamStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.UpstreamStatus{
		Online:    m.online,
		Since:     m.since,
		LastError: m.lastErr,
	}
}

// Notice returns the banner to attach to responses, or nil while online.
func (m *Monitor) Notice() *models.Notice {
	if m.Online() {
		return nil
	}
	return &models.Notice{
		Kind:        "offline",
		Message:     OfflineMessage,
		Dismissible: true,
	}
}
