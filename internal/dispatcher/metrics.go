package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects shortcut run statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-chord metrics, keyed by spelling.
	shortcutMetrics map[string]*ShortcutMetrics

	// Global counters
	totalEvents  uint64
	totalIgnored uint64
	totalRuns    uint64
	totalVetoes  uint64
	totalPanics  uint64

	// Timing
	totalDuration time.Duration
}

// ShortcutMetrics holds metrics for one chord.
type ShortcutMetrics struct {
	Keys          string
	RunCount      uint64
	VetoCount     uint64
	PanicCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastRun       time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		shortcutMetrics: make(map[string]*ShortcutMetrics),
	}
}

// RecordEvent records a key event. Ignored events were rejected by the gate.
func (m *Metrics) RecordEvent(ignored bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalEvents++
	if ignored {
		m.totalIgnored++
	}
}

// RecordRun records a completed chord run.
func (m *Metrics) RecordRun(keys string, duration time.Duration, panicked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRuns++
	m.totalDuration += duration

	sm := m.getLocked(keys)
	sm.RunCount++
	sm.TotalDuration += duration
	sm.LastRun = time.Now()
	if duration > sm.MaxDuration {
		sm.MaxDuration = duration
	}

	if panicked {
		m.totalPanics++
		sm.PanicCount++
	}
}

// RecordPanic records a panic raised while dispatching a chord outside its
// commands, in a hook or callback.
func (m *Metrics) RecordPanic(keys string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalPanics++
	m.getLocked(keys).PanicCount++
}

// RecordVeto records a vetoed chord.
func (m *Metrics) RecordVeto(keys string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalVetoes++
	m.getLocked(keys).VetoCount++
}

func (m *Metrics) getLocked(keys string) *ShortcutMetrics {
	sm := m.shortcutMetrics[keys]
	if sm == nil {
		sm = &ShortcutMetrics{Keys: keys}
		m.shortcutMetrics[keys] = sm
	}
	return sm
}

// ShortcutStats returns metrics for a chord spelling.
func (m *Metrics) ShortcutStats(keys string) *ShortcutMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sm := m.shortcutMetrics[keys]
	if sm == nil {
		return nil
	}

	// Return a copy
	copy := *sm
	return &copy
}

// TopShortcuts returns the n most frequently run chords.
func (m *Metrics) TopShortcuts(n int) []*ShortcutMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*ShortcutMetrics, 0, len(m.shortcutMetrics))
	for _, sm := range m.shortcutMetrics {
		copy := *sm
		list = append(list, &copy)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].RunCount != list[j].RunCount {
			return list[i].RunCount > list[j].RunCount
		}
		return list[i].Keys < list[j].Keys
	})

	if n > len(list) {
		n = len(list)
	}
	return list[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shortcutMetrics = make(map[string]*ShortcutMetrics)
	m.totalEvents = 0
	m.totalIgnored = 0
	m.totalRuns = 0
	m.totalVetoes = 0
	m.totalPanics = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the global counters.
type MetricsSnapshot struct {
	TotalEvents     uint64
	TotalIgnored    uint64
	TotalRuns       uint64
	TotalVetoes     uint64
	TotalPanics     uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	ShortcutCount   int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalEvents:   m.totalEvents,
		TotalIgnored:  m.totalIgnored,
		TotalRuns:     m.totalRuns,
		TotalVetoes:   m.totalVetoes,
		TotalPanics:   m.totalPanics,
		TotalDuration: m.totalDuration,
		ShortcutCount: len(m.shortcutMetrics),
		Timestamp:     time.Now(),
	}

	if m.totalRuns > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalRuns)
	}

	return snapshot
}

// AverageDuration returns the average run duration for the chord.
func (sm *ShortcutMetrics) AverageDuration() time.Duration {
	if sm.RunCount == 0 {
		return 0
	}
	return sm.TotalDuration / time.Duration(sm.RunCount)
}
