package network

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"metroview.org/internal/logging"
)

// Manager owns the current Store and reloads remote sources on a schedule.
type Manager struct {
	sources Sources
	client  *http.Client
	logger  *slog.Logger

	mu          sync.RWMutex
	store       *Store
	lastUpdated time.Time
	lastErr     error

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager performs the first load. When it fails the error is logged
// and returned, and the manager serves an empty store so the server can
// keep running.
func InitManager(ctx context.Context, sources Sources, client *http.Client, logger *slog.Logger) (*Manager, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		sources:      sources,
		client:       client,
		logger:       logger.With(slog.String("component", "network_manager")),
		store:        Empty(),
		shutdownChan: make(chan struct{}),
	}

	err := m.Reload(ctx)

	if sources.refreshable() {
		m.wg.Add(1)
		go m.refreshPeriodically()
	}

	return m, err
}

// Store returns the current store.
func (m *Manager) Store() *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// Status reports when the store last changed and the error of the last
// load attempt, if any.
func (m *Manager) Status() (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdated, m.lastErr
}

// Reload loads the sources again. The current store is kept on failure.
func (m *Manager) Reload(ctx context.Context) error {
	started := time.Now()
	store, err := Load(ctx, m.sources, m.client, m.logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = err
	if err != nil {
		logging.LogError(m.logger, "network load failed", err,
			slog.String("source", m.sources.NetworkURL))
		return err
	}

	m.store = store
	m.lastUpdated = time.Now()
	logging.LogOperation(m.logger, "network_reloaded",
		slog.Int("stations", len(store.Stations())),
		slog.Duration("duration", time.Since(started)))
	return nil
}

func (m *Manager) refreshPeriodically() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sources.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			_ = m.Reload(ctx)
			cancel()
		case <-m.shutdownChan:
			m.logger.Info("stopping network refresh")
			return
		}
	}
}

// Shutdown stops the refresh goroutine.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownChan)
		m.wg.Wait()
	})
}
