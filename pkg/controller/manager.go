package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Runnable interface {
	// Start runs the component until the context is closed or a fatal error
	// occurs. It blocks for the component's whole lifetime.
	Start(context.Context) error
}

// Manager runs a set of Runnables concurrently and waits for all of them.
type Manager struct {
	runnables []Runnable
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	mu   sync.Mutex
	errs error

	logger *zap.Logger
}

func NewManager(logger *zap.Logger, runnables ...Runnable) *Manager {
	return &Manager{
		runnables: runnables,
		logger:    logger,
	}
}

// Start launches every runnable and blocks until all of them have returned.
// The combined non-cancellation errors are returned.
func (m *Manager) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	for _, runnable := range m.runnables {
		m.wg.Add(1)
		go func(r Runnable) {
			defer m.wg.Done()
			if err := r.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("runnable error", zap.Error(err))
				m.mu.Lock()
				m.errs = multierr.Append(m.errs, err)
				m.mu.Unlock()
			}
		}(runnable)
	}

	m.wg.Wait()
	return m.errs
}

// Stop cancels every running component.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}
