package resource

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jeeftor/automaton/internal/logging"
)

// ContextManager owns the root context and turns interrupt signals into an
// orderly shutdown. The first signal runs the interrupt hooks (stopping a
// running script), cancels the root context and runs cleanups. A second
// signal exits at once.
type ContextManager struct {
	rootContext    context.Context
	cancelFunc     context.CancelFunc
	resourceMgr    *ResourceManager
	cleanupTimeout time.Duration
	mu             sync.RWMutex
	hooks          []func()
	signals        chan os.Signal
	exit           func(int)
}

// NewContextManager creates a context manager listening for SIGINT, SIGTERM
// and SIGQUIT
func NewContextManager() *ContextManager {
	cm := newContextManager(make(chan os.Signal, 2))
	signal.Notify(cm.signals, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	return cm
}

func newContextManager(signals chan os.Signal) *ContextManager {
	rootCtx, cancel := context.WithCancel(context.Background())
	cm := &ContextManager{
		rootContext:    rootCtx,
		cancelFunc:     cancel,
		resourceMgr:    NewResourceManager(),
		cleanupTimeout: 10 * time.Second,
		signals:        signals,
		exit:           os.Exit,
	}
	go cm.handleSignals()
	return cm
}

// GetContext returns the root context for operations
func (cm *ContextManager) GetContext() context.Context {
	return cm.rootContext
}

// GetResourceManager returns the resource manager
func (cm *ContextManager) GetResourceManager() *ResourceManager {
	return cm.resourceMgr
}

// OnInterrupt registers fn to run when the first signal arrives, before the
// root context is cancelled
func (cm *ContextManager) OnInterrupt(fn func()) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.hooks = append(cm.hooks, fn)
}

// SetCleanupTimeout sets the timeout for cleanup operations
func (cm *ContextManager) SetCleanupTimeout(timeout time.Duration) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cleanupTimeout = timeout
}

// IsActive returns whether the context manager is still active
func (cm *ContextManager) IsActive() bool {
	select {
	case <-cm.rootContext.Done():
		return false
	default:
		return true
	}
}

func (cm *ContextManager) handleSignals() {
	sig, ok := <-cm.signals
	if !ok {
		return
	}
	logging.Info("Received shutdown signal, initiating graceful shutdown", "signal", sig.String())

	go func() {
		if sig, ok := <-cm.signals; ok {
			logging.Warn("Second signal received, exiting", "signal", sig.String())
			cm.exit(130)
		}
	}()

	cm.mu.RLock()
	hooks := append([]func(){}, cm.hooks...)
	cm.mu.RUnlock()
	for _, hook := range hooks {
		hook()
	}

	if err := cm.Shutdown(); err != nil {
		logging.Error("Resource cleanup completed with errors", "error", err)
	}
}

// Shutdown cancels the root context and runs cleanups, giving up after the
// cleanup timeout
func (cm *ContextManager) Shutdown() error {
	cm.cancelFunc()

	cm.mu.RLock()
	timeout := cm.cleanupTimeout
	cm.mu.RUnlock()

	done := make(chan error, 1)
	go func() { done <- cm.resourceMgr.CleanupAll() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		logging.Warn("Resource cleanup timed out", "timeout", timeout)
		return context.DeadlineExceeded
	}
}
