package resource

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jeeftor/automaton/internal/logging"
)

type cleanup struct {
	name string
	fn   func() error
}

// ResourceManager runs registered cleanups once, newest first
type ResourceManager struct {
	mu       sync.Mutex
	cleanups []cleanup
	done     bool
}

// NewResourceManager creates an empty resource manager
func NewResourceManager() *ResourceManager {
	return &ResourceManager{}
}

// AddCleanupFunc registers fn to run on CleanupAll. Registering after
// cleanup has run executes fn immediately.
func (rm *ResourceManager) AddCleanupFunc(name string, fn func() error) {
	rm.mu.Lock()
	if !rm.done {
		rm.cleanups = append(rm.cleanups, cleanup{name: name, fn: fn})
		rm.mu.Unlock()
		return
	}
	rm.mu.Unlock()

	if err := fn(); err != nil {
		logging.Warn("Late cleanup failed", "name", name, "error", err)
	}
}

// CleanupAll runs every registered cleanup and joins their errors. Only the
// first call does any work.
func (rm *ResourceManager) CleanupAll() error {
	rm.mu.Lock()
	if rm.done {
		rm.mu.Unlock()
		return nil
	}
	rm.done = true
	cleanups := rm.cleanups
	rm.cleanups = nil
	rm.mu.Unlock()

	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		c := cleanups[i]
		if err := c.fn(); err != nil {
			errs = append(errs, fmt.Errorf("cleanup %s: %w", c.name, err))
			continue
		}
		logging.Debug("Cleaned up", "name", c.name)
	}
	return errors.Join(errs...)
}

// Pending returns how many cleanups are registered
func (rm *ResourceManager) Pending() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.cleanups)
}
