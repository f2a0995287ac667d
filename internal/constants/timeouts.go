package constants

import "time"

// Default timeouts and delays used throughout the application
const (
	// Script runtime
	DefaultStopGrace = 1 * time.Second
	DefaultKillWait  = 500 * time.Millisecond

	// Image matching
	DefaultMatchTimeout  = 30 * time.Second
	DefaultMatchInterval = 1 * time.Second

	// Pointer movement used by click helpers
	DefaultMoveDuration = 100 * time.Millisecond
	DefaultMoveSteps    = 50

	// Replay waits sleep until this close to the target, then spin
	DefaultSpinThreshold = 2 * time.Millisecond

	// Polling used by cooperative sleeps inside scripts
	CancelPollInterval = 20 * time.Millisecond
)
