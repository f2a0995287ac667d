package constants

// Event recording and matching defaults
const (
	// Moves closer than this (in both axes) to the last recorded move are dropped
	MoveNoisePixels = 2

	// Chord that arms and disarms the recorder
	DefaultRecordHotkey = "ctrl+f1"

	// Default confidence threshold for template matches
	DefaultConfidence = 0.8

	// Default file names, relative to the working directory
	DefaultEventsFile  = "mouse_events.json"
	DefaultCaptureDir  = "captures"
	DefaultSessionFile = "latest_script.auto"

	// Longest edge of generated capture thumbnails
	DefaultThumbnailSize = 100
)
