package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeeftor/automaton/internal/logging"
)

// EnsureDirectory creates a directory and all necessary parent directories
func EnsureDirectory(path string) error {
	if path == "." || path == "" {
		return nil // Current directory always exists
	}

	return os.MkdirAll(path, 0755)
}

// EnsureDirectoryForFile creates the parent directory for a given file path
func EnsureDirectoryForFile(filePath string) error {
	dir := filepath.Dir(filePath)
	return EnsureDirectory(dir)
}

// EnsureDirectoryWithLogging creates directory with structured logging
func EnsureDirectoryWithLogging(path string, context string) error {
	if path == "." || path == "" {
		return nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		logging.Error("Failed to create directory",
			"path", path,
			"context", context,
			"error", err)
		return err
	}

	logging.Debug("Ensured directory", "path", path, "context", context)
	return nil
}

// UniquePath returns path unchanged when nothing exists there, otherwise the
// first free variant with a numeric suffix before the extension (name_1.png, name_2.png, ...)
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// WriteFileAtomic writes content to a temp file next to filePath and renames it
// into place, creating parent directories as needed. Readers never observe a
// partially written file.
func WriteFileAtomic(filePath string, content []byte, perm os.FileMode) error {
	if err := EnsureDirectoryForFile(filePath); err != nil {
		return fmt.Errorf("failed to create directory for file '%s': %w", filePath, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for '%s': %w", filePath, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write '%s': %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close '%s': %w", filePath, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod '%s': %w", filePath, err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move '%s' into place: %w", filePath, err)
	}
	return nil
}

// SafeRemove removes a file/directory, ignoring "not exist" errors
func SafeRemove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetFileExtension returns the lowercase file extension without the dot
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// IsImageFile checks if a file path represents an image file
func IsImageFile(path string) bool {
	switch GetFileExtension(path) {
	case "png", "jpg", "jpeg", "gif", "ppm", "pgm", "pbm", "pnm", "pam":
		return true
	default:
		return false
	}
}

// GetAbsolutePath converts a path to absolute form, handling ~ expansion
func GetAbsolutePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path provided")
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		if len(path) == 1 {
			path = homeDir
		} else {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return filepath.Abs(path)
}

// ValidateInputFile validates that an input file exists and is readable
func ValidateInputFile(inputFile string, paramName string, envVar string) error {
	if inputFile == "" {
		if envVar != "" {
			return fmt.Errorf("%s is required: provide as argument or set %s environment variable", paramName, envVar)
		}
		return fmt.Errorf("%s is required", paramName)
	}

	stat, err := os.Stat(inputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s '%s' does not exist", paramName, inputFile)
		}
		return fmt.Errorf("cannot access %s '%s': %w", paramName, inputFile, err)
	}
	if stat.IsDir() {
		return fmt.Errorf("%s '%s' is a directory", paramName, inputFile)
	}

	file, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("%s '%s' is not readable: %w", paramName, inputFile, err)
	}
	file.Close()

	return nil
}
