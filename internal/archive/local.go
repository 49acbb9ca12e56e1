package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider writes archive objects to the local filesystem.
type LocalProvider struct {
	baseDir string
}

// NewLocalProvider verifies the base directory exists and is writable,
// creating it when absent.
func NewLocalProvider(baseDir string) (*LocalProvider, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("archive.local.dir is required")
	}

	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(baseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("create archive directory: %w", mkErr)
			}
		} else {
			return nil, fmt.Errorf("stat archive directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("archive path is not a directory")
	}

	// Probe for write permissions so misconfiguration fails at startup.
	testFile := filepath.Join(baseDir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("archive directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("clean up writability probe: %w", err)
	}

	return &LocalProvider{baseDir: baseDir}, nil
}

// Save writes data to a file under the base directory, creating parent
// directories as needed.
func (p *LocalProvider) Save(_ context.Context, objectName string, data []byte) error {
	if strings.TrimSpace(objectName) == "" {
		return fmt.Errorf("object name is required")
	}
	fullPath := filepath.Join(p.baseDir, objectName)

	// Verify the cleaned path stays within baseDir to prevent traversal.
	cleanBase := filepath.Clean(p.baseDir)
	cleanFull := filepath.Clean(fullPath)
	if !strings.HasPrefix(cleanFull, cleanBase+string(filepath.Separator)) {
		return fmt.Errorf("object name escapes archive directory")
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("create parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

// Close for LocalProvider does nothing and always returns nil.
func (p *LocalProvider) Close() error {
	return nil
}
