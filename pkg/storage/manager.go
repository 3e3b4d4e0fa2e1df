package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pindl/pkg/naming"
)

// Manager handles file storage operations and duplicate detection for one
// board directory
type Manager struct {
	dir      string
	existing map[string]string // pin ID -> filename
	mu       sync.RWMutex
}

// NewManager creates a new storage manager rooted at dir
func NewManager(dir string) (*Manager, error) {
	// Create the board directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create board directory: %w", err)
	}

	manager := &Manager{
		dir:      dir,
		existing: make(map[string]string),
	}

	// Scan existing files for duplicate detection
	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles indexes the directory's files by the pin ID embedded in
// each filename. Files whose names don't decode to a pin ID are ignored.
// When several files carry the same ID the one sorting last wins.
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := naming.PinID(entry.Name()); ok {
			m.existing[id] = entry.Name()
		}
	}

	return nil
}

// ExistingFile returns the filename a pin was previously downloaded to,
// if any.
func (m *Manager) ExistingFile(pinID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.existing[pinID]
	return name, ok
}

// SaveImage atomically writes image data under the given filename
func (m *Manager) SaveImage(pinID, filename string, data []byte) error {
	// Write to a short-named temp file first; the final name may already
	// sit at the filesystem's length cap.
	out, err := os.CreateTemp(m.dir, ".pindl-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := out.Name()

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempPath, filepath.Join(m.dir, filename)); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.existing[pinID] = filename
	m.mu.Unlock()

	return nil
}

// Rename moves a pin's file to a new name within the board directory
func (m *Manager) Rename(pinID, oldName, newName string) error {
	if err := os.Rename(filepath.Join(m.dir, oldName), filepath.Join(m.dir, newName)); err != nil {
		return fmt.Errorf("failed to rename %q: %w", oldName, err)
	}

	m.mu.Lock()
	m.existing[pinID] = newName
	m.mu.Unlock()

	return nil
}

// Dir returns the board directory path
func (m *Manager) Dir() string {
	return m.dir
}

// Count returns the number of indexed pin files
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.existing)
}
