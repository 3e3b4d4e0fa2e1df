// Package checkpoint persists a board download's resume state so an
// interrupted run picks up at the page it left off instead of refetching
// the whole board. The state lives in a small JSON file next to the board
// directory.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"pindl/pkg/logger"
)

// Checkpoint records how far a board download has progressed. The counted
// pages are complete: every pin on them was handled without error before
// the state was written.
type Checkpoint struct {
	NextPageCursor   string `json:"next_page_cursor"`
	NumCompletePages int    `json:"num_complete_pages"`
}

// Store reads and writes the checkpoint file for one board
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a store persisting to the given path
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: logger.GetLogger(),
	}
}

// Path returns the checkpoint file location
func (s *Store) Path() string {
	return s.path
}

// Exists checks if a checkpoint file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load loads an existing checkpoint
func (s *Store) Load() (*Checkpoint, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No checkpoint exists
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	s.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"path":   s.path,
		"cursor": checkpoint.NextPageCursor,
		"pages":  checkpoint.NumCompletePages,
	})

	return &checkpoint, nil
}

// Save saves the checkpoint to disk atomically
func (s *Store) Save(checkpoint *Checkpoint) error {
	// Create temporary file
	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	// Write checkpoint data
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	// Ensure data is written to disk
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	// Atomically replace the old checkpoint file
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	s.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"path":   s.path,
		"cursor": checkpoint.NextPageCursor,
		"pages":  checkpoint.NumCompletePages,
	})

	return nil
}

// Clear removes the checkpoint file. Clearing an absent checkpoint is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	s.logger.DebugWithFields("Checkpoint cleared", map[string]interface{}{
		"path": s.path,
	})
	return nil
}
