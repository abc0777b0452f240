package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	stackyerrors "stacky.dev/stacky/internal/errors"
)

// SyncStateFileName is the name of the sync record inside the git directory.
const SyncStateFileName = "stacky.state"

// SyncRecord is the durable record of an interrupted sync.
type SyncRecord struct {
	// Branch is the branch that was checked out when the sync started.
	Branch string `json:"branch"`
	// Sync lists the branches still to process, in processing order.
	Sync []string `json:"sync"`
}

// SyncStateFile persists a SyncRecord with write-to-temp then rename.
type SyncStateFile struct {
	path string
}

// NewSyncStateFile returns a store for the record kept in gitDir.
func NewSyncStateFile(gitDir string) *SyncStateFile {
	return &SyncStateFile{path: filepath.Join(gitDir, SyncStateFileName)}
}

// Path returns the location of the record.
func (f *SyncStateFile) Path() string {
	return f.path
}

// Save atomically replaces the record.
func (f *SyncStateFile) Save(record SyncRecord) error {
	if record.Sync == nil {
		record.Sync = []string{}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), SyncStateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	return nil
}

// Load reads the record. A missing record is ErrNoSyncInProgress.
func (f *SyncStateFile) Load() (*SyncRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stackyerrors.ErrNoSyncInProgress
		}
		return nil, fmt.Errorf("failed to read sync state: %w", err)
	}
	var record SyncRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse sync state: %w", err)
	}
	return &record, nil
}

// Clear removes the record; a missing record is not an error.
func (f *SyncStateFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear sync state: %w", err)
	}
	return nil
}
