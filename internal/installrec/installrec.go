// Package installrec reads and writes Install Records under a NAH root's
// registry directory, one JSON file per install, guarded by an exclusive
// or shared lock per path and written with atomic-rename discipline
// (spec.md §5). Grounded on the teacher's internal/install.StateManager,
// generalized from one shared state.json to many independent per-install
// record files, since NAH registers each app/NAK install as its own file
// rather than one global table.
package installrec

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/nah-project/nah/internal/filelock"
	"github.com/nah-project/nah/internal/model"
)

// Load reads the Install Record at path under a shared lock. Returns
// (nil, nil) if the file does not exist.
func Load(path string) (*model.InstallRecord, error) {
	lock := filelock.New(path + ".lock")
	if err := lock.LockShared(); err != nil {
		return nil, fmt.Errorf("failed to acquire read lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read install record %s: %w", path, err)
	}

	var record model.InstallRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse install record %s: %w", path, err)
	}
	return &record, nil
}

// Save writes record to path under an exclusive lock, using
// write-temp-then-rename so readers never observe a partial file. If
// record.Install.InstanceID is empty, a fresh one is generated — the
// deterministic-filename policy (whether the instance id appears in the
// registry filename at all) is the installer's decision, not this
// package's (spec.md §9 open question).
func Save(path string, record *model.InstallRecord) error {
	if record.Install.InstanceID == "" {
		record.Install.InstanceID = uuid.NewString()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal install record: %w", err)
	}

	lock := filelock.New(path + ".lock")
	if err := lock.LockExclusive(); err != nil {
		return fmt.Errorf("failed to acquire write lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	return filelock.WriteFileAtomic(path, data, 0644)
}

// Remove deletes the Install Record at path under an exclusive lock. It is
// not an error for the record to already be absent.
func Remove(path string) error {
	lock := filelock.New(path + ".lock")
	if err := lock.LockExclusive(); err != nil {
		return fmt.Errorf("failed to acquire write lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove install record %s: %w", path, err)
	}
	return nil
}
