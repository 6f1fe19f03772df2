// Package naksinv loads the Runtime Inventory the composer consumes: every
// installed NAK's Runtime Descriptor, keyed by record_ref, discovered from
// the NAH root's registry directory (spec.md §6). Grounded on the
// teacher's internal/registry package's directory-scan shape, stripped of
// the HTTP-fetch concern, which has no equivalent in a purely local
// install-time inventory.
package naksinv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nah-project/nah/internal/model"
)

// LoadWarning names one registry entry that could not be read or parsed
// and was skipped rather than failing the whole load, mirroring the
// "skip unreadable entries" discipline the teacher's lock directory scan
// uses for its own best-effort listing.
type LoadWarning struct {
	Path string
	Err  error
}

// Load scans registryNAKsDir for NAK Install Records and, for each, reads
// the corresponding Runtime Descriptor (nak.json) out of the extracted
// payload at payloadDir(nakID, version). Entries that can't be read or
// parsed are skipped and reported as warnings rather than aborting the
// whole load, since a broken NAK install shouldn't make every other
// installed runtime invisible to composition.
func Load(registryNAKsDir string, payloadDir func(nakID, version string) string) (model.RuntimeInventory, []LoadWarning, error) {
	inventory := make(model.RuntimeInventory)
	var warnings []LoadWarning

	entries, err := os.ReadDir(registryNAKsDir)
	if os.IsNotExist(err) {
		return inventory, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read NAK registry directory %s: %w", registryNAKsDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		recordPath := filepath.Join(registryNAKsDir, name)

		raw, err := os.ReadFile(recordPath)
		if err != nil {
			warnings = append(warnings, LoadWarning{Path: recordPath, Err: err})
			continue
		}

		var record model.InstallRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			warnings = append(warnings, LoadWarning{Path: recordPath, Err: err})
			continue
		}

		nakID, version := record.App.ID, record.App.Version
		descPath := filepath.Join(payloadDir(nakID, version), "nak.json")

		descRaw, err := os.ReadFile(descPath)
		if err != nil {
			warnings = append(warnings, LoadWarning{Path: descPath, Err: err})
			continue
		}

		var descriptor model.RuntimeDescriptor
		if err := json.Unmarshal(descRaw, &descriptor); err != nil {
			warnings = append(warnings, LoadWarning{Path: descPath, Err: err})
			continue
		}

		recordRef := name
		inventory[recordRef] = descriptor
	}

	return inventory, warnings, nil
}
