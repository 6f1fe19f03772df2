// Package nakselect implements the install-time NAK version selector:
// given a version requirement and a Runtime Inventory, pick the highest
// matching version and produce a pin (spec.md §4.10). This runs once at
// install, never at compose time.
package nakselect

import (
	"fmt"
	"sort"

	"github.com/nah-project/nah/internal/model"
	"github.com/nah-project/nah/internal/semver"
)

// Candidate is one inventory entry that matched nak_id, whether or not it
// satisfied the version requirement.
type Candidate struct {
	RecordRef string
	Version   string
}

// Selection is the result of a successful selection.
type Selection struct {
	NAKID           string
	Version         string
	RecordRef       string
	SelectionReason string
	Candidates      []Candidate
}

// ErrNotFound is returned when no inventory entry for nakID satisfies
// versionReq. The installer surfaces this as a user error, distinct from
// composition warnings.
type ErrNotFound struct {
	NAKID     string
	VersionReq string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no installed %s runtime satisfies version requirement %q", e.NAKID, e.VersionReq)
}

// Select parses versionReq, scans inventory for entries whose nak.id
// matches nakID, and returns the highest (by SemVer precedence) entry
// whose nak.version satisfies the requirement.
func Select(nakID, versionReq string, inventory model.RuntimeInventory) (*Selection, error) {
	r, err := semver.ParseRange(versionReq)
	if err != nil {
		return nil, fmt.Errorf("invalid version requirement %q: %w", versionReq, err)
	}

	type match struct {
		ref     string
		version semver.Version
	}

	var matches []match
	var candidates []Candidate

	refs := make([]string, 0, len(inventory))
	for ref := range inventory {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	for _, ref := range refs {
		descriptor := inventory[ref]
		if descriptor.NAK.ID != nakID {
			continue
		}

		candidates = append(candidates, Candidate{RecordRef: ref, Version: descriptor.NAK.Version})

		v, err := semver.Parse(descriptor.NAK.Version)
		if err != nil {
			continue
		}
		if semver.Satisfies(v, r) {
			matches = append(matches, match{ref: ref, version: v})
		}
	}

	if len(matches) == 0 {
		return nil, &ErrNotFound{NAKID: nakID, VersionReq: versionReq}
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if semver.Compare(m.version, best.version) > 0 {
			best = m
		}
	}

	return &Selection{
		NAKID:           nakID,
		Version:         best.version.String(),
		RecordRef:       best.ref,
		SelectionReason: "highest_matching_version",
		Candidates:      candidates,
	}, nil
}
