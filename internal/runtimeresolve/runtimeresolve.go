// Package runtimeresolve looks up the runtime an app was pinned to at
// install time in the composition-time Runtime Inventory (spec.md §4.6).
// It never parses SemVer ranges or picks a version itself — that happens
// once, at install, in internal/nakselect.
package runtimeresolve

import "github.com/nah-project/nah/internal/model"

// Outcome classifies how runtime resolution concluded.
type Outcome string

const (
	// OutcomeStandalone means the app declares no nak_id; no runtime is
	// attached and none was expected.
	OutcomeStandalone Outcome = "standalone_app"

	// OutcomeResolved means the pinned record_ref was found in the
	// inventory and its descriptor is attached.
	OutcomeResolved Outcome = "resolved"

	// OutcomeNotFound means the app declares a nak_id but the Install
	// Record's pinned record_ref is empty or absent from the inventory.
	OutcomeNotFound Outcome = "not_found"
)

// Result is the outcome of resolving an app's runtime.
type Result struct {
	Outcome    Outcome
	Descriptor *model.RuntimeDescriptor // nil unless Outcome == OutcomeResolved
	Warning    *model.Warning           // set when Outcome == OutcomeNotFound
}

// Resolve looks up the runtime pinned for app in inventory, using the
// record_ref install recorded at install time.
func Resolve(app *model.AppDeclaration, install *model.InstallRecord, inventory model.RuntimeInventory) Result {
	if app.NAKID == "" {
		return Result{Outcome: OutcomeStandalone}
	}

	ref := install.NAK.RecordRef
	if ref == "" {
		return notFound(app.NAKID)
	}

	descriptor, ok := inventory[ref]
	if !ok {
		return notFound(app.NAKID)
	}

	return Result{Outcome: OutcomeResolved, Descriptor: &descriptor}
}

func notFound(nakID string) Result {
	return Result{
		Outcome: OutcomeNotFound,
		Warning: &model.Warning{
			Key:    "nak_not_found",
			Action: model.ActionWarn,
			Fields: map[string]string{"nak_id": nakID},
		},
	}
}
