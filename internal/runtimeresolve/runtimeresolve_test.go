package runtimeresolve

import (
	"testing"

	"github.com/nah-project/nah/internal/model"
)

func TestResolve_Standalone(t *testing.T) {
	app := &model.AppDeclaration{ID: "a", Version: "1.0.0"}
	install := &model.InstallRecord{}
	res := Resolve(app, install, model.RuntimeInventory{})
	if res.Outcome != OutcomeStandalone {
		t.Errorf("Outcome = %v, want %v", res.Outcome, OutcomeStandalone)
	}
	if res.Descriptor != nil {
		t.Error("Descriptor should be nil for a standalone app")
	}
}

func TestResolve_Resolved(t *testing.T) {
	app := &model.AppDeclaration{ID: "a", Version: "1.0.0", NAKID: "lua"}
	install := &model.InstallRecord{NAK: model.NAKPin{RecordRef: "lua@5.4.6.json"}}
	inventory := model.RuntimeInventory{
		"lua@5.4.6.json": {NAK: model.RuntimeIdentity{ID: "lua", Version: "5.4.6"}},
	}

	res := Resolve(app, install, inventory)
	if res.Outcome != OutcomeResolved {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeResolved)
	}
	if res.Descriptor == nil || res.Descriptor.NAK.Version != "5.4.6" {
		t.Errorf("Descriptor = %+v, want version 5.4.6", res.Descriptor)
	}
}

func TestResolve_NotFound_EmptyRef(t *testing.T) {
	app := &model.AppDeclaration{ID: "a", Version: "1.0.0", NAKID: "lua"}
	install := &model.InstallRecord{}
	res := Resolve(app, install, model.RuntimeInventory{})
	if res.Outcome != OutcomeNotFound {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeNotFound)
	}
	if res.Warning == nil || res.Warning.Key != "nak_not_found" {
		t.Errorf("Warning = %v, want nak_not_found", res.Warning)
	}
}

func TestResolve_NotFound_MissingFromInventory(t *testing.T) {
	app := &model.AppDeclaration{ID: "a", Version: "1.0.0", NAKID: "lua"}
	install := &model.InstallRecord{NAK: model.NAKPin{RecordRef: "lua@9.9.9.json"}}
	res := Resolve(app, install, model.RuntimeInventory{})
	if res.Outcome != OutcomeNotFound {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeNotFound)
	}
}
