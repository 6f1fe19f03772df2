package installrec

import (
	"path/filepath"
	"testing"

	"github.com/nah-project/nah/internal/model"
)

func TestLoad_MissingFile(t *testing.T) {
	rec, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec != nil {
		t.Errorf("Load() = %v, want nil for missing file", rec)
	}
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app@1.0.0.json")
	record := &model.InstallRecord{
		Install: model.InstallIdentity{InstanceID: "explicit-id"},
		Paths:   model.InstallPaths{InstallRoot: "/apps/a"},
		App:     model.AppSnapshot{ID: "a", Version: "1.0.0"},
	}

	if err := Save(path, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Install.InstanceID != "explicit-id" {
		t.Errorf("InstanceID = %q, want %q", got.Install.InstanceID, "explicit-id")
	}
	if got.Paths.InstallRoot != "/apps/a" {
		t.Errorf("InstallRoot = %q", got.Paths.InstallRoot)
	}
}

func TestSave_GeneratesInstanceIDWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app@1.0.0.json")
	record := &model.InstallRecord{Paths: model.InstallPaths{InstallRoot: "/apps/a"}}

	if err := Save(path, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if record.Install.InstanceID == "" {
		t.Error("Save() left InstanceID empty")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Install.InstanceID != record.Install.InstanceID {
		t.Errorf("persisted InstanceID = %q, want %q", got.Install.InstanceID, record.Install.InstanceID)
	}
}

func TestRemove_AbsentFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if err := Remove(path); err != nil {
		t.Errorf("Remove() error = %v, want nil for already-absent file", err)
	}
}

func TestRemove_DeletesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app@1.0.0.json")
	if err := Save(path, &model.InstallRecord{Paths: model.InstallPaths{InstallRoot: "/apps/a"}}); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec != nil {
		t.Error("record still present after Remove()")
	}
}
