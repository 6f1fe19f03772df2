package naksinv

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	inv, warnings, err := Load(filepath.Join(t.TempDir(), "does-not-exist"), func(id, v string) string { return "" })
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(inv) != 0 || len(warnings) != 0 {
		t.Errorf("Load() = %v, %v, want both empty", inv, warnings)
	}
}

func TestLoad_ValidEntry(t *testing.T) {
	root := t.TempDir()
	registryDir := filepath.Join(root, "registry", "naks")
	payloadRoot := filepath.Join(root, "naks")

	writeFile(t, filepath.Join(registryDir, "lua@5.4.6.json"), `{"install":{"instance_id":"x"},"paths":{"install_root":"/naks/lua/5.4.6"},"app":{"id":"lua","version":"5.4.6"}}`)
	writeFile(t, filepath.Join(payloadRoot, "lua", "5.4.6", "nak.json"), `{"nak":{"id":"lua","version":"5.4.6"},"paths":{"root":"/naks/lua/5.4.6"}}`)

	inv, warnings, err := Load(registryDir, func(id, v string) string { return filepath.Join(payloadRoot, id, v) })
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	descriptor, ok := inv["lua@5.4.6.json"]
	if !ok {
		t.Fatalf("inventory missing lua@5.4.6.json, got %v", inv)
	}
	if descriptor.NAK.ID != "lua" || descriptor.NAK.Version != "5.4.6" {
		t.Errorf("descriptor = %+v", descriptor)
	}
}

func TestLoad_SkipsUnreadableEntry(t *testing.T) {
	root := t.TempDir()
	registryDir := filepath.Join(root, "registry", "naks")

	writeFile(t, filepath.Join(registryDir, "broken@1.0.0.json"), `not json`)
	writeFile(t, filepath.Join(registryDir, "good@1.0.0.json"), `{"install":{"instance_id":"x"},"paths":{"install_root":"/naks/good/1.0.0"},"app":{"id":"good","version":"1.0.0"}}`)
	writeFile(t, filepath.Join(root, "naks", "good", "1.0.0", "nak.json"), `{"nak":{"id":"good","version":"1.0.0"},"paths":{"root":"/naks/good/1.0.0"}}`)

	payloadDir := func(id, v string) string { return filepath.Join(root, "naks", id, v) }
	inv, warnings, err := Load(registryDir, payloadDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if _, ok := inv["good@1.0.0.json"]; !ok {
		t.Error("good entry should still load despite broken sibling")
	}
	if _, ok := inv["broken@1.0.0.json"]; ok {
		t.Error("broken entry should not appear in inventory")
	}
}
