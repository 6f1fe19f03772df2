package validate

import (
	"testing"

	"github.com/nah-project/nah/internal/model"
)

func TestDeclaration_Valid(t *testing.T) {
	app := &model.AppDeclaration{
		ID:             "com.example.game",
		Version:        "1.0.0",
		EntrypointPath: "main.lua",
	}
	res := Declaration(app)
	if !res.OK {
		t.Fatalf("Declaration() OK = false, class = %v, context = %v", res.Class, res.Context)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestDeclaration_MissingID(t *testing.T) {
	app := &model.AppDeclaration{Version: "1.0.0", EntrypointPath: "main.lua"}
	res := Declaration(app)
	if res.OK {
		t.Fatal("Declaration() OK = true, want false")
	}
	if res.Class != model.ErrManifestMissing {
		t.Errorf("Class = %v, want %v", res.Class, model.ErrManifestMissing)
	}
}

func TestDeclaration_AbsoluteEntrypoint(t *testing.T) {
	app := &model.AppDeclaration{ID: "a", Version: "1.0.0", EntrypointPath: "/etc/passwd"}
	res := Declaration(app)
	if res.OK {
		t.Fatal("Declaration() OK = true, want false")
	}
}

func TestDeclaration_AbsoluteLibDir(t *testing.T) {
	app := &model.AppDeclaration{
		ID: "a", Version: "1.0.0", EntrypointPath: "main.lua",
		LibDirs: []string{"/usr/lib"},
	}
	res := Declaration(app)
	if res.OK {
		t.Fatal("Declaration() OK = true, want false for an absolute lib_dirs entry")
	}
}

func TestDeclaration_NAKPinInvalidWarning(t *testing.T) {
	app := &model.AppDeclaration{
		ID: "a", Version: "1.0.0", EntrypointPath: "main.lua",
		NAKID: "lua",
	}
	res := Declaration(app)
	if !res.OK {
		t.Fatalf("Declaration() OK = false, want true (warning only)")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Key != "nak_pin_invalid" {
		t.Errorf("Warnings = %v, want one nak_pin_invalid warning", res.Warnings)
	}
}

func TestInstallRecord_Valid(t *testing.T) {
	rec := &model.InstallRecord{
		Install: model.InstallIdentity{InstanceID: "abc123"},
		Paths:   model.InstallPaths{InstallRoot: "/apps/game"},
	}
	res := InstallRecord(rec)
	if !res.OK {
		t.Fatalf("InstallRecord() OK = false, class = %v, context = %v", res.Class, res.Context)
	}
}

func TestInstallRecord_RelativeRoot(t *testing.T) {
	rec := &model.InstallRecord{
		Install: model.InstallIdentity{InstanceID: "abc123"},
		Paths:   model.InstallPaths{InstallRoot: "apps/game"},
	}
	res := InstallRecord(rec)
	if res.OK {
		t.Fatal("InstallRecord() OK = true, want false for a relative install_root")
	}
	if res.Class != model.ErrInstallRecordInvalid {
		t.Errorf("Class = %v, want %v", res.Class, model.ErrInstallRecordInvalid)
	}
}

func TestRuntimeDescriptor_Valid(t *testing.T) {
	rd := &model.RuntimeDescriptor{
		NAK:   model.RuntimeIdentity{ID: "lua", Version: "5.4.6"},
		Paths: model.RuntimePaths{Root: "/runtimes/lua/5.4.6"},
		Loaders: map[string]model.Loader{
			"default": {ExecPath: "/runtimes/lua/5.4.6/bin/lua"},
		},
	}
	res := RuntimeDescriptor(rd)
	if !res.OK {
		t.Fatalf("RuntimeDescriptor() OK = false, class = %v, context = %v", res.Class, res.Context)
	}
}

func TestRuntimeDescriptor_RelativeRootEscalatesToPathTraversal(t *testing.T) {
	rd := &model.RuntimeDescriptor{
		NAK:   model.RuntimeIdentity{ID: "lua", Version: "5.4.6"},
		Paths: model.RuntimePaths{Root: "runtimes/lua"},
	}
	res := RuntimeDescriptor(rd)
	if res.OK {
		t.Fatal("RuntimeDescriptor() OK = true, want false")
	}
	if res.Class != model.ErrPathTraversal {
		t.Errorf("Class = %v, want %v (declared-absolute-path-isn't maps to PATH_TRAVERSAL)", res.Class, model.ErrPathTraversal)
	}
}

func TestRuntimeDescriptor_RelativeLoaderExecPath(t *testing.T) {
	rd := &model.RuntimeDescriptor{
		NAK:   model.RuntimeIdentity{ID: "lua", Version: "5.4.6"},
		Paths: model.RuntimePaths{Root: "/runtimes/lua/5.4.6"},
		Loaders: map[string]model.Loader{
			"default": {ExecPath: "bin/lua"},
		},
	}
	res := RuntimeDescriptor(rd)
	if res.OK {
		t.Fatal("RuntimeDescriptor() OK = true, want false for a relative loader exec_path")
	}
}

func TestRuntimeDescriptor_EmptyExecPathSkipped(t *testing.T) {
	rd := &model.RuntimeDescriptor{
		NAK:   model.RuntimeIdentity{ID: "lua", Version: "5.4.6"},
		Paths: model.RuntimePaths{Root: "/runtimes/lua/5.4.6"},
		Loaders: map[string]model.Loader{
			"libs-only": {},
		},
	}
	res := RuntimeDescriptor(rd)
	if !res.OK {
		t.Fatalf("RuntimeDescriptor() OK = false, want true (empty exec_path means libs-only)")
	}
}
