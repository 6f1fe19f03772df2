package errmsg

import (
	"errors"
	"strings"
	"testing"

	"github.com/nah-project/nah/internal/model"
)

func TestFormat_NilError(t *testing.T) {
	if result := Format(nil, nil); result != "" {
		t.Errorf("expected empty string for nil error, got %q", result)
	}
}

func TestFormat_GenericError(t *testing.T) {
	err := errors.New("something went wrong")
	if result := Format(err, nil); result != "something went wrong" {
		t.Errorf("expected original error message, got %q", result)
	}
}

func TestFormat_ManifestMissing(t *testing.T) {
	err := &model.CompositionError{Class: model.ErrManifestMissing, Context: "missing entrypoint_path"}
	result := Format(err, &ErrorContext{AppID: "com.example.game"})

	for _, check := range []string{"MANIFEST_MISSING", "missing entrypoint_path", "Possible causes:", "Suggestions:", "relative entrypoint_path", "com.example.game"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_PathTraversal(t *testing.T) {
	err := &model.CompositionError{Class: model.ErrPathTraversal, Context: "entrypoint escapes app root"}
	result := Format(err, nil)

	for _, check := range []string{"PATH_TRAVERSAL", "escapes", "untrusted"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_NAKLoaderInvalid(t *testing.T) {
	err := &model.CompositionError{Class: model.ErrNAKLoaderInvalid, Context: "loader \"jit\" not found"}
	result := Format(err, &ErrorContext{NAKID: "lua"})

	for _, check := range []string{"NAK_LOADER_INVALID", "runtime lua's nak.json", "--loader"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_InstallRecordInvalid(t *testing.T) {
	err := &model.CompositionError{Class: model.ErrInstallRecordInvalid, Context: "missing instance_id"}
	result := Format(err, nil)

	if !strings.Contains(result, "INSTALL_RECORD_INVALID") {
		t.Errorf("expected result to contain class name, got:\n%s", result)
	}
}

func TestFormat_EntrypointNotFound(t *testing.T) {
	err := &model.CompositionError{Class: model.ErrEntrypointNotFound, Context: "main.lua not found"}
	result := Format(err, &ErrorContext{AppID: "com.example.game"})

	for _, check := range []string{"ENTRYPOINT_NOT_FOUND", "nah uninstall app com.example.game"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}
