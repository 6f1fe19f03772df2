// Package pathbind produces the absolute entrypoint, the ordered library
// search-path vector, and resolved asset-export paths, enforcing
// containment against declared roots throughout (spec.md §4.7).
package pathbind

import (
	"github.com/nah-project/nah/internal/model"
	"github.com/nah-project/nah/internal/pathkernel"
)

// BindEntrypoint joins entrypointPath under appRoot and verifies
// containment. entrypointPath is always relative (enforced by validation),
// so this is a plain join followed by a containment check.
func BindEntrypoint(appRoot, entrypointPath string) (string, *model.CompositionError) {
	joined := pathkernel.Join(appRoot, entrypointPath)
	if pathkernel.EscapesRoot(appRoot, joined) {
		return "", &model.CompositionError{
			Class:   model.ErrPathTraversal,
			Context: "entrypoint path escapes app root: " + entrypointPath,
		}
	}
	return joined, nil
}

// LibraryPathInputs gathers the five layers spec.md §4.7 orders, first
// wins for the dynamic linker.
type LibraryPathInputs struct {
	HostPrepend    []string // HostEnvironment.paths.library_prepend
	InstallPrepend []string // InstallRecord.overrides.paths.library_prepend
	RuntimeLibDirs []string // RuntimeDescriptor.paths.lib_dirs (already absolute)
	AppLibDirs     []string // AppDeclaration.lib_dirs (relative, joined under AppRoot)
	HostAppend     []string // HostEnvironment.paths.library_append
	AppRoot        string   // containment root for the AppLibDirs join
}

// BindLibraryPaths assembles the ordered library search-path vector.
// HostPrepend and InstallPrepend entries that are not absolute are
// discarded with an invalid_library_path warning rather than failing the
// whole binding; an AppLibDirs join that escapes AppRoot is a fatal
// PATH_TRAVERSAL, since that join is the only one derived from a relative,
// untrusted input.
func BindLibraryPaths(in LibraryPathInputs) ([]string, []model.Warning, *model.CompositionError) {
	var paths []string
	var warnings []model.Warning

	for _, p := range in.HostPrepend {
		if pathkernel.IsAbsolute(p) {
			paths = append(paths, p)
		} else {
			warnings = append(warnings, invalidLibraryPathWarning(p))
		}
	}

	for _, p := range in.InstallPrepend {
		if pathkernel.IsAbsolute(p) {
			paths = append(paths, p)
		} else {
			warnings = append(warnings, invalidLibraryPathWarning(p))
		}
	}

	paths = append(paths, in.RuntimeLibDirs...)

	for _, rel := range in.AppLibDirs {
		joined := pathkernel.Join(in.AppRoot, rel)
		if pathkernel.EscapesRoot(in.AppRoot, joined) {
			return nil, nil, &model.CompositionError{
				Class:   model.ErrPathTraversal,
				Context: "lib_dirs entry escapes app root: " + rel,
			}
		}
		paths = append(paths, joined)
	}

	paths = append(paths, in.HostAppend...)

	return paths, warnings, nil
}

// BindAssetExports joins each declared asset export under appRoot,
// verifying containment. An escaping export is a fatal PATH_TRAVERSAL, per
// spec.md §4.7.
func BindAssetExports(appRoot string, exports []model.AssetMetadata) (map[string]model.ExportEntry, *model.CompositionError) {
	result := make(map[string]model.ExportEntry, len(exports))

	for _, export := range exports {
		joined := pathkernel.Join(appRoot, export.Path)
		if pathkernel.EscapesRoot(appRoot, joined) {
			return nil, &model.CompositionError{
				Class:   model.ErrPathTraversal,
				Context: "asset export escapes app root: " + export.Path,
			}
		}
		result[export.ID] = model.ExportEntry{
			ID:           export.ID,
			AbsolutePath: joined,
			Type:         export.Type,
		}
	}

	return result, nil
}

func invalidLibraryPathWarning(path string) model.Warning {
	return model.Warning{
		Key:    "invalid_library_path",
		Action: model.ActionWarn,
		Fields: map[string]string{"path": path},
	}
}
