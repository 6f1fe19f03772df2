// Package validate performs structural validation of the three entities
// composition reads before anything downstream trusts their shape: App
// Declaration, Install Record, Runtime Descriptor (spec.md §4.5). Every
// function returns a structured Result rather than an error; validators
// never throw, matching the composer's fail-fast-but-pure contract.
package validate

import (
	"github.com/nah-project/nah/internal/model"
	"github.com/nah-project/nah/internal/pathkernel"
)

// Result is the outcome of one validation pass: either ok with zero or
// more warnings, or not-ok with a critical error class.
type Result struct {
	OK       bool
	Warnings []model.Warning
	Class    model.CriticalErrorClass
	Context  string
}

func ok(warnings ...model.Warning) Result {
	return Result{OK: true, Warnings: warnings}
}

func fail(class model.CriticalErrorClass, context string) Result {
	return Result{OK: false, Class: class, Context: context}
}

// Declaration validates an App Declaration. Failures are critical
// (MANIFEST_MISSING): id, version, and entrypoint_path must be non-empty;
// entrypoint_path, every lib_dirs[i], and every asset_exports[i].path must
// not be absolute. A nak_id present without a nak_version_req produces a
// nak_pin_invalid warning rather than a failure.
func Declaration(app *model.AppDeclaration) Result {
	if app.ID == "" {
		return fail(model.ErrManifestMissing, "app declaration is missing a required id")
	}
	if app.Version == "" {
		return fail(model.ErrManifestMissing, "app declaration is missing a required version")
	}
	if app.EntrypointPath == "" {
		return fail(model.ErrManifestMissing, "app declaration is missing a required entrypoint_path")
	}
	if pathkernel.ContainsNUL(app.EntrypointPath) {
		return fail(model.ErrPathTraversal, "entrypoint_path contains a NUL byte")
	}
	if pathkernel.IsAbsolute(app.EntrypointPath) {
		return fail(model.ErrManifestMissing, "entrypoint_path must be relative, got an absolute path")
	}

	for _, dir := range app.LibDirs {
		if pathkernel.IsAbsolute(dir) {
			return fail(model.ErrManifestMissing, "lib_dirs entry must be relative: "+dir)
		}
	}
	for _, export := range app.AssetExports {
		if pathkernel.IsAbsolute(export.Path) {
			return fail(model.ErrManifestMissing, "asset_exports entry must be relative: "+export.Path)
		}
	}

	var warnings []model.Warning
	if app.NAKID != "" && app.NAKVersionReq == "" {
		warnings = append(warnings, model.Warning{
			Key:    "nak_pin_invalid",
			Action: model.ActionWarn,
			Fields: map[string]string{"nak_id": app.NAKID},
		})
	}

	return ok(warnings...)
}

// InstallRecord validates an Install Record. Failures are critical
// (INSTALL_RECORD_INVALID): instance_id must be non-empty;
// paths.install_root must be non-empty and absolute.
func InstallRecord(rec *model.InstallRecord) Result {
	if rec.Install.InstanceID == "" {
		return fail(model.ErrInstallRecordInvalid, "install record is missing a required instance_id")
	}
	if rec.Paths.InstallRoot == "" {
		return fail(model.ErrInstallRecordInvalid, "install record is missing a required paths.install_root")
	}
	if pathkernel.ContainsNUL(rec.Paths.InstallRoot) {
		return fail(model.ErrPathTraversal, "paths.install_root contains a NUL byte")
	}
	if !pathkernel.IsAbsolute(rec.Paths.InstallRoot) {
		return fail(model.ErrInstallRecordInvalid, "paths.install_root must be absolute")
	}
	return ok()
}

// RuntimeDescriptor validates a Runtime Descriptor. Failures escalate to
// PATH_TRAVERSAL per spec.md §4.5's "declared absolute path isn't" mapping:
// nak.id, nak.version, paths.root must be non-empty; paths.root and every
// paths.lib_dirs[i] must be absolute; every set loaders[*].exec_path must
// be absolute.
func RuntimeDescriptor(rd *model.RuntimeDescriptor) Result {
	if rd.NAK.ID == "" || rd.NAK.Version == "" {
		return fail(model.ErrPathTraversal, "runtime descriptor is missing nak.id or nak.version")
	}
	if rd.Paths.Root == "" {
		return fail(model.ErrPathTraversal, "runtime descriptor is missing paths.root")
	}
	if pathkernel.ContainsNUL(rd.Paths.Root) {
		return fail(model.ErrPathTraversal, "paths.root contains a NUL byte")
	}
	if !pathkernel.IsAbsolute(rd.Paths.Root) {
		return fail(model.ErrPathTraversal, "paths.root must be absolute, got "+rd.Paths.Root)
	}

	for _, dir := range rd.Paths.LibDirs {
		if pathkernel.ContainsNUL(dir) {
			return fail(model.ErrPathTraversal, "paths.lib_dirs entry contains a NUL byte")
		}
		if !pathkernel.IsAbsolute(dir) {
			return fail(model.ErrPathTraversal, "paths.lib_dirs entry must be absolute, got "+dir)
		}
	}

	for name, loader := range rd.Loaders {
		if loader.ExecPath == "" {
			continue
		}
		if pathkernel.ContainsNUL(loader.ExecPath) {
			return fail(model.ErrPathTraversal, "loader "+name+" exec_path contains a NUL byte")
		}
		if !pathkernel.IsAbsolute(loader.ExecPath) {
			return fail(model.ErrPathTraversal, "loader "+name+" exec_path must be absolute, got "+loader.ExecPath)
		}
	}

	return ok()
}
