// Package compose implements the NAH composer (C8): the single-threaded,
// purely computational state machine that turns an App Declaration, an
// Install Record, a Host Environment, and a Runtime Inventory into a
// Launch Contract (spec.md §4.8). It owns no state across calls and
// performs no I/O; every collaborator it calls (C1-C7) is equally
// pure, so a host may invoke Compose from as many goroutines as it likes
// as long as each call owns its own inputs.
package compose

import (
	"runtime"
	"sort"
	"strings"

	"github.com/nah-project/nah/internal/envalgebra"
	"github.com/nah-project/nah/internal/model"
	"github.com/nah-project/nah/internal/pathbind"
	"github.com/nah-project/nah/internal/pathkernel"
	"github.com/nah-project/nah/internal/placeholder"
	"github.com/nah-project/nah/internal/runtimeresolve"
	"github.com/nah-project/nah/internal/validate"
)

// Options carries the caller-supplied knobs the pure core needs but that
// don't belong in any on-disk entity: an explicit loader choice, the
// current time for trust staleness checks, and the trace opt-in.
type Options struct {
	LoaderOverride string
	Now            string // RFC3339; empty means "not supplied", staleness is never checked
	EnableTrace    bool
	TraceBudget    int // max entries retained per trace list; <=0 means unbounded
}

// EnvWrite is one accepted write to the composed environment map, recorded
// only when Options.EnableTrace is set.
type EnvWrite struct {
	Key            string `json:"key"`
	Value          string `json:"value"`
	SourceKind     string `json:"source_kind"`
	SourcePath     string `json:"source_path"`
	PrecedenceRank int    `json:"precedence_rank"`
	Operation      string `json:"operation"`
	Accepted       bool   `json:"accepted"`
}

// Trace is the decision log, present only when Options.EnableTrace is set.
// It is diagnostic output, never part of the Launch Contract. Budget, when
// positive, bounds each list to its most recent entries so a pathological
// manifest (thousands of env_vars) can't grow the trace without limit.
type Trace struct {
	Writes    []EnvWrite
	Decisions []string
	Budget    int
}

func (t *Trace) record(w EnvWrite) {
	if t == nil {
		return
	}
	t.Writes = append(t.Writes, w)
	if t.Budget > 0 && len(t.Writes) > t.Budget {
		t.Writes = t.Writes[len(t.Writes)-t.Budget:]
	}
}

func (t *Trace) note(decision string) {
	if t == nil {
		return
	}
	t.Decisions = append(t.Decisions, decision)
	if t.Budget > 0 && len(t.Decisions) > t.Budget {
		t.Decisions = t.Decisions[len(t.Decisions)-t.Budget:]
	}
}

// Result is everything a single Compose call produces: the contract on
// success, accumulated warnings either way, and the critical error on
// failure. The composer never panics and never returns a Go error — every
// halting condition is a *model.CompositionError carried in Error.
type Result struct {
	Contract *model.LaunchContract
	Warnings []model.Warning
	Error    *model.CompositionError
	Trace    *Trace
}

func fail(warnings []model.Warning, trace *Trace, class model.CriticalErrorClass, context string) Result {
	trace.note("failed-" + string(class))
	return Result{Warnings: warnings, Error: &model.CompositionError{Class: class, Context: context}, Trace: trace}
}

// Compose runs the full START..DONE pipeline described in spec.md §4.8.
func Compose(app *model.AppDeclaration, host *model.HostEnvironment, install *model.InstallRecord, inventory model.RuntimeInventory, opts Options) Result {
	var warnings []model.Warning
	var trace *Trace
	if opts.EnableTrace {
		trace = &Trace{Budget: opts.TraceBudget}
	}

	// VALIDATE_DECL
	declResult := validate.Declaration(app)
	warnings = append(warnings, declResult.Warnings...)
	if !declResult.OK {
		return fail(warnings, trace, declResult.Class, declResult.Context)
	}
	trace.note("validated-declaration")

	// VALIDATE_INSTALL
	installResult := validate.InstallRecord(install)
	warnings = append(warnings, installResult.Warnings...)
	if !installResult.OK {
		return fail(warnings, trace, installResult.Class, installResult.Context)
	}
	trace.note("validated-install-record")

	appRoot := install.Paths.InstallRoot

	// RESOLVE_RUNTIME
	resolved := runtimeresolve.Resolve(app, install, inventory)
	if resolved.Warning != nil {
		warnings = append(warnings, *resolved.Warning)
	}
	trace.note("resolved-runtime-" + string(resolved.Outcome))

	var rd *model.RuntimeDescriptor
	if resolved.Outcome == runtimeresolve.OutcomeResolved {
		rd = resolved.Descriptor

		// VALIDATE_RUNTIME
		rdResult := validate.RuntimeDescriptor(rd)
		warnings = append(warnings, rdResult.Warnings...)
		if !rdResult.OK {
			return fail(warnings, trace, rdResult.Class, rdResult.Context)
		}
		trace.note("validated-runtime-descriptor")
	}

	// BIND_PATHS
	entrypoint, cerr := pathbind.BindEntrypoint(appRoot, app.EntrypointPath)
	if cerr != nil {
		return fail(warnings, trace, cerr.Class, cerr.Context)
	}

	libInputs := pathbind.LibraryPathInputs{
		AppLibDirs: app.LibDirs,
		AppRoot:    appRoot,
	}
	if host != nil {
		libInputs.HostPrepend = host.Paths.LibraryPrepend
		libInputs.HostAppend = host.Paths.LibraryAppend
	}
	libInputs.InstallPrepend = install.Overrides.Paths.LibraryPrepend
	if rd != nil {
		libInputs.RuntimeLibDirs = rd.Paths.LibDirs
	}

	libraryPaths, libWarnings, cerr := pathbind.BindLibraryPaths(libInputs)
	warnings = append(warnings, libWarnings...)
	if cerr != nil {
		return fail(warnings, trace, cerr.Class, cerr.Context)
	}

	exports, cerr := pathbind.BindAssetExports(appRoot, app.AssetExports)
	if cerr != nil {
		return fail(warnings, trace, cerr.Class, cerr.Context)
	}
	trace.note("bound-paths")

	// COMPOSE_ENV
	env := make(map[string]string)

	if host != nil {
		applyLayerTraced(env, host.Vars, "host", "host.json", 5, trace)
	}
	if rd != nil {
		applyLayerTraced(env, rd.Environment, "nak_record", install.NAK.RecordRef, 4, trace)
	}
	for _, kv := range app.EnvVars {
		k, v := splitEnvVar(kv)
		if k == "" {
			continue
		}
		before, existed := env[k]
		envalgebra.FillOnly(env, k, v)
		trace.record(EnvWrite{
			Key: k, Value: env[k], SourceKind: "manifest", SourcePath: "nap.json",
			PrecedenceRank: 3, Operation: "fill", Accepted: !existed || env[k] != before,
		})
	}
	applyLayerTraced(env, install.Overrides.Environment, "install_record", "install record", 2, trace)

	standard := map[string]string{
		"NAH_APP_ID":      app.ID,
		"NAH_APP_VERSION": app.Version,
		"NAH_APP_ROOT":    appRoot,
		"NAH_APP_ENTRY":   entrypoint,
	}
	if rd != nil {
		standard["NAH_NAK_ID"] = rd.NAK.ID
		standard["NAH_NAK_VERSION"] = rd.NAK.Version
		standard["NAH_NAK_ROOT"] = rd.Paths.Root
	}
	stdKeys := make([]string, 0, len(standard))
	for k := range standard {
		stdKeys = append(stdKeys, k)
	}
	sort.Strings(stdKeys)
	for _, k := range stdKeys {
		env[k] = standard[k]
		trace.record(EnvWrite{
			Key: k, Value: standard[k], SourceKind: "nah_standard", SourcePath: "",
			PrecedenceRank: 1, Operation: "set", Accepted: true,
		})
	}
	trace.note("composed-environment")

	// SELECT_LOADER
	var chosenLoader *model.Loader
	var loaderName string
	if rd != nil {
		loader, name, loaderErr, warning := selectLoader(rd, install, opts)
		if loaderErr != nil {
			return fail(warnings, trace, loaderErr.Class, loaderErr.Context)
		}
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		chosenLoader = loader
		loaderName = name
	}
	if loaderName != "" {
		trace.note("loader-selected-" + loaderName)
	}

	// ASSEMBLE_ARGS
	var binary string
	var args []string

	expandString := func(s string) string {
		res := placeholder.Expand(s, env)
		if !res.OK {
			warnings = append(warnings, model.Warning{
				Key:    "invalid_manifest",
				Action: model.ActionWarn,
				Fields: map[string]string{"reason": string(res.Reason)},
			})
			return s
		}
		for _, missing := range placeholder.MissingNames(s, env) {
			warnings = append(warnings, model.Warning{
				Key:    "missing_env_var",
				Action: model.ActionWarn,
				Fields: map[string]string{"name": missing},
			})
		}
		return res.Value
	}

	args = append(args, install.Overrides.Arguments.Prepend...)
	if chosenLoader != nil {
		binary = chosenLoader.ExecPath
		args = append(args, chosenLoader.ArgsTemplate...)
	} else {
		binary = entrypoint
	}
	args = append(args, app.EntrypointArgs...)
	args = append(args, install.Overrides.Arguments.Append...)

	for i, a := range args {
		args[i] = expandString(a)
	}
	trace.note("assembled-arguments")

	// RESOLVE_CWD
	cwd := appRoot
	if rd != nil && rd.Execution.Cwd != "" {
		expanded := expandString(rd.Execution.Cwd)
		if pathkernel.IsAbsolute(expanded) {
			cwd = expanded
		} else {
			cwd = pathkernel.Join(rd.Paths.Root, expanded)
		}
	}
	trace.note("resolved-cwd")

	// EXPAND_ENV: run every composed value through the expander exactly
	// once, against the map as it stands before this pass.
	snapshot := make(map[string]string, len(env))
	for k, v := range env {
		snapshot[k] = v
	}
	for k, v := range snapshot {
		res := placeholder.Expand(v, snapshot)
		if !res.OK {
			warnings = append(warnings, model.Warning{
				Key:    "invalid_manifest",
				Action: model.ActionWarn,
				Fields: map[string]string{"reason": string(res.Reason), "key": k},
			})
			continue
		}
		env[k] = res.Value
		for _, missing := range placeholder.MissingNames(v, snapshot) {
			warnings = append(warnings, model.Warning{
				Key:    "missing_env_var",
				Action: model.ActionWarn,
				Fields: map[string]string{"name": missing, "key": k},
			})
		}
	}
	trace.note("expanded-environment")

	// TRUST_EVAL
	trust := install.Trust
	switch trust.State {
	case model.TrustUnverified:
		warnings = append(warnings, model.Warning{Key: "trust_state_unverified", Action: model.ActionWarn})
	case model.TrustFailed:
		warnings = append(warnings, model.Warning{Key: "trust_state_failed", Action: model.ActionWarn})
	case model.TrustUnknown, "":
		warnings = append(warnings, model.Warning{Key: "trust_state_unknown", Action: model.ActionWarn})
	}
	if trust.ExpiresAt != "" && opts.Now != "" {
		if normalizeTimestamp(opts.Now) > normalizeTimestamp(trust.ExpiresAt) {
			warnings = append(warnings, model.Warning{Key: "trust_state_stale", Action: model.ActionWarn})
		}
	}
	trace.note("evaluated-trust")

	libKey, _ := libraryPathEnvKeyAndSeparator()

	contract := &model.LaunchContract{
		Schema: "nah.launch_contract/v1",
		App: model.ContractApp{
			ID: app.ID, Version: app.Version, Root: appRoot, Entrypoint: entrypoint,
		},
		Execution: model.Execution{
			Binary: binary, Arguments: args, Cwd: cwd,
			LibraryPathEnvKey: libKey, LibraryPaths: libraryPaths,
		},
		Environment: env,
		Enforcement: model.Enforcement{
			Filesystem: app.PermissionsFilesystem,
			Network:    app.PermissionsNetwork,
		},
		Trust:   trust,
		Exports: exports,
	}
	if rd != nil {
		contract.NAK = model.ContractNAK{
			ID: rd.NAK.ID, Version: rd.NAK.Version, Root: rd.Paths.Root,
			ResourceRoot: rd.Paths.ResourceRoot, RecordRef: install.NAK.RecordRef,
		}
	}

	trace.note("done")
	return Result{Contract: contract, Warnings: warnings, Trace: trace}
}

// applyLayerTraced runs ApplyLayer and, when trace is non-nil, records one
// EnvWrite per key touched. Keys are visited in sorted order so trace
// output (when present) is itself deterministic.
func applyLayerTraced(env map[string]string, layer map[string]model.EnvOp, sourceKind, sourcePath string, rank int, trace *Trace) {
	if len(layer) == 0 {
		return
	}
	keys := make([]string, 0, len(layer))
	for k := range layer {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		op := layer[k]
		envalgebra.Apply(env, k, op)
		trace.record(EnvWrite{
			Key: k, Value: env[k], SourceKind: sourceKind, SourcePath: sourcePath,
			PrecedenceRank: rank, Operation: string(op.Op), Accepted: true,
		})
	}
}

// splitEnvVar parses a manifest env_vars entry of the form "KEY=value" into
// its parts; an entry without "=" is ignored (nothing to fill).
func splitEnvVar(kv string) (string, string) {
	idx := strings.IndexByte(kv, '=')
	if idx < 0 {
		return "", ""
	}
	return kv[:idx], kv[idx+1:]
}

// selectLoader picks a loader in priority order: the loader override, the
// install record's pinned loader, "default", the only loader when exactly
// one exists; otherwise it returns a nak_loader_required warning.
func selectLoader(rd *model.RuntimeDescriptor, install *model.InstallRecord, opts Options) (*model.Loader, string, *model.CompositionError, *model.Warning) {
	if opts.LoaderOverride != "" {
		if l, ok := rd.Loaders[opts.LoaderOverride]; ok {
			return &l, opts.LoaderOverride, nil, nil
		}
		return nil, "", &model.CompositionError{
			Class:   model.ErrNAKLoaderInvalid,
			Context: "loader override \"" + opts.LoaderOverride + "\" not found in runtime",
		}, nil
	}
	if install.NAK.Loader != "" {
		if l, ok := rd.Loaders[install.NAK.Loader]; ok {
			return &l, install.NAK.Loader, nil, nil
		}
		return nil, "", &model.CompositionError{
			Class:   model.ErrNAKLoaderInvalid,
			Context: "pinned loader \"" + install.NAK.Loader + "\" not found in runtime",
		}, nil
	}
	if l, ok := rd.Loaders["default"]; ok {
		return &l, "default", nil, nil
	}
	if len(rd.Loaders) == 1 {
		for name, l := range rd.Loaders {
			return &l, name, nil, nil
		}
	}
	return nil, "", nil, &model.Warning{Key: "nak_loader_required", Action: model.ActionWarn}
}

// libraryPathEnvKeyAndSeparator names the platform's dynamic-linker search
// path variable and its separator (spec.md §6).
func libraryPathEnvKeyAndSeparator() (string, string) {
	switch runtime.GOOS {
	case "darwin":
		return "DYLD_LIBRARY_PATH", ":"
	case "windows":
		return "PATH", ";"
	default:
		return "LD_LIBRARY_PATH", ":"
	}
}

// normalizeTimestamp folds the +00:00/-00:00 UTC suffix spellings to Z so
// RFC3339 lexicographic comparison equals chronological comparison.
func normalizeTimestamp(ts string) string {
	ts = strings.TrimSuffix(ts, "+00:00")
	ts = strings.TrimSuffix(ts, "-00:00")
	if !strings.HasSuffix(ts, "Z") {
		return ts + "Z"
	}
	return ts
}
