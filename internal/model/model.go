// Package model defines the NAH data model: the entities composition reads
// (App Declaration, Host Environment, Install Record, Runtime Descriptor,
// Runtime Inventory, Trust Info) and the entity it produces (Launch
// Contract). The loaders in internal/installrec and internal/naksinv
// decode JSON as is: an optional collection absent from the input stays
// nil.
package model

// AssetMetadata describes one exported asset from an App Declaration.
type AssetMetadata struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Type string `json:"type,omitempty"`
}

// DeclarationMetadata holds optional descriptive fields for an app.
type DeclarationMetadata struct {
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	License     string `json:"license,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
}

// Component is an ordered sub-unit of an App Declaration (spec.md §4.8
// references components without further elaboration beyond ordering; NAH
// treats them as opaque named sub-bundles carried through unmodified).
type Component struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// AppDeclaration is the app's self-description (NAP), immutable after build.
type AppDeclaration struct {
	Schema string `json:"$schema,omitempty"`

	ID             string   `json:"id"`
	Version        string   `json:"version"`
	EntrypointPath string   `json:"entrypoint_path"`
	NAKID          string   `json:"nak_id,omitempty"`
	NAKVersionReq  string   `json:"nak_version_req,omitempty"`
	NAKLoader      string   `json:"nak_loader,omitempty"`
	EntrypointArgs []string `json:"entrypoint_args,omitempty"`

	EnvVars []string `json:"env_vars,omitempty"`

	LibDirs      []string        `json:"lib_dirs,omitempty"`
	AssetDirs    []string        `json:"asset_dirs,omitempty"`
	AssetExports []AssetMetadata `json:"asset_exports,omitempty"`

	PermissionsFilesystem []string `json:"permissions_filesystem,omitempty"`
	PermissionsNetwork    []string `json:"permissions_network,omitempty"`

	Metadata   *DeclarationMetadata `json:"metadata,omitempty"`
	Components []Component          `json:"components,omitempty"`
}

// HostPaths holds host-declared library search-path extensions.
type HostPaths struct {
	LibraryPrepend []string `json:"library_prepend,omitempty"`
	LibraryAppend  []string `json:"library_append,omitempty"`
}

// OverridePolicy gates process-environment overrides (C9).
type OverridePolicy struct {
	AllowEnvOverrides bool     `json:"allow_env_overrides"`
	AllowedEnvKeys    []string `json:"allowed_env_keys,omitempty"`
}

// HostEnvironment is per-site configuration, mutable by the host.
type HostEnvironment struct {
	Schema string `json:"$schema,omitempty"`

	Vars      map[string]EnvOp `json:"vars,omitempty"`
	Paths     HostPaths        `json:"paths,omitempty"`
	Overrides OverridePolicy   `json:"overrides,omitempty"`
}

// AppSnapshot is an audit-only copy of declared app identity, captured at
// install time. It MUST NOT affect composition (spec.md §3).
type AppSnapshot struct {
	ID      string `json:"id,omitempty"`
	Version string `json:"version,omitempty"`
}

// NAKPin is the runtime pin recorded at install time.
type NAKPin struct {
	ID              string `json:"id,omitempty"`
	Version         string `json:"version,omitempty"`
	RecordRef       string `json:"record_ref,omitempty"`
	Loader          string `json:"loader,omitempty"`
	SelectionReason string `json:"selection_reason,omitempty"`
}

// Provenance records where an installed package came from.
type Provenance struct {
	PackageHash string `json:"package_hash,omitempty"`
	InstalledAt string `json:"installed_at,omitempty"`
	InstalledBy string `json:"installed_by,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ArgumentOverrides prepends/appends entrypoint arguments at install time.
type ArgumentOverrides struct {
	Prepend []string `json:"prepend,omitempty"`
	Append  []string `json:"append,omitempty"`
}

// PathOverrides prepends library search paths at install time.
type PathOverrides struct {
	LibraryPrepend []string `json:"library_prepend,omitempty"`
}

// InstallOverrides holds install-time overrides layered during composition.
type InstallOverrides struct {
	Environment map[string]EnvOp `json:"environment,omitempty"`
	Arguments   ArgumentOverrides `json:"arguments,omitempty"`
	Paths       PathOverrides     `json:"paths,omitempty"`
}

// InstallPaths identifies where an installed package's bits live on disk.
type InstallPaths struct {
	InstallRoot string `json:"install_root"`
}

// InstallIdentity names the install instance.
type InstallIdentity struct {
	InstanceID string `json:"instance_id"`
}

// InstallRecord links an installed app to its pinned runtime and on-disk
// root. Mutable by the host, written once at install.
type InstallRecord struct {
	Schema string `json:"$schema,omitempty"`

	Install    InstallIdentity  `json:"install"`
	Paths      InstallPaths     `json:"paths"`
	NAK        NAKPin           `json:"nak,omitempty"`
	App        AppSnapshot      `json:"app,omitempty"`
	Provenance Provenance       `json:"provenance,omitempty"`
	Trust      TrustInfo        `json:"trust,omitempty"`
	Overrides  InstallOverrides `json:"overrides,omitempty"`
}

// RuntimePaths locates a runtime's payload on disk.
type RuntimePaths struct {
	Root         string   `json:"root"`
	ResourceRoot string   `json:"resource_root,omitempty"`
	LibDirs      []string `json:"lib_dirs,omitempty"`
}

// Loader is a named invocation template that wraps the app entrypoint.
type Loader struct {
	ExecPath     string   `json:"exec_path,omitempty"`
	ArgsTemplate []string `json:"args_template,omitempty"`
}

// RuntimeExecution holds optional execution defaults for a runtime.
type RuntimeExecution struct {
	Cwd string `json:"cwd,omitempty"`
}

// RuntimeIdentity names a runtime/NAK.
type RuntimeIdentity struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// RuntimeDescriptor is an installed runtime/SDK's manifest, immutable after
// package build.
type RuntimeDescriptor struct {
	Schema string `json:"$schema,omitempty"`

	NAK         RuntimeIdentity  `json:"nak"`
	Paths       RuntimePaths     `json:"paths"`
	Environment map[string]EnvOp `json:"environment,omitempty"`
	Loaders     map[string]Loader `json:"loaders,omitempty"`
	Execution   RuntimeExecution  `json:"execution,omitempty"`
}

// RuntimeInventory maps a record_ref to the Runtime Descriptor it names.
type RuntimeInventory map[string]RuntimeDescriptor

// TrustState is one of verified/unverified/failed/unknown.
type TrustState string

const (
	TrustVerified   TrustState = "verified"
	TrustUnverified TrustState = "unverified"
	TrustFailed     TrustState = "failed"
	TrustUnknown    TrustState = "unknown"
)

// TrustInfo is carried through composition unmodified, informationally.
type TrustInfo struct {
	State       TrustState        `json:"state,omitempty"`
	Source      string            `json:"source,omitempty"`
	EvaluatedAt string            `json:"evaluated_at,omitempty"`
	ExpiresAt   string            `json:"expires_at,omitempty"`
	InputsHash  string            `json:"inputs_hash,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}
