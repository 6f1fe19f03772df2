// Package errmsg formats a composition failure with possible causes and
// actionable suggestions, the way the CLI's human-mode error output does
// for every other failure class.
package errmsg

import (
	"fmt"
	"strings"

	"github.com/nah-project/nah/internal/model"
)

// ErrorContext supplies optional details Format can fold into suggestions.
type ErrorContext struct {
	AppID string // the app being composed, if known
	NAKID string // the runtime being resolved, if known
}

// Format renders a *model.CompositionError with possible causes and
// suggestions. Returns err.Error() unchanged for any other error type.
func Format(err error, ctx *ErrorContext) string {
	if err == nil {
		return ""
	}

	cerr, ok := err.(*model.CompositionError)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s: %s\n", cerr.Class, cerr.Context))

	switch cerr.Class {
	case model.ErrManifestMissing:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - The app declaration (nap.json) is missing a required field\n")
		sb.WriteString("  - A declared path is absolute where a relative path is required\n")
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Check that nap.json sets id, version and a relative entrypoint_path\n")
		if ctx != nil && ctx.AppID != "" {
			sb.WriteString(fmt.Sprintf("  - Inspect the extracted payload at apps/%s-<version>/nap.json\n", ctx.AppID))
		}

	case model.ErrInstallRecordInvalid:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - The install record is missing instance_id or paths.install_root\n")
		sb.WriteString("  - The registry file was hand-edited into an inconsistent state\n")
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Run `nah list` to see installed packages and their record paths\n")
		sb.WriteString("  - Reinstall the app to regenerate its install record\n")

	case model.ErrPathTraversal:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - A declared path contains \"..\" and escapes its root\n")
		sb.WriteString("  - A path that must be absolute (runtime or install root) isn't\n")
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Treat this package as untrusted; do not install it\n")
		sb.WriteString("  - Report the issue to the app's publisher\n")

	case model.ErrEntrypointNotFound:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - entrypoint_path does not exist under the install root\n")
		sb.WriteString("  - The app payload was only partially extracted\n")
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Reinstall the app to re-extract its payload\n")
		if ctx != nil && ctx.AppID != "" {
			sb.WriteString(fmt.Sprintf("  - Run `nah uninstall app %s <version>` then reinstall\n", ctx.AppID))
		}

	case model.ErrNAKLoaderInvalid:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - The requested loader name is not defined by the resolved runtime\n")
		sb.WriteString("  - The install record pins a loader the runtime no longer ships\n")
		sb.WriteString("\nSuggestions:\n")
		if ctx != nil && ctx.NAKID != "" {
			sb.WriteString(fmt.Sprintf("  - Inspect runtime %s's nak.json for the loaders it provides\n", ctx.NAKID))
		} else {
			sb.WriteString("  - Inspect the runtime's nak.json for its available loaders\n")
		}
		sb.WriteString("  - Omit --loader to let NAH pick the default loader\n")

	default:
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Run with --json for the full structured result\n")
	}

	return sb.String()
}
