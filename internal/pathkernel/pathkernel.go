// Package pathkernel implements pure path-string operations used to keep
// every resolved path inside its declared root. It never touches the
// filesystem: every function operates on strings alone.
package pathkernel

import (
	"runtime"
	"strings"
)

// IsAbsolute reports whether p is an absolute path for the build's target
// OS: a leading "/" on non-Windows, or a drive letter / UNC prefix on
// Windows.
func IsAbsolute(p string) bool {
	if runtime.GOOS == "windows" {
		return isAbsoluteWindows(p)
	}
	return strings.HasPrefix(p, "/")
}

func isAbsoluteWindows(p string) bool {
	if strings.HasPrefix(p, `\\`) || strings.HasPrefix(p, "//") {
		return true
	}
	if len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		return true
	}
	return false
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// NormalizeSeparators replaces backslashes with forward slashes, producing
// the canonical form used for every stored or serialised path.
func NormalizeSeparators(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Join concatenates base and rel with a single forward slash, preserving
// forward-slash form. It does not resolve "." or ".." components.
func Join(base, rel string) string {
	base = NormalizeSeparators(strings.TrimRight(base, "/"))
	rel = NormalizeSeparators(strings.TrimLeft(rel, "/"))
	if rel == "" {
		return base
	}
	if base == "" {
		return rel
	}
	return base + "/" + rel
}

// resolveComponents walks the "/"-separated components of p, collapsing
// "." and resolving ".." against what has been accumulated so far. Empty
// components are dropped, so an absolute and a relative spelling of the
// same path yield the same slice; ".." at the top is discarded.
func resolveComponents(p string) []string {
	parts := strings.Split(p, "/")
	var out []string
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, part)
		}
	}
	return out
}

// EscapesRoot returns true if candidate, after normalisation and
// component-wise resolution of "." and "..", is not a prefix-subpath of
// root. It rejects explicit traversal ("..") and prefix-spoofing
// ("/app" vs "/application") alike: after the root prefix, the next
// character must be "/" or end-of-string.
func EscapesRoot(root, candidate string) bool {
	rootParts := resolveComponents(NormalizeSeparators(root))
	candidateParts := resolveComponents(NormalizeSeparators(candidate))

	if len(candidateParts) < len(rootParts) {
		return true
	}
	for i, part := range rootParts {
		if candidateParts[i] != part {
			return true
		}
	}
	return false
}

// ContainsNUL reports whether p contains a NUL byte, which is a hard
// rejection (PATH_TRAVERSAL) wherever a path is accepted.
func ContainsNUL(p string) bool {
	return strings.IndexByte(p, 0) >= 0
}
