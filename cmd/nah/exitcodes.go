package main

import "os"

// Exit codes, normative per the composer's output contract: scripts and
// hosts distinguish a clean run from one that merely emitted warnings.
const (
	// ExitSuccess indicates a composition with no warnings.
	ExitSuccess = 0

	// ExitGeneral indicates a fatal error: a critical composition failure,
	// an I/O failure reading an entity, or a warning promoted to error.
	ExitGeneral = 1

	// ExitWarnings indicates success with one or more non-fatal warnings.
	ExitWarnings = 2
)

// exitWithCode exits with the specified exit code.
func exitWithCode(code int) {
	os.Exit(code)
}
