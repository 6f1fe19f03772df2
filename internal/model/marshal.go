package model

import "encoding/json"

// MarshalContract serializes a Launch Contract to its canonical JSON form.
//
// encoding/json already sorts map keys ascending when marshaling a
// string-keyed map, so Environment and Exports need no separate ordering
// pass to satisfy invariant 5's byte-identical-output guarantee — this
// helper exists as the single call site callers use, so that guarantee
// stays documented in one place instead of re-derived at each call site.
func MarshalContract(c *LaunchContract) ([]byte, error) {
	return json.Marshal(c)
}

// MarshalContractIndent is the indented, human-readable counterpart to
// MarshalContract.
func MarshalContractIndent(c *LaunchContract) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
