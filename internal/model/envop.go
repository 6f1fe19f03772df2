package model

import (
	"encoding/json"
	"fmt"
)

// Op names an environment algebra operation (spec §4.4).
type Op string

const (
	OpSet     Op = "set"
	OpPrepend Op = "prepend"
	OpAppend  Op = "append"
	OpUnset   Op = "unset"
)

// DefaultSeparator is used when an EnvOp does not specify one.
const DefaultSeparator = ":"

// EnvOp is an environment operation: set/prepend/append/unset a value,
// joined with Separator when combining with an existing value. A bare JSON
// string is shorthand for {op:set, value:<string>}.
type EnvOp struct {
	Op        Op     `json:"op"`
	Value     string `json:"value"`
	Separator string `json:"separator,omitempty"`
}

// EffectiveSeparator returns Separator, or DefaultSeparator if unset.
func (e EnvOp) EffectiveSeparator() string {
	if e.Separator == "" {
		return DefaultSeparator
	}
	return e.Separator
}

// UnmarshalJSON accepts either a bare string (implies op:set) or the full
// {op,value,separator} object form, per spec.md §6's record-file schema note.
func (e *EnvOp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Op = OpSet
		e.Value = s
		e.Separator = ""
		return nil
	}

	type envOpAlias EnvOp
	var aux envOpAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("env op must be a string or an object with op/value/separator: %w", err)
	}
	if aux.Op == "" {
		aux.Op = OpSet
	}
	*e = EnvOp(aux)
	return nil
}
