// Package envalgebra applies set/prepend/append/unset environment
// operations to an accumulating environment map, the per-layer step the
// composer runs once for each precedence layer (spec.md §4.4, §4.8).
package envalgebra

import "github.com/nah-project/nah/internal/model"

// Apply runs op against key k in the accumulating map m, mutating m in
// place. A plain string literal is represented by the caller as
// model.EnvOp{Op: model.OpSet, Value: s} (model.EnvOp's UnmarshalJSON does
// this translation for values loaded from records).
func Apply(m map[string]string, k string, op model.EnvOp) {
	switch op.Op {
	case model.OpSet:
		m[k] = op.Value

	case model.OpPrepend:
		if existing, ok := m[k]; ok && existing != "" {
			m[k] = op.Value + op.EffectiveSeparator() + existing
		} else {
			m[k] = op.Value
		}

	case model.OpAppend:
		if existing, ok := m[k]; ok && existing != "" {
			m[k] = existing + op.EffectiveSeparator() + op.Value
		} else {
			m[k] = op.Value
		}

	case model.OpUnset:
		delete(m, k)
	}
}

// ApplyLayer applies every operation in layer to m in map-iteration order.
// Callers that need deterministic output should sort keys before calling
// this when order across distinct keys matters for some secondary effect;
// order does not matter for the final map contents, since each key is
// independent.
func ApplyLayer(m map[string]string, layer map[string]model.EnvOp) {
	for k, op := range layer {
		Apply(m, k, op)
	}
}

// FillOnly applies layer to m the way App manifest defaults are applied:
// only keys not already present in m are set, and only via model.OpSet
// semantics (a manifest default value is a plain string, never an
// algebraic operation, per spec.md §3's "fill-only semantics" note).
func FillOnly(m map[string]string, k, value string) {
	if _, exists := m[k]; !exists {
		m[k] = value
	}
}
