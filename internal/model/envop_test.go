package model

import (
	"encoding/json"
	"testing"
)

func TestEnvOp_UnmarshalJSON_BareString(t *testing.T) {
	var op EnvOp
	if err := json.Unmarshal([]byte(`"/usr/bin"`), &op); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if op.Op != OpSet {
		t.Errorf("Op = %q, want %q", op.Op, OpSet)
	}
	if op.Value != "/usr/bin" {
		t.Errorf("Value = %q, want %q", op.Value, "/usr/bin")
	}
}

func TestEnvOp_UnmarshalJSON_FullObject(t *testing.T) {
	var op EnvOp
	raw := `{"op":"prepend","value":"./?.lua","separator":";"}`
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if op.Op != OpPrepend {
		t.Errorf("Op = %q, want %q", op.Op, OpPrepend)
	}
	if op.Value != "./?.lua" {
		t.Errorf("Value = %q, want %q", op.Value, "./?.lua")
	}
	if op.Separator != ";" {
		t.Errorf("Separator = %q, want %q", op.Separator, ";")
	}
}

func TestEnvOp_UnmarshalJSON_ObjectWithoutOp(t *testing.T) {
	var op EnvOp
	raw := `{"value":"warn"}`
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if op.Op != OpSet {
		t.Errorf("Op = %q, want %q (default)", op.Op, OpSet)
	}
}

func TestEnvOp_UnmarshalJSON_Invalid(t *testing.T) {
	var op EnvOp
	if err := json.Unmarshal([]byte(`42`), &op); err == nil {
		t.Fatal("Unmarshal() expected error for a bare number, got nil")
	}
}

func TestEnvOp_EffectiveSeparator_Default(t *testing.T) {
	op := EnvOp{Op: OpAppend, Value: "x"}
	if got := op.EffectiveSeparator(); got != DefaultSeparator {
		t.Errorf("EffectiveSeparator() = %q, want %q", got, DefaultSeparator)
	}
}

func TestEnvOp_EffectiveSeparator_Explicit(t *testing.T) {
	op := EnvOp{Op: OpAppend, Value: "x", Separator: ";"}
	if got := op.EffectiveSeparator(); got != ";" {
		t.Errorf("EffectiveSeparator() = %q, want %q", got, ";")
	}
}
