package envalgebra

import (
	"testing"

	"github.com/nah-project/nah/internal/model"
)

func TestApply_Set(t *testing.T) {
	m := map[string]string{}
	Apply(m, "LOG", model.EnvOp{Op: model.OpSet, Value: "info"})
	if m["LOG"] != "info" {
		t.Errorf("m[LOG] = %q, want %q", m["LOG"], "info")
	}
}

func TestApply_PrependWithExisting(t *testing.T) {
	m := map[string]string{"LUA_PATH": "/usr/share/lua/?.lua"}
	Apply(m, "LUA_PATH", model.EnvOp{Op: model.OpPrepend, Value: "./?.lua", Separator: ";"})
	want := "./?.lua;/usr/share/lua/?.lua"
	if m["LUA_PATH"] != want {
		t.Errorf("m[LUA_PATH] = %q, want %q", m["LUA_PATH"], want)
	}
}

func TestApply_PrependWithoutExisting(t *testing.T) {
	m := map[string]string{}
	Apply(m, "LUA_PATH", model.EnvOp{Op: model.OpPrepend, Value: "./?.lua"})
	if m["LUA_PATH"] != "./?.lua" {
		t.Errorf("m[LUA_PATH] = %q, want %q", m["LUA_PATH"], "./?.lua")
	}
}

func TestApply_Append(t *testing.T) {
	m := map[string]string{"PATH": "/usr/bin"}
	Apply(m, "PATH", model.EnvOp{Op: model.OpAppend, Value: "/opt/bin"})
	if m["PATH"] != "/usr/bin:/opt/bin" {
		t.Errorf("m[PATH] = %q, want %q", m["PATH"], "/usr/bin:/opt/bin")
	}
}

func TestApply_Unset(t *testing.T) {
	m := map[string]string{"DEBUG": "1"}
	Apply(m, "DEBUG", model.EnvOp{Op: model.OpUnset})
	if _, ok := m["DEBUG"]; ok {
		t.Error("m[DEBUG] should be removed after unset")
	}
}

func TestApply_PrependOverEmptyExisting(t *testing.T) {
	m := map[string]string{"X": ""}
	Apply(m, "X", model.EnvOp{Op: model.OpPrepend, Value: "a"})
	if m["X"] != "a" {
		t.Errorf("m[X] = %q, want %q (empty existing value treated as absent)", m["X"], "a")
	}
}

func TestFillOnly_DoesNotOverwrite(t *testing.T) {
	m := map[string]string{"LOG": "error"}
	FillOnly(m, "LOG", "debug")
	if m["LOG"] != "error" {
		t.Errorf("m[LOG] = %q, want %q (fill-only must not override an existing value)", m["LOG"], "error")
	}
}

func TestFillOnly_SetsWhenAbsent(t *testing.T) {
	m := map[string]string{}
	FillOnly(m, "LOG", "debug")
	if m["LOG"] != "debug" {
		t.Errorf("m[LOG] = %q, want %q", m["LOG"], "debug")
	}
}
