package override

import (
	"testing"

	"github.com/nah-project/nah/internal/model"
)

func newContract() *model.LaunchContract {
	return &model.LaunchContract{Environment: map[string]string{"LOG": "info"}}
}

func TestApply_NoOverridePresent(t *testing.T) {
	c := newContract()
	warnings := Apply(c, map[string]string{}, model.OverridePolicy{AllowEnvOverrides: true})
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if c.Environment["LOG"] != "info" {
		t.Errorf("Environment[LOG] = %q, want unchanged", c.Environment["LOG"])
	}
}

func TestApply_InvalidJSON(t *testing.T) {
	c := newContract()
	processEnv := map[string]string{EnvVar: "{not json"}
	warnings := Apply(c, processEnv, model.OverridePolicy{AllowEnvOverrides: true})
	if len(warnings) != 1 || warnings[0].Key != "override_invalid" {
		t.Errorf("warnings = %v, want one override_invalid warning", warnings)
	}
}

func TestApply_OverridesDisabled(t *testing.T) {
	c := newContract()
	processEnv := map[string]string{EnvVar: `{"LOG":"trace"}`}
	warnings := Apply(c, processEnv, model.OverridePolicy{AllowEnvOverrides: false})
	if len(warnings) != 1 || warnings[0].Key != "override_denied" || warnings[0].Fields["reason"] != "overrides_disabled" {
		t.Errorf("warnings = %v, want one override_denied/overrides_disabled warning", warnings)
	}
	if c.Environment["LOG"] != "info" {
		t.Errorf("Environment[LOG] = %q, want unchanged", c.Environment["LOG"])
	}
}

func TestApply_AllowAllKeys(t *testing.T) {
	c := newContract()
	processEnv := map[string]string{EnvVar: `{"LOG":"trace","DEBUG":"1"}`}
	warnings := Apply(c, processEnv, model.OverridePolicy{AllowEnvOverrides: true})
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if c.Environment["LOG"] != "trace" || c.Environment["DEBUG"] != "1" {
		t.Errorf("Environment = %v, want LOG=trace DEBUG=1", c.Environment)
	}
}

func TestApply_AllowlistedKeyOnly(t *testing.T) {
	c := newContract()
	processEnv := map[string]string{EnvVar: `{"DEBUG":"1","LOG":"trace"}`}
	policy := model.OverridePolicy{AllowEnvOverrides: true, AllowedEnvKeys: []string{"DEBUG"}}

	warnings := Apply(c, processEnv, policy)

	if c.Environment["DEBUG"] != "1" {
		t.Errorf("Environment[DEBUG] = %q, want %q", c.Environment["DEBUG"], "1")
	}
	if c.Environment["LOG"] != "info" {
		t.Errorf("Environment[LOG] = %q, want unchanged", c.Environment["LOG"])
	}
	if len(warnings) != 1 || warnings[0].Key != "override_denied" || warnings[0].Fields["target"] != "LOG" {
		t.Errorf("warnings = %v, want one override_denied warning targeting LOG", warnings)
	}
}
