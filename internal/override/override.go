// Package override applies the process-environment override surface to an
// already-composed Launch Contract, gated by Host Environment policy
// (spec.md §4.9). It runs strictly after a successful composition and
// never alters library paths or arguments — only string environment
// values are overridable.
package override

import (
	"encoding/json"
	"sort"

	"github.com/nah-project/nah/internal/model"
)

// EnvVar is the process-environment variable the override applicator reads.
const EnvVar = "NAH_OVERRIDE_ENVIRONMENT"

// Apply reads EnvVar from processEnv, parses it as a JSON object of
// string→string, and merges permitted keys into contract.Environment.
// Returns the warnings produced; contract is mutated in place for every
// accepted key.
func Apply(contract *model.LaunchContract, processEnv map[string]string, policy model.OverridePolicy) []model.Warning {
	raw, present := processEnv[EnvVar]
	if !present || raw == "" {
		return nil
	}

	var overrides map[string]string
	if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
		return []model.Warning{{
			Key:    "override_invalid",
			Action: model.ActionWarn,
			Fields: map[string]string{"target": EnvVar, "reason": "parse_failure"},
		}}
	}

	if !policy.AllowEnvOverrides {
		return []model.Warning{{
			Key:    "override_denied",
			Action: model.ActionWarn,
			Fields: map[string]string{"reason": "overrides_disabled"},
		}}
	}

	allowed := make(map[string]bool, len(policy.AllowedEnvKeys))
	for _, k := range policy.AllowedEnvKeys {
		allowed[k] = true
	}
	allowAll := len(policy.AllowedEnvKeys) == 0

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []model.Warning
	for _, key := range keys {
		if allowAll || allowed[key] {
			contract.Environment[key] = overrides[key]
			continue
		}
		warnings = append(warnings, model.Warning{
			Key:    "override_denied",
			Action: model.ActionWarn,
			Fields: map[string]string{"reason": "key_not_allowed", "target": key},
		})
	}

	return warnings
}
