// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"strings"

	"taskmill-cli/internal/execenv"
)

// buildEnv constructs the child environment following the 3-level precedence
// (higher wins):
//
//  1. Process environment
//  2. Task env table
//  3. CLI --env overrides
//
// The execution-environment decision then prepends its virtualenv bin
// directory to PATH, after merging, so direct execution picks venv binaries
// first.
func buildEnv(environ []string, inv *Invocation, decision *execenv.Decision) map[string]string {
	env := envToMap(environ)

	maps.Copy(env, inv.Task.Env)
	maps.Copy(env, inv.EnvOverrides)

	if decision.VenvBin != "" {
		key := pathKey(env)
		env[key] = decision.PreparePath(env[key])
	}

	return env
}

// envToMap parses "KEY=VALUE" entries into a map. Malformed entries without
// a separator are dropped.
func envToMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, e := range environ {
		key, value, found := strings.Cut(e, "=")
		if !found {
			continue
		}
		env[key] = value
	}
	return env
}

// EnvToSlice converts an environment map back to "KEY=VALUE" form for
// exec.Cmd.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

// pathKey returns the existing PATH key of the environment. Windows spells
// it "Path"; matching the existing key avoids ending up with two entries.
func pathKey(env map[string]string) string {
	for k := range env {
		if strings.EqualFold(k, "PATH") {
			return k
		}
	}
	return "PATH"
}
