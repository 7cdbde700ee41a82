package process

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// LaunchSpec describes one child process. Build it with NewLaunchSpec so the
// argument slice and environment overlay are private copies.
type LaunchSpec struct {
	// Name is the logical label used in logs and errors, e.g. "data-service".
	Name string
	Path string
	Args []string
	Dir  string
	// Env is merged on top of the inherited environment; it wins on conflict.
	Env map[string]string
}

// NewLaunchSpec copies args and env into a new spec.
func NewLaunchSpec(name, path string, args []string, dir string, env map[string]string) LaunchSpec {
	spec := LaunchSpec{
		Name: name,
		Path: path,
		Args: slices.Clone(args),
		Dir:  dir,
	}
	if len(env) > 0 {
		spec.Env = maps.Clone(env)
	}
	return spec
}

// String renders the spec for logs, e.g. `build (pnpm run build)`.
func (s LaunchSpec) String() string {
	cmdline := strings.TrimSpace(s.Path + " " + strings.Join(s.Args, " "))
	if s.Name == "" {
		return cmdline
	}
	return fmt.Sprintf("%s (%s)", s.Name, cmdline)
}

// MergeEnv returns base with every overlay key set to the overlay value.
// Keys absent from the overlay keep their inherited value and order.
func MergeEnv(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := overlay[key]; overridden {
			continue
		}
		merged = append(merged, kv)
	}
	for _, key := range slices.Sorted(maps.Keys(overlay)) {
		merged = append(merged, key+"="+overlay[key])
	}
	return merged
}
