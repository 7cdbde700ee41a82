package tools

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"devrunner/pkg/logging"
)

// ErrToolNotFound is matched by every ToolNotFoundError.
var ErrToolNotFound = errors.New("required tool not found")

// ToolNotFoundError reports an executable missing from the search path.
type ToolNotFoundError struct {
	Name string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q is not on PATH", ErrToolNotFound, e.Name)
}

func (e *ToolNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrToolNotFound}
	}
	return []error{ErrToolNotFound, e.Err}
}

// ExternalTool is an executable resolved once at startup.
type ExternalTool struct {
	Name string
	Path string
}

// Set maps logical tool names to their resolved paths.
type Set map[string]ExternalTool

// Path returns the resolved path for name. ok is false if name was never
// resolved.
func (s Set) Path(name string) (path string, ok bool) {
	t, ok := s[name]
	return t.Path, ok
}

// Resolver locates executables.
type Resolver interface {
	Resolve(name string) (ExternalTool, error)
}

// For mocking in tests
var lookPath = exec.LookPath

// PathResolver searches the PATH of the supervising process.
type PathResolver struct{}

// Resolve returns the absolute path of name.
func (PathResolver) Resolve(name string) (ExternalTool, error) {
	p, err := lookPath(name)
	if err != nil {
		return ExternalTool{}, &ToolNotFoundError{Name: name, Err: err}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return ExternalTool{}, &ToolNotFoundError{Name: name, Err: err}
	}
	return ExternalTool{Name: name, Path: abs}, nil
}

// ResolveAll resolves every name and stops at the first missing one.
func ResolveAll(r Resolver, names ...string) (Set, error) {
	set := make(Set, len(names))
	for _, name := range names {
		if _, done := set[name]; done {
			continue
		}
		tool, err := r.Resolve(name)
		if err != nil {
			logging.Error("Tools", err, "Failed to resolve %s", name)
			return nil, err
		}
		logging.Debug("Tools", "Resolved %s -> %s", name, tool.Path)
		set[name] = tool
	}
	return set, nil
}
