package config

import (
	"time"
)

// DevrunnerConfig is the top-level configuration structure for devrunner.
type DevrunnerConfig struct {
	// RequiredTools are resolved on PATH before anything is launched.
	RequiredTools []string `yaml:"requiredTools,omitempty"`
	// WaitPolicy is "fail-fast" (default) or "wait-all".
	WaitPolicy string `yaml:"waitPolicy,omitempty"`

	DataService DataServiceConfig `yaml:"dataService"`
	Typegen     TypegenConfig     `yaml:"typegen"`
	Build       BuildConfig       `yaml:"build"`
	AppServer   AppServerConfig   `yaml:"appServer"`
	Readiness   ReadinessConfig   `yaml:"readiness"`
}

// DataServiceConfig describes the PocketBase process.
type DataServiceConfig struct {
	Binary  string            `yaml:"binary,omitempty"`  // relative to the project root, e.g. "db/pocketbase"
	DataDir string            `yaml:"dataDir,omitempty"` // passed as --dir
	HTTP    string            `yaml:"http,omitempty"`    // bind address, e.g. "127.0.0.1:4133"
	Env     map[string]string `yaml:"env,omitempty"`
}

// TypegenConfig describes the schema/type generation helper.
type TypegenConfig struct {
	Tool    string `yaml:"tool,omitempty"`    // package runner on PATH, e.g. "pnpx"
	Package string `yaml:"package,omitempty"` // e.g. "pocketbase-typegen"
	DB      string `yaml:"db,omitempty"`
	Out     string `yaml:"out,omitempty"`
	// OnDevStart runs the helper before the data service in dev server mode.
	OnDevStart *bool             `yaml:"onDevStart,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
}

// BuildConfig describes the application build step.
type BuildConfig struct {
	Tool string            `yaml:"tool,omitempty"` // e.g. "pnpm"
	Args []string          `yaml:"args,omitempty"`
	Dir  string            `yaml:"dir,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

// AppServerConfig describes the application server process.
type AppServerConfig struct {
	Runtime string            `yaml:"runtime,omitempty"` // e.g. "node"
	Entry   string            `yaml:"entry,omitempty"`   // e.g. "dist/main.mjs"
	Dir     string            `yaml:"dir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// ReadinessMode selects how the orchestrator waits for the data service.
type ReadinessMode string

const (
	ReadinessDelay ReadinessMode = "delay"
	ReadinessProbe ReadinessMode = "probe"
)

// ReadinessConfig configures the pause between build and app server launch.
type ReadinessConfig struct {
	Mode            ReadinessMode `yaml:"mode,omitempty"`
	// Delay is a pointer so an explicit 0s disables the pause.
	Delay           *time.Duration `yaml:"delay,omitempty"`
	MaxAttempts     int           `yaml:"maxAttempts,omitempty"`
	InitialInterval time.Duration `yaml:"initialInterval,omitempty"`
}

// FixedDelay returns the configured delay, or DefaultReadinessDelay if unset.
func (r ReadinessConfig) FixedDelay() time.Duration {
	if r.Delay == nil {
		return DefaultReadinessDelay
	}
	return *r.Delay
}

// TypegenOnDevStart reports whether dev server mode regenerates types first.
func (c DevrunnerConfig) TypegenOnDevStart() bool {
	return c.Typegen.OnDevStart == nil || *c.Typegen.OnDevStart
}
