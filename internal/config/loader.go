package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

const (
	userConfigDir    = ".config/devrunner"
	projectConfigDir = ".devrunner"
	configFileName   = "config.yaml"
)

// LoadConfig loads the devrunner configuration by layering default, user, and
// project settings. projectRoot locates the project file.
func LoadConfig(projectRoot string) (DevrunnerConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		config, err = mergeFileIfPresent(config, userConfigPath)
		if err != nil {
			return DevrunnerConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
	}

	projectConfigPath := getProjectConfigPath(projectRoot)
	config, err = mergeFileIfPresent(config, projectConfigPath)
	if err != nil {
		return DevrunnerConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	return config, nil
}

// LoadConfigFromPath layers a single explicit file over the defaults.
func LoadConfigFromPath(path string) (DevrunnerConfig, error) {
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return DevrunnerConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return mergeConfigs(GetDefaultConfig(), overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func(projectRoot string) string {
	return filepath.Join(projectRoot, projectConfigDir, configFileName)
}

func mergeFileIfPresent(base DevrunnerConfig, path string) (DevrunnerConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return DevrunnerConfig{}, err
	}
	return mergeConfigs(base, overlay), nil
}

// loadConfigFromFile loads a DevrunnerConfig from a YAML file.
func loadConfigFromFile(filePath string) (DevrunnerConfig, error) {
	var config DevrunnerConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return DevrunnerConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return DevrunnerConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Non-zero scalar
// fields replace, lists replace as a whole, env maps merge key by key.
func mergeConfigs(base, overlay DevrunnerConfig) DevrunnerConfig {
	merged := base

	if len(overlay.RequiredTools) > 0 {
		merged.RequiredTools = slices.Clone(overlay.RequiredTools)
	}
	setString(&merged.WaitPolicy, overlay.WaitPolicy)

	ds := &merged.DataService
	setString(&ds.Binary, overlay.DataService.Binary)
	setString(&ds.DataDir, overlay.DataService.DataDir)
	setString(&ds.HTTP, overlay.DataService.HTTP)
	ds.Env = mergeEnv(ds.Env, overlay.DataService.Env)

	tg := &merged.Typegen
	setString(&tg.Tool, overlay.Typegen.Tool)
	setString(&tg.Package, overlay.Typegen.Package)
	setString(&tg.DB, overlay.Typegen.DB)
	setString(&tg.Out, overlay.Typegen.Out)
	if overlay.Typegen.OnDevStart != nil {
		v := *overlay.Typegen.OnDevStart
		tg.OnDevStart = &v
	}
	tg.Env = mergeEnv(tg.Env, overlay.Typegen.Env)

	b := &merged.Build
	setString(&b.Tool, overlay.Build.Tool)
	if len(overlay.Build.Args) > 0 {
		b.Args = slices.Clone(overlay.Build.Args)
	}
	setString(&b.Dir, overlay.Build.Dir)
	b.Env = mergeEnv(b.Env, overlay.Build.Env)

	app := &merged.AppServer
	setString(&app.Runtime, overlay.AppServer.Runtime)
	setString(&app.Entry, overlay.AppServer.Entry)
	setString(&app.Dir, overlay.AppServer.Dir)
	app.Env = mergeEnv(app.Env, overlay.AppServer.Env)

	r := &merged.Readiness
	if overlay.Readiness.Mode != "" {
		r.Mode = overlay.Readiness.Mode
	}
	if overlay.Readiness.Delay != nil {
		r.Delay = ptr(*overlay.Readiness.Delay)
	}
	if overlay.Readiness.MaxAttempts != 0 {
		r.MaxAttempts = overlay.Readiness.MaxAttempts
	}
	if overlay.Readiness.InitialInterval != 0 {
		r.InitialInterval = overlay.Readiness.InitialInterval
	}

	return merged
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeEnv(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(overlay))
	}
	maps.Copy(out, overlay)
	return out
}

// ExpandEnv expands ${VAR} references in env values against the
// supervisor's environment.
func ExpandEnv(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = os.ExpandEnv(v)
	}
	return out
}

// Validate checks the fields the orchestrator cannot default.
func (c DevrunnerConfig) Validate() error {
	switch c.Readiness.Mode {
	case "", ReadinessDelay, ReadinessProbe:
	default:
		return fmt.Errorf("readiness.mode must be %q or %q, got %q", ReadinessDelay, ReadinessProbe, c.Readiness.Mode)
	}
	if c.Readiness.FixedDelay() < 0 {
		return fmt.Errorf("readiness.delay must not be negative")
	}
	if c.Readiness.Mode == ReadinessProbe && c.Readiness.MaxAttempts <= 0 {
		return fmt.Errorf("readiness.maxAttempts must be positive when mode is %q", ReadinessProbe)
	}
	if c.DataService.Binary == "" || c.DataService.HTTP == "" {
		return fmt.Errorf("dataService.binary and dataService.http are required")
	}
	if c.Build.Tool == "" || c.AppServer.Runtime == "" || c.AppServer.Entry == "" {
		return fmt.Errorf("build.tool, appServer.runtime and appServer.entry are required")
	}
	if c.Typegen.Tool == "" || c.Typegen.Package == "" {
		return fmt.Errorf("typegen.tool and typegen.package are required")
	}
	return nil
}
