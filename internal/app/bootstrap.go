package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"devrunner/internal/config"
	"devrunner/internal/orchestrator"
	"devrunner/internal/process"
	"devrunner/internal/tools"
	"devrunner/pkg/logging"
)

// For mocking in tests
var osGetwd = os.Getwd

// Application is the main application structure that bootstraps and runs devrunner
type Application struct {
	config       *Config
	orchestrator *orchestrator.Orchestrator
}

// NewApplication loads configuration and wires the orchestrator to the real
// PATH resolver and process launcher.
func NewApplication(cfg *Config) (*Application, error) {
	return newApplication(cfg, tools.PathResolver{}, process.NewExecLauncher())
}

func newApplication(cfg *Config, resolver tools.Resolver, launcher process.Launcher) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.InitForCLI(appLogLevel, os.Stderr)

	root, err := resolveProjectRoot(cfg.ProjectRoot)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to determine project root")
		return nil, fmt.Errorf("failed to determine project root: %w", err)
	}
	cfg.ProjectRoot = root

	var projectCfg config.DevrunnerConfig
	if cfg.ConfigPath != "" {
		projectCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load devrunner configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Debug("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		projectCfg, err = config.LoadConfig(root)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load devrunner configuration")
			return nil, fmt.Errorf("failed to load devrunner configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	if cfg.WaitPolicy != "" {
		projectCfg.WaitPolicy = cfg.WaitPolicy
	}
	if err := projectCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	policy, err := process.ParseWaitPolicy(projectCfg.WaitPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.DevrunnerConfig = &projectCfg

	mode := orchestrator.ModeDevelopmentServer
	if cfg.GenTypes {
		mode = orchestrator.ModeTypeGeneration
	}

	runID := uuid.NewString()
	logging.SetRunID(runID)
	logging.Info("Bootstrap", "Project root %s, mode %s", root, mode)

	orch := orchestrator.New(orchestrator.Config{
		Root:       root,
		Mode:       mode,
		Production: cfg.Production,
		RunID:      runID,
		WaitPolicy: policy,
		Project:    projectCfg,
	}, resolver, launcher, nil)

	return &Application{
		config:       cfg,
		orchestrator: orch,
	}, nil
}

// Run executes the orchestration until it finishes or the user interrupts it.
func (a *Application) Run(ctx context.Context) error {
	return runSupervised(ctx, a.orchestrator)
}

func resolveProjectRoot(root string) (string, error) {
	if root == "" {
		wd, err := osGetwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
