package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"devrunner/internal/app"
	"devrunner/internal/process"
)

var (
	rootGenTypes   bool
	rootDev        bool
	rootProduction bool
	rootDebug      bool
	rootProjectDir string
	rootConfigPath string
	rootWaitPolicy string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devrunner",
	Short: "Run the PocketBase + Node development environment",
	Long: `devrunner supervises a local development session:

  1. checks that pnpm, pnpx and node are on PATH
  2. regenerates PocketBase TypeScript types
  3. starts PocketBase
  4. builds the application
  5. starts the application server pointed at PocketBase

Output from every process goes straight to this terminal. Press Ctrl+C to
stop everything. Use --gen-type to only regenerate types and exit.

Configuration:
  devrunner loads .devrunner/config.yaml from the project root and
  ~/.config/devrunner/config.yaml, or a single file given with --config.`,
	Args: cobra.NoArgs,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. a failing child process)
	SilenceUsage: true,
	// Errors are printed by Execute so the exit code can follow the failure.
	SilenceErrors: true,
	RunE:          runRoot,
}

// runRoot is the main entry point for the supervisor
func runRoot(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(rootGenTypes, rootProduction, rootDebug)
	cfg.ProjectRoot = rootProjectDir
	cfg.ConfigPath = rootConfigPath
	cfg.WaitPolicy = rootWaitPolicy

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

// printError writes the one-line failure report.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("devrunner: "+err.Error()))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "devrunner version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(process.ExitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	flags := rootCmd.Flags()
	flags.BoolVar(&rootGenTypes, "gen-type", false, "Generate TypeScript types for PocketBase and exit")
	flags.BoolVar(&rootDev, "dev", false, "Run the development server (default)")
	flags.BoolVar(&rootProduction, "production", false, "Run in production mode (reserved)")
	flags.BoolVar(&rootProduction, "prod", false, "Alias for --production")
	flags.BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	flags.StringVar(&rootProjectDir, "root", "", "Project root (default: current directory)")
	flags.StringVar(&rootConfigPath, "config", "", "Load configuration from this file only")
	flags.StringVar(&rootWaitPolicy, "wait-policy", "", "Process group wait policy: fail-fast or wait-all")
	rootCmd.MarkFlagsMutuallyExclusive("gen-type", "dev")
}
