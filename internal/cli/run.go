package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
	"github.com/flywheel-apps/fsl-topup/internal/gear"
	"github.com/flywheel-apps/fsl-topup/internal/qa"
	"github.com/flywheel-apps/fsl-topup/internal/topup"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	BaseDir     string
	EnvironFile string
	DryRun      bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the gear against a Flywheel base directory",
		Long: `Execute the topup workflow against a gear base directory laid out the
Flywheel way: config.json plus input/, output/ and work/ subdirectories.

Example:
  fsl-topup run
  fsl-topup run --base ./testdata/gear --dry-run`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGear(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BaseDir, "base", gear.DefaultBaseDir, "gear base directory")
	cmd.Flags().StringVar(&opts.EnvironFile, "environ", gear.DefaultEnvironFile, "JSON file of environment variables to apply")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log FSL commands without executing them")

	return cmd
}

func runGear(opts *RunOptions, cmd *cobra.Command) error {
	// Bootstrap logger; replaced once the configured level is known.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	g, err := gear.Load(opts.BaseDir, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load gear context", err)
	}

	level, err := g.Config.SlogLevel()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid gear configuration", err)
	}
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	g.Log = log

	g.LogConfig()

	if err := loadEnviron(opts.EnvironFile, log); err != nil {
		return WrapExitError(ExitCommandError, "failed to load gear environment", err)
	}

	dryRun := opts.DryRun || g.Config.DryRun
	runner := fsl.NewRunner(log, dryRun)
	pipeline := topup.New(g, runner, qa.NewReporter(runner, log))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pipeline.Execute(ctx); err != nil {
		return WrapExitError(ExitFailure, "topup workflow failed", err)
	}

	log.Info("gear finished")
	return nil
}

// loadEnviron applies the saved docker environment. A missing file is only
// a warning so the gear can run outside its container (tests, local use)
// with whatever environment is already present.
func loadEnviron(path string, log *slog.Logger) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn("gear environment file not found, using current environment", "path", path)
		return nil
	}
	return gear.LoadEnviron(path, log)
}
