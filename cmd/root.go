package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"simbadrun/internal/config"
	"simbadrun/internal/execute"
	"simbadrun/internal/mode"
	"simbadrun/internal/synth"
	"simbadrun/pkg/logging"
)

// Exit codes for CLI commands.
// These follow common conventions so scripts can tell configuration defects
// from external program failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates a task configuration defect: an unknown or
	// unregistered mode, or a missing required parameter.
	ExitCodeConfig = 2
	// ExitCodeProgram indicates the external SIMBAD program exited nonzero.
	ExitCodeProgram = 3
)

var (
	// rootConfigPath points at the configuration directory holding config.yaml
	// and the tasks/ store.
	rootConfigPath string
	// rootDebug enables verbose logging across the application.
	rootDebug bool
)

// rootCmd represents the base command for the simbadrun application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "simbadrun",
	Short: "Configure, launch and monitor SIMBAD molecular replacement searches",
	Long: `simbadrun assembles the exact command line for a SIMBAD search from a
configured task (reflection file, column labels, output paths, search mode),
launches the program variant registered for that mode, follows its progress
through the work directory it creates, and reports the ranked results.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that
	// are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles
// subcommands and flags. This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "simbadrun version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var unknownMode *mode.UnknownModeError
	if errors.As(err, &unknownMode) {
		return ExitCodeConfig
	}

	var missingParam *synth.MissingParameterError
	if errors.As(err, &missingParam) {
		return ExitCodeConfig
	}

	var programErr *execute.ProgramError
	if errors.As(err, &programErr) {
		return ExitCodeProgram
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
