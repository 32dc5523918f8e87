// Package cli implements the taskboard command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/pkg/taskboard"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	tenant    string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *log.Logger
}

// usageError marks a mistake in how a command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// NewRootCmd creates the top-level "taskboard" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "taskboard",
		Short:   "Tasks, todos and the relationships between them",
		Long:    "Taskboard keeps project tasks, personal todos and subtasks, the blocking\ngraph between tasks and the todo each task is planned under.",
		Version: taskboard.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $TASKBOARD_CONFIG_DIR or the platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().StringVar(&a.flags.tenant, "tenant", "", "tenant id (default from config)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newTaskCmd(a))
	root.AddCommand(newTodoCmd(a))
	root.AddCommand(newDepCmd(a))
	root.AddCommand(newLinkCmd(a))
	root.AddCommand(newSubtaskCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "taskboard:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error onto the process exit code. Domain rejections and
// bad invocations are user errors; everything else is a system error.
func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &usage),
		errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrUnauthorized),
		errors.Is(err, types.ErrSelfDependency),
		errors.Is(err, types.ErrDuplicateDependency),
		errors.Is(err, types.ErrCyclicDependency),
		errors.Is(err, types.ErrTaskAlreadyLinked):
		return exitUserError
	default:
		return exitSysError
	}
}

// setup loads config.yaml and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.config, err = loadConfig(configDir)
	if err != nil {
		return err
	}

	level := a.flags.logLevel
	if level == "" {
		level = a.config.GetString(cfgKeyLogLevel)
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "taskboard"})
	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return &usageError{err: fmt.Errorf("invalid log level %q", level)}
		}
		a.logger.SetLevel(lvl)
	}
	return nil
}

// exactArgs wraps cobra.ExactArgs so that a wrong argument count maps to a
// user error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
