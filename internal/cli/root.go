// Package cli implements the recipevault command-line interface. Each
// invocation loads one store from the configured backend, runs a single
// command against it and exits.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/recipevault/internal/store"
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
	jsonMode  bool
}

// app carries everything a command needs. It is built once per invocation.
type app struct {
	flags rootFlags

	configDir string
	cfg       *viper.Viper
	log       *slog.Logger

	// Overridable in tests.
	newID      store.IDGenerator
	httpClient *http.Client
	watchDelay time.Duration
}

func newApp() *app {
	return &app{watchDelay: 500 * time.Millisecond}
}

// NewRootCmd creates the top-level "recipevault" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "recipevault",
		Short: "Keep recipes, favorites and recommendations",
		Long: `recipevault stores recipes with their ingredients and preparation time,
tracks favorites, filters by title and recommends recipes you have not
favorited yet. It can also look up GitHub users.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newFavoriteCmd(a),
		newFavoritesCmd(a),
		newRecommendCmd(a),
		newUsersCmd(a),
	)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(ExitCode(err))
}

// setup loads configuration and logging before any command that needs them.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	loadDotEnv()

	cfg, configDir, err := loadConfig(a.flags.configDir)
	if err != nil {
		return sysError(err)
	}
	a.cfg = cfg
	a.configDir = configDir

	log, err := newLogger(cmd.ErrOrStderr(), cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError(err)
	}
	a.log = log
	return nil
}

// exitError attaches a process exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input (exit code 1).
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as an environment or I/O failure (exit code 2).
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code, such as cobra argument errors, are user
// errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
