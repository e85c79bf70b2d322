package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/recipevault/internal/store"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize recipevault storage",
		Long: `Create the configuration and data directories and save the default
recipes if nothing has been saved yet or the saved state cannot be read.
Running init again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	backend, cfg, err := a.openBackend()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			a.log.Warn("closing backend", "backend", cfg.Backend, "error", cerr)
		}
	}()

	seeded := false
	if _, err := backend.Load(); err != nil {
		switch {
		case errors.Is(err, types.ErrNoState):
		case errors.Is(err, types.ErrCorruptState):
			a.log.Warn("existing state is corrupt, replacing it with the default recipes", "backend", cfg.Backend, "error", err)
		default:
			return sysError(fmt.Errorf("read existing state: %w", err))
		}
		if err := backend.Save(store.DefaultState()); err != nil {
			return sysError(fmt.Errorf("save default recipes: %w", err))
		}
		seeded = true
	}

	a.log.Info("initialized", "config_dir", a.configDir, "data_dir", cfg.DataDir, "backend", cfg.Backend, "seeded", seeded)

	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"config_dir": a.configDir,
			"data_dir":   cfg.DataDir,
			"backend":    cfg.Backend,
			"seeded":     seeded,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recipe vault initialized (%s backend)\n", cfg.Backend)
	fmt.Fprintf(out, "  config: %s\n", a.configDir)
	fmt.Fprintf(out, "  data:   %s\n", cfg.DataDir)
	if seeded {
		fmt.Fprintf(out, "Added %d default recipes\n", len(store.DefaultRecipes()))
	}
	return nil
}
