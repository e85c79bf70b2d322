package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/recipevault/internal/persist"
	"github.com/mesh-intelligence/recipevault/internal/query"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// renderList prints the recipes of state that match its search term.
func (a *app) renderList(cmd *cobra.Command, state types.State) error {
	recipes := query.FilteredRecipes(state.Recipes, state.SearchTerm)
	views := newRecipeViews(recipes, func(id string) bool {
		return slices.Contains(state.Favorites, id)
	})

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, views)
	}
	if state.SearchTerm != "" {
		fmt.Fprintf(out, "Recipes matching %q:\n", state.SearchTerm)
	}
	printRecipeTable(out, views, "No recipes found.")
	return nil
}

// watchRecipes prints the list, then prints it again after every change to
// the backend's files until the command context is canceled.
func (a *app) watchRecipes(cmd *cobra.Command) error {
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()

	var mu sync.Mutex
	refresh := func() error {
		mu.Lock()
		defer mu.Unlock()
		state, err := a.readState()
		if err != nil {
			return err
		}
		return a.renderList(cmd, state)
	}

	// The first read also creates the data directory.
	if err := refresh(); err != nil {
		return err
	}

	cfg, err := a.storageConfig()
	if err != nil {
		return sysError(err)
	}
	watched := lo.SliceToMap(persist.DataFiles(cfg.Backend), func(name string) (string, struct{}) {
		return name, struct{}{}
	})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sysError(fmt.Errorf("create watcher: %w", err))
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.DataDir); err != nil {
		return sysError(fmt.Errorf("watch %s: %w", cfg.DataDir, err))
	}

	fmt.Fprintln(errOut, "Watching for changes... (Press Ctrl+C to exit)")

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(errOut, "Stopped watching.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// The file backend replaces its file by rename, which shows up as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if _, ok := watched[filepath.Base(event.Name)]; !ok {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(a.watchDelay, func() {
				if err := refresh(); err != nil {
					a.log.Error("refreshing recipe list", "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watcher error", "error", err)
		}
	}
}
