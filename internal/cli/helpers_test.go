package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/recipevault/internal/store"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// testEnv is an isolated config and data directory pair. Every run builds a
// fresh command tree against them, like a separate process would.
type testEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
	newID     store.IDGenerator
}

// result holds the outcome of one command run.
type result struct {
	Stdout   string
	Stderr   string
	Err      error
	ExitCode int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	// Keep ambient configuration out of the tests.
	t.Setenv("RECIPEVAULT_BACKEND", "")
	t.Setenv("RECIPEVAULT_DATA_DIR", "")
	t.Setenv("RECIPEVAULT_LOG_LEVEL", "")
	t.Setenv("RECIPEVAULT_GITHUB_BASE_URL", "")
	t.Setenv("RECIPEVAULT_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_API_KEY", "")
	return &testEnv{
		t:         t,
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
		newID:     store.SequentialIDs("r"),
	}
}

func (e *testEnv) newApp() *app {
	a := newApp()
	a.newID = e.newID
	a.watchDelay = 10 * time.Millisecond
	return a
}

func (e *testEnv) args(args ...string) []string {
	return append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
}

// run executes one command and returns its output.
func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	return e.runApp(context.Background(), e.newApp(), &bytes.Buffer{}, args...)
}

func (e *testEnv) runApp(ctx context.Context, a *app, stdout io.Writer, args ...string) result {
	e.t.Helper()
	var stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(e.args(args...))
	err := cmd.ExecuteContext(ctx)

	res := result{Stderr: stderr.String(), Err: err, ExitCode: ExitCode(err)}
	if s, ok := stdout.(interface{ String() string }); ok {
		res.Stdout = s.String()
	}
	return res
}

// mustRun runs a command and fails the test if it returns an error.
func (e *testEnv) mustRun(args ...string) result {
	e.t.Helper()
	res := e.run(args...)
	require.NoError(e.t, res.Err, "recipevault %v\nstderr: %s", args, res.Stderr)
	return res
}

// listJSON returns the recipes "list --json" prints.
func (e *testEnv) listJSON() []types.Recipe {
	e.t.Helper()
	return parseJSON[[]types.Recipe](e.t, e.mustRun("--json", "list").Stdout)
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func titles(recipes []types.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

// syncBuffer is a bytes.Buffer safe for a writer and a reader on different
// goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
