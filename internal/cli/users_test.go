package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/recipevault/internal/github"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// lastRequest remembers the most recent request a fake server saw.
type lastRequest struct {
	mu  sync.Mutex
	req *http.Request
}

func (l *lastRequest) set(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.req = r.Clone(context.Background())
}

func (l *lastRequest) get() *http.Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.req
}

// fakeGitHub serves the two user endpoints and records the last request.
func fakeGitHub(t *testing.T) (*httptest.Server, *lastRequest) {
	t.Helper()
	last := &lastRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.set(r)
		switch r.URL.Path {
		case "/search/users":
			_, _ = w.Write([]byte(`{"total_count":1,"items":[{"login":"octocat","avatar_url":"https://avatars/1","html_url":"https://github.com/octocat"}]}`))
		case "/users/octocat":
			_, _ = w.Write([]byte(`{"login":"octocat","avatar_url":"https://avatars/1","html_url":"https://github.com/octocat"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, last
}

func TestUsersSearch(t *testing.T) {
	env := newTestEnv(t)
	server, last := fakeGitHub(t)
	t.Setenv("RECIPEVAULT_GITHUB_BASE_URL", server.URL)

	res := env.mustRun("users", "search", "octo", "cat")
	assert.Contains(t, res.Stdout, "LOGIN")
	assert.Contains(t, res.Stdout, "https://github.com/octocat")
	assert.Equal(t, "octo cat", last.get().URL.Query().Get("q"))
	assert.Empty(t, last.get().Header.Get("Authorization"))

	users := parseJSON[[]types.UserSummary](t, env.mustRun("--json", "users", "search", "octocat").Stdout)
	assert.Equal(t, []types.UserSummary{{Login: "octocat", AvatarURL: "https://avatars/1", HTMLURL: "https://github.com/octocat"}}, users)
}

func TestUsersGet_TokenFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	server, last := fakeGitHub(t)
	t.Setenv("RECIPEVAULT_GITHUB_BASE_URL", server.URL)
	t.Setenv(envGitHubAPIKey, "from-env")

	user := parseJSON[types.UserSummary](t, env.mustRun("--json", "users", "get", "octocat").Stdout)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "token from-env", last.get().Header.Get("Authorization"))
}

func TestUsersGet_ConfiguredTokenWins(t *testing.T) {
	env := newTestEnv(t)
	server, last := fakeGitHub(t)
	t.Setenv(envGitHubAPIKey, "from-env")

	require.NoError(t, os.MkdirAll(env.ConfigDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.ConfigDir, configFileExt),
		[]byte("github:\n  base_url: "+server.URL+"\n  token: from-config\n"), 0o644))

	env.mustRun("users", "get", "octocat")
	assert.Equal(t, "token from-config", last.get().Header.Get("Authorization"))
}

func TestUsersGet_FailureIsSystemError(t *testing.T) {
	env := newTestEnv(t)
	server, _ := fakeGitHub(t)
	t.Setenv("RECIPEVAULT_GITHUB_BASE_URL", server.URL)

	res := env.run("users", "get", "ghost")
	assert.ErrorIs(t, res.Err, github.ErrNetwork)
	assert.Equal(t, exitSysError, res.ExitCode)
	assert.Contains(t, res.Err.Error(), "Not Found")
}
