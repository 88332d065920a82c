package cmd

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/credentials"
	"github.com/gadgetloop/storefront/internal/errors"
	"github.com/gadgetloop/storefront/internal/guard"
	"github.com/gadgetloop/storefront/internal/session"
)

// newTestServer starts an HTTP server bound to IPv4-only loopback so tests work
// inside restricted sandboxes that forbid IPv6 listeners.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T, serverURL, token string) *app {
	t.Helper()

	creds := credentials.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if token != "" {
		require.NoError(t, creds.Save(credentials.Credentials{Token: token}))
	}

	client := api.NewClient(serverURL)
	return &app{
		client:  client,
		session: session.NewStore(client, creds, nil),
	}
}

func profileHandler(role string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"u1","firstName":"Asha","lastName":"Shrestha","email":"asha@example.com","role":"` + role + `"}}`))
	})
	return mux
}

func TestRequireSessionAnonymous(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:0", "")

	err := requireSession(context.Background(), a, guard.Route{Path: "/cart"})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnauthenticated, errors.CodeOf(err))
}

func TestRequireSessionResolved(t *testing.T) {
	server := newTestServer(t, profileHandler(session.RoleBuyer))
	a := newTestApp(t, server.URL, "stored-token")

	assert.NoError(t, requireSession(context.Background(), a, guard.Route{Path: "/cart"}))
}

func TestRequireSessionRoleMismatch(t *testing.T) {
	server := newTestServer(t, profileHandler(session.RoleBuyer))
	a := newTestApp(t, server.URL, "stored-token")

	err := requireSession(context.Background(), a, guard.Route{
		Path:          "/dashboard",
		RequiredRoles: []string{session.RoleSeller},
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
}

func TestRequireSessionUnreachableBackendDegradesToLogin(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:0", "stored-token")

	err := requireSession(context.Background(), a, guard.Route{Path: "/checkout"})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnauthenticated, errors.CodeOf(err))
}

func TestCommandTree(t *testing.T) {
	wantGroups := map[string][]string{
		"auth":     {"login", "signup", "logout", "status"},
		"cart":     {"list", "add", "inc", "dec", "remove", "clear"},
		"checkout": {"cod", "pay", "verify"},
		"products": {"list", "search", "view", "buy"},
		"profile":  {"show", "set-name", "set-email", "set-password"},
	}

	for group, subs := range wantGroups {
		groupCmd, _, err := rootCmd.Find([]string{group})
		require.NoError(t, err, "command group %s", group)

		for _, sub := range subs {
			found, _, err := rootCmd.Find([]string{group, sub})
			assert.NoError(t, err, "%s %s", group, sub)
			if err == nil {
				assert.Equal(t, groupCmd, found.Parent(), "%s %s", group, sub)
			}
		}
	}

	_, _, err := rootCmd.Find([]string{"version"})
	assert.NoError(t, err)
}
