package guard

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
	"github.com/gadgetloop/storefront/internal/session"
)

func snapshot(status session.Status, role string) session.Snapshot {
	snap := session.Snapshot{Status: status}
	if status == session.StatusResolved {
		snap.User = &session.User{ID: "u1", Role: role}
	}
	return snap
}

func TestDecide(t *testing.T) {
	dashboard := Route{Path: "/dashboard", RequiredRoles: []string{session.RoleSeller}}
	profile := Route{Path: "/profile"}

	tests := []struct {
		name  string
		snap  session.Snapshot
		route Route
		want  Outcome
	}{
		{"resolving never redirects", snapshot(session.StatusResolving, ""), profile, Pending},
		{"unresolved is still pending", snapshot(session.StatusUnresolved, ""), profile, Pending},
		{"anonymous goes to login", snapshot(session.StatusAnonymous, ""), profile, RedirectToLogin},
		{"resolved renders unrestricted route", snapshot(session.StatusResolved, session.RoleBuyer), profile, Render},
		{"resolved with role renders restricted route", snapshot(session.StatusResolved, session.RoleSeller), dashboard, Render},
		{"role mismatch goes to fallback not login", snapshot(session.StatusResolved, session.RoleBuyer), dashboard, RedirectToFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, tt.route)
			assert.Equal(t, tt.want, got.Outcome)
		})
	}
}

func TestLoginRedirectCarriesOrigin(t *testing.T) {
	decision := Decide(snapshot(session.StatusAnonymous, ""), Route{Path: "/cart"})

	assert.Equal(t, RedirectToLogin, decision.Outcome)
	assert.Equal(t, LoginRoute, decision.RedirectTo)
	assert.Equal(t, "/cart", decision.From)
	assert.False(t, decision.Allowed())
}

func TestFallbackRedirectDoesNotCarryOrigin(t *testing.T) {
	decision := Decide(snapshot(session.StatusResolved, session.RoleBuyer),
		Route{Path: "/dashboard", RequiredRoles: []string{session.RoleSeller}})

	assert.Equal(t, RedirectToFallback, decision.Outcome)
	assert.Equal(t, FallbackRoute, decision.RedirectTo)
	assert.Empty(t, decision.From)
}

func TestResolvedWithoutUserIsTreatedAsAnonymous(t *testing.T) {
	// A snapshot claiming resolved with no user violates the session
	// invariant; the guard fails safe toward login.
	decision := Decide(session.Snapshot{Status: session.StatusResolved}, Route{Path: "/profile"})
	assert.Equal(t, RedirectToLogin, decision.Outcome)
}

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

// The unresolved-session scenario end to end: a persisted credential the
// backend rejects must settle at anonymous and guard to login, never loop.
func TestFailedBootstrapGuardsToLogin(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	creds := credentials.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, creds.Save(credentials.Credentials{Token: "rejected-token"}))
	store := session.NewStore(api.NewClient(server.URL), creds, nil)

	route := Route{Path: "/profile"}

	// Before bootstrap the guard holds at pending.
	assert.Equal(t, Pending, Decide(store.Snapshot(), route).Outcome)

	store.Bootstrap(context.Background())

	decision := Decide(store.Snapshot(), route)
	assert.Equal(t, RedirectToLogin, decision.Outcome)
	assert.Equal(t, "/profile", decision.From)
}
