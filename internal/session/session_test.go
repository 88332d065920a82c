package session

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/credentials"
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

func newStore(t *testing.T, serverURL string) (*Store, *credentials.Store, *api.Client) {
	t.Helper()
	creds := credentials.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := api.NewClient(serverURL)
	return NewStore(client, creds, nil), creds, client
}

func profileHandler(user User) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"` + user.ID + `","firstName":"` + user.FirstName +
			`","lastName":"` + user.LastName + `","email":"` + user.Email +
			`","role":"` + user.Role + `","verified":false}}`))
	})
	return mux
}

func TestBootstrapWithoutCredential(t *testing.T) {
	store, _, _ := newStore(t, "http://127.0.0.1:0")

	assert.Equal(t, StatusUnresolved, store.Status())
	assert.Equal(t, StatusAnonymous, store.Bootstrap(context.Background()))
	assert.Equal(t, StatusAnonymous, store.Status())

	_, ok := store.CurrentUser()
	assert.False(t, ok)
}

func TestBootstrapResolvesPersistedCredential(t *testing.T) {
	server := newTestServer(t, profileHandler(User{
		ID: "u1", FirstName: "Asha", LastName: "Shrestha", Email: "asha@example.com", Role: RoleBuyer,
	}))
	store, creds, client := newStore(t, server.URL)
	require.NoError(t, creds.Save(credentials.Credentials{Token: "persisted-token"}))

	assert.Equal(t, StatusResolved, store.Bootstrap(context.Background()))

	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, RoleBuyer, user.Role)
	assert.Equal(t, "persisted-token", client.Token())
}

func TestBootstrapFailureDegradesToAnonymous(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	store, creds, client := newStore(t, server.URL)
	require.NoError(t, creds.Save(credentials.Credentials{Token: "expired-token"}))

	// The failure is silent: no error surfaces, the status settles at
	// anonymous and never sticks at resolving.
	assert.Equal(t, StatusAnonymous, store.Bootstrap(context.Background()))
	assert.Equal(t, StatusAnonymous, store.Status())

	// The credential was discarded.
	loaded, err := creds.Load()
	require.NoError(t, err)
	assert.False(t, loaded.Present())
	assert.Empty(t, client.Token())
}

func TestBootstrapNetworkFailureTreatedLikeBadToken(t *testing.T) {
	store, creds, _ := newStore(t, "http://127.0.0.1:0")
	require.NoError(t, creds.Save(credentials.Credentials{Token: "tok"}))

	assert.Equal(t, StatusAnonymous, store.Bootstrap(context.Background()))
}

func TestBootstrapJoinsInflightResolution(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(`{"data":{"id":"u1","firstName":"A","lastName":"B","email":"a@b.c","role":"buyer"}}`))
	}))
	store, creds, _ := newStore(t, server.URL)
	require.NoError(t, creds.Save(credentials.Credentials{Token: "tok"}))

	const callers = 4
	results := make([]Status, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.Bootstrap(context.Background())
		}(i)
	}

	// Let every goroutine reach the store before the fetch completes.
	for store.Status() != StatusResolving {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent bootstraps must issue at most one identity fetch")
	for i, status := range results {
		assert.Equal(t, StatusResolved, status, "caller %d", i)
	}
}

func TestBootstrapAfterCompletionReturnsSettledStatus(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":{"id":"u1","firstName":"A","lastName":"B","email":"a@b.c","role":"buyer"}}`))
	}))
	store, creds, _ := newStore(t, server.URL)
	require.NoError(t, creds.Save(credentials.Credentials{Token: "tok"}))

	assert.Equal(t, StatusResolved, store.Bootstrap(context.Background()))
	assert.Equal(t, StatusResolved, store.Bootstrap(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoginSetsResolvedState(t *testing.T) {
	store, creds, client := newStore(t, "http://127.0.0.1:0")

	user := User{ID: "u2", Email: "seller@example.com", Role: RoleSeller}
	require.NoError(t, store.Login("fresh-token", user))

	assert.Equal(t, StatusResolved, store.Status())
	got, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, RoleSeller, got.Role)
	assert.Equal(t, "fresh-token", client.Token())

	loaded, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", loaded.Token)
	assert.Equal(t, "seller@example.com", loaded.Email)
}

func TestLogoutClearsEverything(t *testing.T) {
	store, creds, client := newStore(t, "http://127.0.0.1:0")
	require.NoError(t, store.Login("tok", User{ID: "u1", Role: RoleBuyer}))

	var listenerCalls int
	store.OnLogout(func() { listenerCalls++ })

	require.NoError(t, store.Logout())

	assert.Equal(t, StatusAnonymous, store.Status())
	_, ok := store.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, client.Token())
	assert.Equal(t, 1, listenerCalls)

	loaded, err := creds.Load()
	require.NoError(t, err)
	assert.False(t, loaded.Present())
}

func TestLogoutFromAnyPriorState(t *testing.T) {
	// Logout on a store that never logged in still ends anonymous.
	store, _, _ := newStore(t, "http://127.0.0.1:0")
	require.NoError(t, store.Logout())
	assert.Equal(t, StatusAnonymous, store.Status())
}

func TestSnapshotCopiesUser(t *testing.T) {
	store, _, _ := newStore(t, "http://127.0.0.1:0")
	require.NoError(t, store.Login("tok", User{ID: "u1", FirstName: "A"}))

	snap := store.Snapshot()
	snap.User.FirstName = "mutated"

	got, _ := store.CurrentUser()
	assert.Equal(t, "A", got.FirstName)
}

func TestAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/user/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"issued-token"}`))
	})
	mux.HandleFunc("GET /api/v1/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":"u9","firstName":"New","lastName":"User","email":"n@e.w","role":"buyer"}}`))
	})
	server := newTestServer(t, mux)
	store, creds, _ := newStore(t, server.URL)

	user, err := store.Authenticate(context.Background(), "n@e.w", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.Equal(t, StatusResolved, store.Status())

	loaded, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", loaded.Token)
}

func TestAuthenticateRejected(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid email or password"}`))
	}))
	store, _, _ := newStore(t, server.URL)

	_, err := store.Authenticate(context.Background(), "n@e.w", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
	assert.Equal(t, StatusUnresolved, store.Status())
}
