package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/placemark/internal/client/config"
	"github.com/dmitrijs2005/placemark/internal/client/flow"
	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/logging"
)

type apiServer struct {
	mu        sync.Mutex
	locations []map[string]any
	creates   []map[string]any
	lists     []string
	refreshes int
}

func (s *apiServer) token(t *testing.T, ttl time.Duration) string {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return raw
}

func (s *apiServer) handler(t *testing.T) http.Handler {
	reply := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			reply(w, http.StatusBadRequest, map[string]any{"detail": "Incorrect username or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r", Path: "/"})
		reply(w, http.StatusOK, map[string]any{"access_token": s.token(t, time.Hour)})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.refreshes++
		s.mu.Unlock()
		reply(w, http.StatusOK, map[string]any{"access_token": s.token(t, time.Hour)})
	})
	mux.HandleFunc("GET /locations", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lists = append(s.lists, r.Header.Get("Authorization"))
		reply(w, http.StatusOK, s.locations)
	})
	mux.HandleFunc("POST /locations", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			reply(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.creates = append(s.creates, body)
		body["id"] = "loc-1"
		s.locations = append(s.locations, body)
		reply(w, http.StatusOK, body)
	})
	return mux
}

func newTestApp(t *testing.T, srv *apiServer, input string) *App {
	t.Helper()
	ts := httptest.NewServer(srv.handler(t))
	t.Cleanup(ts.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerURL = ts.URL
	cfg.DBPath = filepath.Join(t.TempDir(), "data", "placemark.db")
	cfg.Home = &config.Position{Lat: 52.52, Lng: 13.405}

	app, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	var sink strings.Builder
	app.reader = bufio.NewReader(strings.NewReader(input))
	app.out = &sink
	return app
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func TestApp_ClickRequiresLogin(t *testing.T) {
	captureOutput(t)
	srv := &apiServer{}
	app := newTestApp(t, srv, "")
	t.Cleanup(app.Close)
	ctx := context.Background()
	app.bind(ctx)

	require.NoError(t, app.Click(ctx, []string{"52.5", "13.4"}))
	assert.Equal(t, flow.Idle, app.flow.State())
	assert.Empty(t, srv.creates)
}

func TestApp_LoginCreateLogout(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "secret")
	srv := &apiServer{}
	app := newTestApp(t, srv, "alice\nname=Corner Cafe\naddress=Main St 1\nstart=08:00\nend=20:00\n\n")
	t.Cleanup(app.Close)
	ctx := context.Background()
	app.bind(ctx)

	require.NoError(t, app.Login(ctx))
	assert.True(t, app.isLoggedIn(ctx))
	require.NotEmpty(t, srv.lists)
	assert.True(t, strings.HasPrefix(srv.lists[len(srv.lists)-1], "Bearer "))

	require.NoError(t, app.Click(ctx, []string{"52.5", "13.4"}))
	require.Equal(t, flow.Drafting, app.flow.State())
	require.NoError(t, app.Fill(ctx))

	require.NoError(t, app.Set(ctx, []string{"check", "1999"}))
	_, ok := models.IsValidation(app.Submit(ctx))
	require.True(t, ok)
	assert.Empty(t, srv.creates)

	require.NoError(t, app.Set(ctx, []string{"check", "2500"}))
	require.NoError(t, app.Submit(ctx))
	require.Len(t, srv.creates, 1)
	assert.Equal(t, "Corner Cafe", srv.creates[0]["name"])
	assert.Equal(t, 52.5, srv.creates[0]["latitude"])
	assert.Equal(t, flow.Idle, app.flow.State())

	all := app.catalog.All()
	require.Len(t, all, 1)
	assert.Equal(t, models.ID("loc-1"), all[0].ID)

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn(ctx))
	assert.Equal(t, "", srv.lists[len(srv.lists)-1])

	assert.Contains(t, strings.Join(*out, "\n"), "Created")
}

func TestApp_LoginRejected(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "wrong")
	app := newTestApp(t, &apiServer{}, "alice\n")
	t.Cleanup(app.Close)
	ctx := context.Background()

	_, ok := models.IsValidation(app.Login(ctx))
	require.True(t, ok)
	assert.False(t, app.isLoggedIn(ctx))
	assert.Contains(t, strings.Join(*out, "\n"), "Incorrect username or password")
}

func TestApp_LocateZoomPan(t *testing.T) {
	captureOutput(t)
	app := newTestApp(t, &apiServer{}, "")
	t.Cleanup(app.Close)
	ctx := context.Background()

	require.NoError(t, app.Locate(ctx))
	lat, lng := app.mapView.Center()
	assert.InDelta(t, 52.52, lat, 1e-9)
	assert.InDelta(t, 13.405, lng, 1e-9)
	assert.Equal(t, 12, app.mapView.Zoom())

	require.NoError(t, app.Zoom(ctx, 1))
	assert.Equal(t, 13, app.mapView.Zoom())
	require.NoError(t, app.Zoom(ctx, -1))
	require.NoError(t, app.Zoom(ctx, -1))
	assert.Equal(t, 11, app.mapView.Zoom())

	require.Error(t, app.Pan(ctx, []string{"north"}))
	require.NoError(t, app.Pan(ctx, []string{"48.1", "11.6"}))
	lat, _ = app.mapView.Center()
	assert.InDelta(t, 48.1, lat, 1e-9)
}

func TestApp_RunRestoresSnapshotWhenOffline(t *testing.T) {
	captureOutput(t)
	srv := &apiServer{locations: []map[string]any{{"id": 1, "name": "Bakery", "average_check": 2100}}}
	app := newTestApp(t, srv, "list\nexit\n")
	app.Run(context.Background())

	// Same database, server gone.
	cfg := *app.config
	cfg.ServerURL = "http://127.0.0.1:1"
	offline, err := NewApp(context.Background(), &cfg, logging.Nop())
	require.NoError(t, err)
	offline.reader = bufio.NewReader(strings.NewReader("exit\n"))
	offline.out = &strings.Builder{}
	offline.Run(context.Background())

	all := offline.catalog.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Bakery", all[0].Name)
}
