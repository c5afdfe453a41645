package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/repositories/cache"
	"github.com/contactx/contactx/internal/client/session"
	"github.com/contactx/contactx/internal/client/storage"
	"github.com/contactx/contactx/internal/logging"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "contactx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countKeys(t *testing.T, db *sql.DB, keys ...string) int {
	t.Helper()
	n := 0
	for _, k := range keys {
		var c int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE key = ?`, k).Scan(&c))
		n += c
	}
	return n
}

// seen is one request observed by the fake backend.
type seen struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// backend is a fake ContactX API mounted under /api.
type backend struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu   sync.Mutex
	reqs []seen
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	s := seen{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &s.Body)
	}
	b.mu.Lock()
	b.reqs = append(b.reqs, s)
	b.mu.Unlock()
	b.mux.ServeHTTP(w, r)
}

// handle registers a canned JSON reply for pattern, e.g. "GET /api/card/all".
func (b *backend) handle(pattern string, status int, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (b *backend) baseURL() string {
	return b.srv.URL + "/api"
}

func (b *backend) requests() []seen {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]seen(nil), b.reqs...)
}

func (b *backend) last() seen {
	reqs := b.requests()
	require.NotEmpty(b.t, reqs)
	return reqs[len(reqs)-1]
}

// logBuffer collects log output; the cache may log from a timer goroutine.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

type harness struct {
	logs    *logBuffer
	backend *backend
	db      *sql.DB
	store   *session.SQLiteStore
	auth    AuthService
	api     APIService
	upload  ImageUploadService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := newBackend(t)
	db := setupDB(t)
	store := session.NewSQLiteStore(db)
	logs := &logBuffer{}
	logger := logging.New(false, logs)

	c := client.New(client.Options{
		BaseURL:  b.baseURL(),
		Store:    store,
		Logger:   logger,
		Timezone: func() (string, error) { return "UTC", nil },
	})
	cardCache := session.NewCache(cache.NewSQLiteRepository(db), logger)

	return &harness{
		logs:    logs,
		backend: b,
		db:      db,
		store:   store,
		auth:    NewAuthService(c, store, logger),
		api:     NewAPIService(c, cardCache, logger),
		upload:  NewImageUploadService(c),
	}
}
