package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactx/contactx/internal/client/config"
	"github.com/contactx/contactx/internal/common"
)

func TestNewApp_PreparesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := &config.Config{
		APIBaseURL: "http://127.0.0.1:1/api",
		Env:        common.EnvProduction,
		DataDir:    dir,
		Timeout:    time.Second,
	}
	var out bytes.Buffer

	a, err := NewApp(context.Background(), cfg, Options{In: strings.NewReader(""), Out: &out, Err: &out})
	require.NoError(t, err)
	assert.False(t, a.interactive)

	ctx := context.Background()
	require.NoError(t, a.store.SetSession(ctx, "tok-1", json.RawMessage(`{"name":"Ada"}`)))
	assert.Equal(t, "(Ada)", a.getStatus(ctx))
	require.NoError(t, a.Close())

	for _, name := range []string{common.DefaultDatabaseName, sessionKeyFile, logFileName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.Empty(t, out.String(), "production logs go to the log file")

	db, err := os.ReadFile(filepath.Join(dir, common.DefaultDatabaseName))
	require.NoError(t, err)
	assert.NotContains(t, string(db), "tok-1")

	// A second start reads the sealed token back.
	a, err = NewApp(ctx, cfg, Options{In: strings.NewReader(""), Out: &out, Err: &out})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.True(t, a.isLoggedIn(ctx))
}

func TestNewApp_DevelopmentLogsToErr(t *testing.T) {
	cfg := &config.Config{
		APIBaseURL: "http://127.0.0.1:1/api",
		Env:        common.EnvDevelopment,
		DataDir:    t.TempDir(),
		Timeout:    time.Second,
	}
	var out, errOut bytes.Buffer

	a, err := NewApp(context.Background(), cfg, Options{In: strings.NewReader(""), Out: &out, Err: &errOut})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Contains(t, errOut.String(), "app started")
	assert.NoFileExists(t, filepath.Join(cfg.DataDir, logFileName))
}
