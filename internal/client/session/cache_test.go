package session

import (
	"context"
	"testing"
	"time"

	"github.com/contactx/contactx/internal/client/repositories/cache"
	"github.com/contactx/contactx/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestCache_ValueVisibleUntilTTL(t *testing.T) {
	c := NewCache(cache.NewSQLiteRepository(setupDB(t)), logging.Discard())
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }

	require.NoError(t, c.Put(ctx, "last_created_card", []byte(`{"id":"c1"}`), 10*time.Second))

	v, err := c.Get(ctx, "last_created_card")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"c1"}`, string(v))

	c.now = func() time.Time { return base.Add(10 * time.Second) }
	v, err = c.Get(ctx, "last_created_card")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCache_TimerPurgesExpiredEntries(t *testing.T) {
	db := setupDB(t)
	c := NewCache(cache.NewSQLiteRepository(db), logging.Discard())
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), 20*time.Millisecond))

	require.Eventually(t, func() bool {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM cache`).Scan(&n); err != nil {
			return false
		}
		return n == 0
	}, 2*time.Second, 10*time.Millisecond)
}
