package repository

import (
	"context"
	"sync"
	"testing"

	"classhub/internal/database"
	"classhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresenceRepo(t *testing.T) *PresenceRepository {
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	return NewPresenceRepository(db)
}

func TestTouchUpsertsOneRow(t *testing.T) {
	r := newPresenceRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Touch(ctx, "lobby", 7, "alex", 1000))
	require.NoError(t, r.Touch(ctx, "lobby", 7, "alexander", 2000))

	var n int64
	require.NoError(t, r.db.Model(&models.PresenceRecord{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	rec, err := r.Get(ctx, "lobby", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), rec.LastSeenMs)
	assert.Equal(t, "alex", rec.Name)
}

func TestTouchFillsEmptyName(t *testing.T) {
	r := newPresenceRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Touch(ctx, "lobby", 7, "", 1000))
	require.NoError(t, r.Touch(ctx, "lobby", 7, "alex", 2000))

	rec, err := r.Get(ctx, "lobby", 7)
	require.NoError(t, err)
	assert.Equal(t, "alex", rec.Name)
}

func TestTouchConcurrentSameKey(t *testing.T) {
	r := newPresenceRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(ms int64) {
			defer wg.Done()
			errs <- r.Touch(ctx, "lobby", 7, "alex", ms)
		}(int64(1000 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var n int64
	require.NoError(t, r.db.Model(&models.PresenceRecord{}).Where("channel = ? AND user_id = ?", "lobby", 7).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestListSinceBoundsBothEnds(t *testing.T) {
	r := newPresenceRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Touch(ctx, "lobby", 1, "old", 100))
	require.NoError(t, r.Touch(ctx, "lobby", 2, "mid", 500))
	require.NoError(t, r.Touch(ctx, "lobby", 3, "future", 900))
	require.NoError(t, r.Touch(ctx, "other", 4, "elsewhere", 500))

	list, err := r.ListSince(ctx, "lobby", 200, 600)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(2), list[0].UserID)
}
