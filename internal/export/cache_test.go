package export

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nezhnik/omonete-sub001/pkg/model"
)

func newTestCache(t *testing.T) (*PageCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := NewPageCache(mr.Addr(), 0, "", time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestPageCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	list := &model.CoinList{
		Coins: []model.CoinSummary{{ID: "1", Title: "Соболь", ImageURL: "/images/coins/1.jpg"}},
		Total: 1,
	}
	require.NoError(t, cache.SetPage(ctx, 100, 0, list))

	got, err := cache.GetPage(ctx, 100, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, list, got)
}

func TestPageCache_MissReturnsNil(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.GetPage(context.Background(), 100, 200)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPageCache_Expiration(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	list := &model.CoinList{Total: 1, Coins: []model.CoinSummary{{ID: "1", ImageURL: "x"}}}
	require.NoError(t, cache.SetPage(ctx, 100, 0, list))

	mr.FastForward(2 * time.Hour)

	got, err := cache.GetPage(ctx, 100, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPageCache_Warm(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	st := &fakeExportStore{records: testRecords()}
	s := NewSerializer(st, 2, 500, nil)

	require.NoError(t, cache.Warm(ctx, s, 2, 5))

	page0, err := cache.GetPage(ctx, 2, 0)
	require.NoError(t, err)
	require.NotNil(t, page0)
	assert.Len(t, page0.Coins, 2)

	page1, err := cache.GetPage(ctx, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, page1)
	assert.Len(t, page1.Coins, 2)
}
