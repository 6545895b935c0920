package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "book.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	book := tradebook.NewBook(
		tradebook.NewTrade(date.New(2025, 1, 2), "BTC", tradebook.Sell, 0.5, 300, "half"),
		tradebook.NewTrade(date.New(2025, 1, 1), "BTC", tradebook.Buy, 1, 100, ""),
		tradebook.NewTrade(date.New(2025, 1, 1), "AAPL", tradebook.Buy, 10, 150.25, ""),
	)
	require.NoError(t, store.Save(ctx, book))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	// book order is preserved, not sorted.
	assert.Equal(t, book.Trades(), loaded.Trades())

	require.NoError(t, book.Delete(0))
	require.NoError(t, store.Save(ctx, book))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, book.Trades(), loaded.Trades())

	require.NoError(t, store.Save(ctx, tradebook.NewBook()))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "book.db")

	store, err := Open(dsn)
	require.NoError(t, err)
	book := tradebook.NewBook(tradebook.NewTrade(date.New(2025, 3, 1), "ETH", tradebook.Buy, 2, 1500, ""))
	require.NoError(t, store.Save(ctx, book))
	require.NoError(t, store.Close())

	store, err = Open(dsn)
	require.NoError(t, err)
	defer store.Close()
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, book.Trades(), loaded.Trades())
}

func TestStore_LoadSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	book := tradebook.NewBook(
		tradebook.NewTrade(date.New(2025, 1, 1), "BTC", tradebook.Buy, 1, 100, ""),
		tradebook.NewTrade(date.New(2025, 1, 3), "BTC", tradebook.Sell, 1, 150, ""),
	)
	require.NoError(t, store.Save(ctx, book))
	// rows written by another tool.
	require.NoError(t, store.db.Create(&[]trade{
		{Position: 2, Date: "2025-13-40", Instrument: "ETH", Side: "buy", Quantity: 1, Price: 10},
		{Position: 3, Date: "2025-01-04", Instrument: "ETH", Side: "hold", Quantity: 1, Price: 10},
		{Position: 4, Date: "2025-01-05", Instrument: "ETH", Side: "buy", Quantity: -1, Price: 10},
	}).Error)

	var skipped []error
	store.OnSkip = func(err error) { skipped = append(skipped, err) }
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, book.Trades(), loaded.Trades())
	assert.Len(t, skipped, 3)
}
