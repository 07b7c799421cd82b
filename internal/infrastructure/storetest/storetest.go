// Package storetest holds behavior checks shared by every ObservationStore
// implementation.
package storetest

import (
	"context"
	"testing"

	"btcanalytics-service/internal/application"
	"btcanalytics-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func quote(i int) domain.Quote {
	return domain.Quote{
		Price:          40000 + float64(i),
		MarketCap:      800_000_000_000 + int64(i),
		Volume24h:      20_000_000_000 + int64(i),
		PriceChange24h: float64(i) / 10,
		Raw:            []byte(`{"bitcoin":{"usd":1}}`),
	}
}

// Run exercises a store that must start empty.
func Run(t *testing.T, st application.ObservationStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.Ping(ctx))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	_, ok, err := st.Latest(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = st.Earliest(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	recent, err := st.Recent(ctx, 20)
	require.NoError(t, err)
	require.Empty(t, recent)

	var appended []domain.Observation
	for i := 1; i <= 25; i++ {
		o, err := st.Append(ctx, quote(i))
		require.NoError(t, err)
		require.Equal(t, quote(i).Price, o.Price)
		require.Equal(t, quote(i).MarketCap, o.MarketCap)
		require.Equal(t, quote(i).Volume24h, o.Volume24h)
		require.InDelta(t, quote(i).PriceChange24h, o.PriceChange24h, 1e-9)
		require.False(t, o.ObservedAt.IsZero())
		if len(appended) > 0 {
			prev := appended[len(appended)-1]
			require.Greater(t, o.ID, prev.ID)
			require.False(t, o.ObservedAt.Before(prev.ObservedAt))
		}
		appended = append(appended, o)
	}

	n, err = st.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 25, n)

	latest, ok, err := st.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, appended[24].ID, latest.ID)
	require.Equal(t, []byte(`{"bitcoin":{"usd":1}}`), latest.RawPayload)

	earliest, ok, err := st.Earliest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, appended[0].ID, earliest.ID)

	recent, err = st.Recent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, recent, 20)
	require.Equal(t, appended[24].ID, recent[0].ID)
	require.Equal(t, appended[5].ID, recent[19].ID)

	page, err := st.After(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	require.Equal(t, appended[0].ID, page[0].ID)
	page, err = st.After(ctx, page[9].ID, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	require.Equal(t, appended[10].ID, page[0].ID)
	page, err = st.After(ctx, appended[24].ID, 10)
	require.NoError(t, err)
	require.Empty(t, page)

	for _, limit := range []int{0, -1} {
		recent, err = st.Recent(ctx, limit)
		require.NoError(t, err)
		require.Empty(t, recent, "Recent(%d)", limit)
		page, err = st.After(ctx, 0, limit)
		require.NoError(t, err)
		require.Empty(t, page, "After(0, %d)", limit)
	}
}
