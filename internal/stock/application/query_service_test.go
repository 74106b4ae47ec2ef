package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/stock/domain"
)

type fakePriceCache struct {
	entries map[string][]*domain.DailyPriceBar
	ttls    map[string]time.Duration
	sets    int
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{
		entries: make(map[string][]*domain.DailyPriceBar),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakePriceCache) GetBars(_ context.Context, code string) ([]*domain.DailyPriceBar, bool, error) {
	bars, ok := c.entries[code]
	return bars, ok, nil
}

func (c *fakePriceCache) SetBars(_ context.Context, code string, bars []*domain.DailyPriceBar, ttl time.Duration) error {
	c.entries[code] = bars
	c.ttls[code] = ttl
	c.sets++
	return nil
}

type fakeInstrumentCache struct {
	entries map[string]*domain.Instrument
}

func newFakeInstrumentCache() *fakeInstrumentCache {
	return &fakeInstrumentCache{entries: make(map[string]*domain.Instrument)}
}

func (c *fakeInstrumentCache) Get(_ context.Context, code string) (*domain.Instrument, bool, error) {
	inst, ok := c.entries[code]
	return inst, ok, nil
}

func (c *fakeInstrumentCache) Set(_ context.Context, inst *domain.Instrument, _ time.Duration) error {
	c.entries[inst.Code] = inst
	return nil
}

type fakeDailySyncer struct {
	calls int
	err   error
	// onSync 模拟一次同步对库与进度的影响
	onSync func()
}

func (s *fakeDailySyncer) SyncDailyPrices(_ context.Context, _ string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.onSync != nil {
		s.onSync()
	}
	return nil
}

type queryFixture struct {
	instruments *fakeInstrumentRepo
	prices      *fakePriceRepo
	states      *fakeSyncStateRepo
	priceCache  *fakePriceCache
	instCache   *fakeInstrumentCache
	fetcher     *fakeFetcher
	syncer      *fakeDailySyncer
	svc         *PriceQueryService
}

func newQueryFixture(inst *domain.Instrument, at time.Time) *queryFixture {
	f := &queryFixture{
		instruments: newFakeInstrumentRepo(inst),
		prices:      newFakePriceRepo(),
		states:      newFakeSyncStateRepo(),
		priceCache:  newFakePriceCache(),
		instCache:   newFakeInstrumentCache(),
		fetcher:     &fakeFetcher{},
		syncer:      &fakeDailySyncer{},
	}
	registry := domain.NewFetcherRegistry()
	registry.Register(inst.Exchange, f.fetcher)
	f.svc = NewPriceQueryService(f.instruments, f.prices, f.states, f.priceCache, f.instCache, registry, f.syncer, nil)
	f.svc.now = func() time.Time { return at }
	return f
}

func TestGetDailyPricesCacheHit(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	cached := []*domain.DailyPriceBar{storedBar(inst.Code, 20240105, "10.4")}
	f.priceCache.entries[inst.Code] = cached

	bars, err := f.svc.GetDailyPrices(context.Background(), inst.Code, true)
	require.NoError(t, err)
	assert.Equal(t, cached, bars)
}

func TestGetDailyPricesCachesOnlyFinalizedToday(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())

	tests := []struct {
		name       string
		state      *domain.SyncState
		wantSync   bool
		wantCached bool
	}{
		{"finalized today", &domain.SyncState{Code: "600000.SH", Date: 20240105, Finalized: true}, false, true},
		{"pending today", &domain.SyncState{Code: "600000.SH", Date: 20240105, Finalized: false}, true, false},
		{"finalized yesterday", &domain.SyncState{Code: "600000.SH", Date: 20240104, Finalized: true}, true, false},
		{"no state", nil, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQueryFixture(inst, at)
			f.prices.bars[barKey{inst.Code, 20240105}] = storedBar(inst.Code, 20240105, "10.4")
			if tt.state != nil {
				f.states.states[inst.Code] = tt.state
			}

			bars, err := f.svc.GetDailyPrices(context.Background(), inst.Code, true)
			require.NoError(t, err)
			require.Len(t, bars, 1)

			if tt.wantSync {
				assert.Equal(t, 1, f.syncer.calls)
			} else {
				assert.Zero(t, f.syncer.calls)
			}
			if tt.wantCached {
				assert.Equal(t, 1, f.priceCache.sets)
				// 缓存存活到本地次日零点，16:00 查询应为 8 小时
				assert.Equal(t, 8*time.Hour, f.priceCache.ttls[inst.Code])
			} else {
				assert.Zero(t, f.priceCache.sets)
			}
		})
	}
}

func TestGetDailyPricesSyncFallbackFinalizes(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	// 进度未定稿，回源同步补齐当日数据并定稿，随后允许缓存
	f.prices.bars[barKey{inst.Code, 20240104}] = storedBar(inst.Code, 20240104, "10.2")
	f.syncer.onSync = func() {
		f.prices.bars[barKey{inst.Code, 20240105}] = storedBar(inst.Code, 20240105, "10.4")
		f.states.states[inst.Code] = &domain.SyncState{Code: inst.Code, Date: 20240105, Finalized: true}
	}

	bars, err := f.svc.GetDailyPrices(context.Background(), inst.Code, true)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1, f.syncer.calls)
	assert.Equal(t, 1, f.priceCache.sets)
}

func TestGetDailyPricesSyncErrorPropagates(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	f.prices.bars[barKey{inst.Code, 20240104}] = storedBar(inst.Code, 20240104, "10.2")
	f.syncer.err = errors.New("upstream timeout")

	_, err := f.svc.GetDailyPrices(context.Background(), inst.Code, true)
	assert.Error(t, err)
}

func TestGetDailyPricesBypassCache(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	f.priceCache.entries[inst.Code] = []*domain.DailyPriceBar{storedBar(inst.Code, 20240104, "9.9")}
	f.prices.bars[barKey{inst.Code, 20240105}] = storedBar(inst.Code, 20240105, "10.4")

	bars, err := f.svc.GetDailyPrices(context.Background(), inst.Code, false)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, uint64(20240105), bars[0].Date)
}

func TestGetInstrumentReadThrough(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	got, err := f.svc.GetInstrument(context.Background(), inst.Code)
	require.NoError(t, err)
	assert.Equal(t, inst.Code, got.Code)
	// 回源后回填缓存
	assert.Contains(t, f.instCache.entries, inst.Code)

	exchange, err := f.svc.ResolveExchange(context.Background(), inst.Code)
	require.NoError(t, err)
	assert.Equal(t, exchdomain.SSE, exchange)
}

func TestGetInstrumentNotFound(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	_, err := f.svc.GetInstrument(context.Background(), "000000.SZ")
	assert.ErrorIs(t, err, domain.ErrInstrumentNotFound)
}

func TestGetSpotPrice(t *testing.T) {
	inst := sseInstrument()
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, inst.Exchange.Location())
	f := newQueryFixture(inst, at)

	f.fetcher.spot = &domain.SpotPrice{Code: inst.Code, Price: dec("10.15"), Time: "2024-01-05 10:00:00"}

	spot, err := f.svc.GetSpotPrice(context.Background(), inst.Code)
	require.NoError(t, err)
	assert.True(t, spot.Price.Equal(dec("10.15")))
}
