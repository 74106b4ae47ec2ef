package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCandleShape(t *testing.T) {
	// 阳线：开 10 收 12，高 13 低 9
	up := &DailyPriceBar{Open: d("10"), Close: d("12"), High: d("13"), Low: d("9")}
	assert.True(t, up.IsUp())
	assert.False(t, up.IsDown())
	assert.True(t, up.RealBody().Equal(d("2")))
	assert.True(t, up.UpperShadow().Equal(d("1")))
	assert.True(t, up.LowerShadow().Equal(d("1")))
	assert.True(t, up.MidPrice().Equal(d("11")))

	// 阴线：开 12 收 10
	down := &DailyPriceBar{Open: d("12"), Close: d("10"), High: d("13"), Low: d("9")}
	assert.True(t, down.IsDown())
	assert.True(t, down.UpperShadow().Equal(d("1")))
	assert.True(t, down.LowerShadow().Equal(d("1")))
}

func TestIsNoTrade(t *testing.T) {
	flat := &DailyPriceBar{Open: d("10"), Close: d("10"), High: d("10"), Low: d("10")}
	assert.True(t, flat.IsNoTrade())

	vol := d("100")
	traded := &DailyPriceBar{Open: d("10"), Close: d("10"), High: d("10"), Low: d("10"), Volume: &vol}
	assert.False(t, traded.IsNoTrade())

	moved := &DailyPriceBar{Open: d("10"), Close: d("11"), High: d("11"), Low: d("10")}
	assert.False(t, moved.IsNoTrade())
}

type stubFetcher struct{ PriceFetcher }

func TestFetcherRegistry(t *testing.T) {
	registry := NewFetcherRegistry()

	_, err := registry.Lookup(exchdomain.SSE)
	assert.ErrorIs(t, err, ErrNoFetcher)

	want := &stubFetcher{}
	registry.Register(exchdomain.SSE, want)
	got, err := registry.Lookup(exchdomain.SSE)
	assert.NoError(t, err)
	assert.Same(t, want, got)
}
