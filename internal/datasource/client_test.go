package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	stockdomain "github.com/wyfcoding/tradingdata/internal/stock/domain"
	"github.com/wyfcoding/tradingdata/pkg/config"
)

type staticTokens struct {
	token string
}

func (t *staticTokens) Token(_ context.Context) (string, error) {
	return t.token, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.DataSourceConfig{BaseURL: srv.URL, Timeout: 5}, tokens)
}

func TestFetchDailyPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/price/daily", r.URL.Path)
		assert.Equal(t, "600000", r.URL.Query().Get("code"))
		assert.Equal(t, "SSE", r.URL.Query().Get("exchange"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":20240104,"open":"10.0","close":"10.2","high":"10.3","low":"9.9","volume":"1000000","amount":"10150000"},
			{"date":20240105,"open":"10.2","close":"10.4","high":"10.5","low":"10.1","volume":null,"amount":null}
		]`))
	}, nil)

	inst := &stockdomain.Instrument{
		Code:      "600000.SH",
		LocalCode: "600000",
		Exchange:  exchdomain.SSE,
		Kind:      stockdomain.KindStock,
	}
	bars, err := client.FetchDailyPrices(context.Background(), inst)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, uint64(20240104), bars[0].Date)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, "1000000", bars[0].Volume.String())

	assert.Equal(t, uint64(20240105), bars[1].Date)
	assert.Nil(t, bars[1].Volume)
	assert.Nil(t, bars[1].Amount)
}

func TestFetchDailyPricesAttachesHKEXToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}, &staticTokens{token: "test-token"})

	inst := &stockdomain.Instrument{
		Code:      "00700.HK",
		LocalCode: "00700",
		Exchange:  exchdomain.HKEX,
		Kind:      stockdomain.KindStock,
	}
	_, err := client.FetchDailyPrices(context.Background(), inst)
	require.NoError(t, err)
}

func TestFetchHolidays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/calendar/holidays", r.URL.Path)
		w.Write([]byte(`["20240101","20240212"]`))
	}, nil)

	dates, err := client.FetchHolidays(context.Background(), exchdomain.SSE)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, uint64(20240101), exchdomain.SSE.DateInt(dates[0]))
	assert.Equal(t, "Asia/Shanghai", dates[0].Location().String())
}

func TestFetchStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	_, err := client.FetchHolidays(context.Background(), exchdomain.SSE)
	assert.Error(t, err)
}
