package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func cnSessions() []*SessionWindow {
	// 沪深市场：9:30-11:30, 13:00-15:00
	return []*SessionWindow{
		{Exchange: SSE, Start: 9*3600 + 30*60, End: 11*3600 + 30*60},
		{Exchange: SSE, Start: 13 * 3600, End: 15 * 3600},
	}
}

func TestStatusAt(t *testing.T) {
	windows := cnSessions()

	tests := []struct {
		name string
		tod  int
		want MarketStatus
	}{
		{"before open", 9 * 3600, MarketClosed},
		{"morning session", 10 * 3600, MarketTrading},
		{"lunch break", 12 * 3600, MarketClosed},
		{"afternoon session", 14 * 3600, MarketTrading},
		{"after close", 16 * 3600, MarketClosed},
		{"open boundary inclusive", 9*3600 + 30*60, MarketTrading},
		{"close boundary inclusive", 15 * 3600, MarketTrading},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(windows, tt.tod))
		})
	}
}

func TestStatusAtEmptySessions(t *testing.T) {
	// 未配置交易时段的交易所视作全天交易
	assert.Equal(t, MarketTrading, StatusAt(nil, 3*3600))
	assert.Equal(t, MarketTrading, StatusAt([]*SessionWindow{}, 23*3600))
}

func TestSecondOfDay(t *testing.T) {
	loc := SSE.Location()
	assert.Equal(t, 9*3600+30*60, SecondOfDay(time.Date(2024, 1, 5, 9, 30, 0, 0, loc)))
	assert.Equal(t, 0, SecondOfDay(time.Date(2024, 1, 5, 0, 0, 0, 0, loc)))
}
