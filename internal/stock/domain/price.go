package domain

import (
	"github.com/shopspring/decimal"
)

// DailyPriceBar 日线行情。Date 为交易所本地日期 yyyyMMdd，
// Volume/Amount 在部分数据源缺失，允许为空。
type DailyPriceBar struct {
	Code   string
	Date   uint64
	Open   decimal.Decimal
	Close  decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Volume *decimal.Decimal
	Amount *decimal.Decimal
}

// IsUp 是否收阳
func (b *DailyPriceBar) IsUp() bool {
	return b.Close.GreaterThan(b.Open)
}

// IsDown 是否收阴
func (b *DailyPriceBar) IsDown() bool {
	return b.Close.LessThan(b.Open)
}

// RealBody 实体长度
func (b *DailyPriceBar) RealBody() decimal.Decimal {
	return b.Close.Sub(b.Open).Abs()
}

// UpperShadow 上影线长度
func (b *DailyPriceBar) UpperShadow() decimal.Decimal {
	if b.IsUp() {
		return b.High.Sub(b.Close)
	}
	return b.High.Sub(b.Open)
}

// LowerShadow 下影线长度
func (b *DailyPriceBar) LowerShadow() decimal.Decimal {
	if b.IsUp() {
		return b.Open.Sub(b.Low)
	}
	return b.Close.Sub(b.Low)
}

// MidPrice 最高最低的中间价
func (b *DailyPriceBar) MidPrice() decimal.Decimal {
	return b.High.Add(b.Low).Div(decimal.NewFromInt(2))
}

// IsNoTrade 当日是否无成交（四价相等且无量）
func (b *DailyPriceBar) IsNoTrade() bool {
	if b.Volume != nil && !b.Volume.IsZero() {
		return false
	}
	return b.Open.Equal(b.Close) && b.Open.Equal(b.High) && b.Open.Equal(b.Low)
}
