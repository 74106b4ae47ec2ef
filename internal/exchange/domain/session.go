package domain

import "time"

// MarketStatus 市场状态
type MarketStatus string

const (
	// MarketTrading 连续交易中
	MarketTrading MarketStatus = "MarketTrading"
	// MarketClosed 休市
	MarketClosed MarketStatus = "MarketClosed"
)

// SessionWindow 交易所的一个日内连续交易时段，端点为当日秒数，两端均含。
// 同一交易所的时段按开始时间升序排列且互不重叠。
type SessionWindow struct {
	Exchange Exchange
	// 开始时间，自当日零点起的秒数
	Start int
	// 结束时间，自当日零点起的秒数
	End int
}

// SecondOfDay t 在其所在时区自当日零点起的秒数
func SecondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// StatusAt 在给定时段列表下求 tod（当日秒数）对应的市场状态。
// 空列表表示该交易所没有日内时段定义，视为全天交易（24 小时市场策略）。
func StatusAt(windows []*SessionWindow, tod int) MarketStatus {
	if len(windows) == 0 {
		return MarketTrading
	}
	if tod < windows[0].Start {
		return MarketClosed
	}
	if tod > windows[len(windows)-1].End {
		return MarketClosed
	}
	for _, w := range windows {
		if w.Start <= tod && tod <= w.End {
			return MarketTrading
		}
	}
	// 总区间之内、时段之间的间隙（如午休）
	return MarketClosed
}
