package domain

import "time"

// Holiday 休市日期。主键为本地日期 yyyyMMdd 与交易所判别码拼接而成，
// 例如 2024-01-05 的上交所记录主键为 2024010510。写入后不可变更。
type Holiday struct {
	ID    uint64
	Year  uint16
	Month uint8
	Day   uint8
}

// NewHoliday 以交易所本地日历构造一条休市记录
func NewHoliday(t time.Time, exchange Exchange) *Holiday {
	local := t.In(exchange.Location())
	return &Holiday{
		ID:    HolidayKey(t, exchange),
		Year:  uint16(local.Year()),
		Month: uint8(local.Month()),
		Day:   uint8(local.Day()),
	}
}

// HolidayKey 计算 (本地日期, 交易所) 的复合主键
func HolidayKey(t time.Time, exchange Exchange) uint64 {
	return exchange.DateInt(t)*100 + exchange.IntCode()
}
