package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrExchangeCode 未知的交易所代码
var ErrExchangeCode = errors.New("unknown exchange code")

// Exchange 股票交易所
type Exchange string

const (
	// SSE 上交所
	SSE Exchange = "SSE"
	// SZSE 深交所
	SZSE Exchange = "SZSE"
	// HKEX 港交所
	HKEX Exchange = "HKEX"
	// NASDAQ 纳斯达克交易所
	NASDAQ Exchange = "NASDAQ"
)

// Values 所有受支持的交易所
func Values() []Exchange {
	return []Exchange{SSE, SZSE, HKEX, NASDAQ}
}

// Parse 解析交易所代码，大小写不敏感
func Parse(s string) (Exchange, error) {
	switch strings.ToUpper(s) {
	case "SSE":
		return SSE, nil
	case "SZSE":
		return SZSE, nil
	case "HKEX":
		return HKEX, nil
	case "NASDAQ":
		return NASDAQ, nil
	default:
		return "", ErrExchangeCode
	}
}

var (
	locShanghai = mustLocation("Asia/Shanghai")
	locHongKong = mustLocation("Asia/Hong_Kong")
	locNewYork  = mustLocation("America/New_York")
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Location 交易所所在时区
func (e Exchange) Location() *time.Location {
	switch e {
	case HKEX:
		return locHongKong
	case NASDAQ:
		return locNewYork
	default:
		return locShanghai
	}
}

// IntCode 整型判别码，用于构造节假日复合主键
func (e Exchange) IntCode() uint64 {
	switch e {
	case SSE:
		return 10
	case SZSE:
		return 20
	case HKEX:
		return 30
	case NASDAQ:
		return 40
	default:
		return 0
	}
}

// CodeSuffix 该交易所标的代码的全局后缀
func (e Exchange) CodeSuffix() string {
	switch e {
	case SSE:
		return ".SH"
	case SZSE:
		return ".SZ"
	case HKEX:
		return ".HK"
	case NASDAQ:
		return ".NS"
	default:
		return ""
	}
}

// DelayedDailyBar 行情源是否延迟确定当日 K 线。
// 为 true 的交易所当天的 K 线会被持续修正，需要在下一次同步时原地覆盖。
func (e Exchange) DelayedDailyBar() bool {
	return e == HKEX
}

// DateInt 以该交易所本地日历计算 t 对应的 yyyyMMdd 整型日期
func (e Exchange) DateInt(t time.Time) uint64 {
	local := t.In(e.Location())
	return uint64(local.Year())*10000 + uint64(local.Month())*100 + uint64(local.Day())
}
