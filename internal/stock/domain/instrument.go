package domain

import (
	"errors"

	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
)

// ErrInstrumentNotFound 标的不存在
var ErrInstrumentNotFound = errors.New("instrument not found")

// Kind 标的类别
type Kind string

const (
	KindStock Kind = "Stock"
	KindFund  Kind = "Fund"
	KindIndex Kind = "Index"
)

// Instrument 可交易标的。Code 为带交易所后缀的全局代码（如 600000.SH），
// LocalCode 为交易所本地代码（如 600000）。
type Instrument struct {
	Code      string
	LocalCode string
	Name      string
	Exchange  exchdomain.Exchange
	Kind      Kind
}
