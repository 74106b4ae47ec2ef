package domain

// SyncState 单标的的日线同步进度。Date 为最近一次同步覆盖到的
// 交易所本地日期 yyyyMMdd，Finalized 表示该日数据已确定、不会再变。
type SyncState struct {
	Code      string
	Date      uint64
	Finalized bool
}
