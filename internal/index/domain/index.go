package domain

import (
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
)

// StockIndex 指数
type StockIndex struct {
	Code     string
	Name     string
	Exchange exchdomain.Exchange
}

// IndexConstituent 指数成分股
type IndexConstituent struct {
	IndexCode string
	StockCode string
	StockName string
}

// ChangeAction 成分股调整方向
type ChangeAction string

const (
	ActionAdded   ChangeAction = "Added"
	ActionRemoved ChangeAction = "Removed"
)

// ConstituentChange 一次成分股调整
type ConstituentChange struct {
	IndexCode string
	IndexName string
	StockCode string
	StockName string
	Action    ChangeAction
}

// ConstituentDiff 成分股对账结果
type ConstituentDiff struct {
	Added   []*IndexConstituent
	Removed []*IndexConstituent
}

// Empty 是否没有任何调整
func (d *ConstituentDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffConstituents 以股票代码为键对账新旧成分股名单
func DiffConstituents(old, latest []*IndexConstituent) *ConstituentDiff {
	oldSet := make(map[string]*IndexConstituent, len(old))
	for _, c := range old {
		oldSet[c.StockCode] = c
	}
	latestSet := make(map[string]*IndexConstituent, len(latest))
	for _, c := range latest {
		latestSet[c.StockCode] = c
	}

	diff := &ConstituentDiff{}
	for _, c := range latest {
		if _, ok := oldSet[c.StockCode]; !ok {
			diff.Added = append(diff.Added, c)
		}
	}
	for _, c := range old {
		if _, ok := latestSet[c.StockCode]; !ok {
			diff.Removed = append(diff.Removed, c)
		}
	}
	return diff
}
