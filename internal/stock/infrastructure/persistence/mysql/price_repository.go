package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/tradingdata/internal/stock/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyPriceModel 日线表，volume/amount 部分数据源缺失允许为 NULL
type DailyPriceModel struct {
	Code   string              `gorm:"column:code;primaryKey"`
	Date   uint64              `gorm:"column:date;primaryKey"`
	Open   decimal.Decimal     `gorm:"column:open;type:decimal(20,6)"`
	Close  decimal.Decimal     `gorm:"column:close;type:decimal(20,6)"`
	High   decimal.Decimal     `gorm:"column:high;type:decimal(20,6)"`
	Low    decimal.Decimal     `gorm:"column:low;type:decimal(20,6)"`
	Volume decimal.NullDecimal `gorm:"column:volume;type:decimal(30,6)"`
	Amount decimal.NullDecimal `gorm:"column:amount;type:decimal(30,6)"`
}

// TableName 指定表名
func (DailyPriceModel) TableName() string {
	return "stock_daily_price"
}

type dailyPriceRepository struct {
	db *gorm.DB
}

// NewDailyPriceRepository 创建日线仓储实例
func NewDailyPriceRepository(db *gorm.DB) domain.DailyPriceRepository {
	return &dailyPriceRepository{db: db}
}

func (r *dailyPriceRepository) ListByCode(ctx context.Context, code string) ([]*domain.DailyPriceBar, error) {
	var models []*DailyPriceModel
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("date asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	bars := make([]*domain.DailyPriceBar, len(models))
	for i, m := range models {
		bars[i] = toBar(m)
	}
	return bars, nil
}

func (r *dailyPriceRepository) BulkInsert(ctx context.Context, bars []*domain.DailyPriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	models := make([]*DailyPriceModel, len(bars))
	for i, b := range bars {
		models[i] = toModel(b)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
}

func (r *dailyPriceRepository) Update(ctx context.Context, bar *domain.DailyPriceBar) error {
	model := toModel(bar)
	return r.db.WithContext(ctx).
		Model(&DailyPriceModel{}).
		Where("code = ? AND date = ?", bar.Code, bar.Date).
		Updates(map[string]any{
			"open":   model.Open,
			"close":  model.Close,
			"high":   model.High,
			"low":    model.Low,
			"volume": model.Volume,
			"amount": model.Amount,
		}).Error
}

func toModel(b *domain.DailyPriceBar) *DailyPriceModel {
	m := &DailyPriceModel{
		Code:  b.Code,
		Date:  b.Date,
		Open:  b.Open,
		Close: b.Close,
		High:  b.High,
		Low:   b.Low,
	}
	if b.Volume != nil {
		m.Volume = decimal.NullDecimal{Decimal: *b.Volume, Valid: true}
	}
	if b.Amount != nil {
		m.Amount = decimal.NullDecimal{Decimal: *b.Amount, Valid: true}
	}
	return m
}

func toBar(m *DailyPriceModel) *domain.DailyPriceBar {
	b := &domain.DailyPriceBar{
		Code:  m.Code,
		Date:  m.Date,
		Open:  m.Open,
		Close: m.Close,
		High:  m.High,
		Low:   m.Low,
	}
	if m.Volume.Valid {
		v := m.Volume.Decimal
		b.Volume = &v
	}
	if m.Amount.Valid {
		a := m.Amount.Decimal
		b.Amount = &a
	}
	return b
}
