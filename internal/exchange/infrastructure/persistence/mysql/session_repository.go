package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"gorm.io/gorm"
)

// SessionModel 日内交易时段表，start_time/end_time 为 "HH:MM:SS"
type SessionModel struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Exchange  string `gorm:"column:exchange;index"`
	StartTime string `gorm:"column:start_time"`
	EndTime   string `gorm:"column:end_time"`
}

// TableName 指定表名
func (SessionModel) TableName() string {
	return "market_time"
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建交易时段仓储实例
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) ListByExchange(ctx context.Context, exchange domain.Exchange) ([]*domain.SessionWindow, error) {
	var models []*SessionModel
	err := r.db.WithContext(ctx).
		Where("exchange = ?", string(exchange)).
		Order("start_time asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	windows := make([]*domain.SessionWindow, 0, len(models))
	for _, m := range models {
		start, err := parseSecondOfDay(m.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time %q for %s: %w", m.StartTime, m.Exchange, err)
		}
		end, err := parseSecondOfDay(m.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time %q for %s: %w", m.EndTime, m.Exchange, err)
		}
		windows = append(windows, &domain.SessionWindow{
			Exchange: exchange,
			Start:    start,
			End:      end,
		})
	}
	return windows, nil
}

func parseSecondOfDay(s string) (int, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}
