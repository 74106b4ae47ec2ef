package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/tradingdata/internal/stock/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncStateModel 日线同步进度表
type SyncStateModel struct {
	Code    string `gorm:"column:code;primaryKey"`
	Date    uint64 `gorm:"column:date"`
	Updated bool   `gorm:"column:updated"`
}

// TableName 指定表名
func (SyncStateModel) TableName() string {
	return "stock_daily_price_sync_record"
}

type syncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository 创建同步进度仓储实例
func NewSyncStateRepository(db *gorm.DB) domain.SyncStateRepository {
	return &syncStateRepository{db: db}
}

func (r *syncStateRepository) Get(ctx context.Context, code string) (*domain.SyncState, error) {
	var model SyncStateModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.SyncState{
		Code:      model.Code,
		Date:      model.Date,
		Finalized: model.Updated,
	}, nil
}

func (r *syncStateRepository) Create(ctx context.Context, state *domain.SyncState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SyncStateModel{
			Code:    state.Code,
			Date:    state.Date,
			Updated: state.Finalized,
		}).Error
}

func (r *syncStateRepository) Upsert(ctx context.Context, state *domain.SyncState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"date", "updated"}),
		}).
		Create(&SyncStateModel{
			Code:    state.Code,
			Date:    state.Date,
			Updated: state.Finalized,
		}).Error
}
