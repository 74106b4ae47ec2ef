package mysql

import (
	"context"

	"github.com/wyfcoding/tradingdata/internal/index/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConstituentModel 指数成分股表
type ConstituentModel struct {
	IndexCode string `gorm:"column:index_code;primaryKey"`
	StockCode string `gorm:"column:stock_code;primaryKey"`
	StockName string `gorm:"column:stock_name"`
}

// TableName 指定表名
func (ConstituentModel) TableName() string {
	return "index_constituent"
}

type constituentRepository struct {
	db *gorm.DB
}

// NewConstituentRepository 创建成分股仓储实例
func NewConstituentRepository(db *gorm.DB) domain.ConstituentRepository {
	return &constituentRepository{db: db}
}

func (r *constituentRepository) ListByIndex(ctx context.Context, indexCode string) ([]*domain.IndexConstituent, error) {
	var models []*ConstituentModel
	err := r.db.WithContext(ctx).
		Where("index_code = ?", indexCode).
		Order("stock_code asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	constituents := make([]*domain.IndexConstituent, len(models))
	for i, m := range models {
		constituents[i] = &domain.IndexConstituent{
			IndexCode: m.IndexCode,
			StockCode: m.StockCode,
			StockName: m.StockName,
		}
	}
	return constituents, nil
}

func (r *constituentRepository) BulkInsert(ctx context.Context, constituents []*domain.IndexConstituent) error {
	if len(constituents) == 0 {
		return nil
	}
	models := make([]*ConstituentModel, len(constituents))
	for i, c := range constituents {
		models[i] = &ConstituentModel{
			IndexCode: c.IndexCode,
			StockCode: c.StockCode,
			StockName: c.StockName,
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
}

func (r *constituentRepository) Delete(ctx context.Context, indexCode, stockCode string) error {
	return r.db.WithContext(ctx).
		Where("index_code = ? AND stock_code = ?", indexCode, stockCode).
		Delete(&ConstituentModel{}).Error
}
