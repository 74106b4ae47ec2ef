package mysql

import (
	"context"
	"errors"

	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/index/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IndexModel 指数表
type IndexModel struct {
	Code     string `gorm:"column:code;primaryKey"`
	Name     string `gorm:"column:name"`
	Exchange string `gorm:"column:exchange;index"`
}

// TableName 指定表名
func (IndexModel) TableName() string {
	return "stock_index"
}

type indexRepository struct {
	db *gorm.DB
}

// NewIndexRepository 创建指数仓储实例
func NewIndexRepository(db *gorm.DB) domain.IndexRepository {
	return &indexRepository{db: db}
}

func (r *indexRepository) GetByCode(ctx context.Context, code string) (*domain.StockIndex, error) {
	var model IndexModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toIndex(&model), nil
}

func (r *indexRepository) ListAll(ctx context.Context) ([]*domain.StockIndex, error) {
	var models []*IndexModel
	err := r.db.WithContext(ctx).Order("code asc").Find(&models).Error
	if err != nil {
		return nil, err
	}
	indexes := make([]*domain.StockIndex, len(models))
	for i, m := range models {
		indexes[i] = toIndex(m)
	}
	return indexes, nil
}

func (r *indexRepository) BulkInsert(ctx context.Context, indexes []*domain.StockIndex) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]*IndexModel, len(indexes))
	for i, idx := range indexes {
		models[i] = &IndexModel{
			Code:     idx.Code,
			Name:     idx.Name,
			Exchange: string(idx.Exchange),
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
}

func toIndex(m *IndexModel) *domain.StockIndex {
	return &domain.StockIndex{
		Code:     m.Code,
		Name:     m.Name,
		Exchange: exchdomain.Exchange(m.Exchange),
	}
}
