package mysql

import (
	"context"

	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/fund/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FundModel 基金表
type FundModel struct {
	Code     string `gorm:"column:code;primaryKey"`
	Name     string `gorm:"column:name"`
	Exchange string `gorm:"column:exchange;index"`
}

// TableName 指定表名
func (FundModel) TableName() string {
	return "fund"
}

type fundRepository struct {
	db *gorm.DB
}

// NewFundRepository 创建基金仓储实例
func NewFundRepository(db *gorm.DB) domain.FundRepository {
	return &fundRepository{db: db}
}

func (r *fundRepository) FindAll(ctx context.Context) ([]*domain.Fund, error) {
	var models []*FundModel
	err := r.db.WithContext(ctx).Order("code asc").Find(&models).Error
	if err != nil {
		return nil, err
	}
	funds := make([]*domain.Fund, len(models))
	for i, m := range models {
		funds[i] = &domain.Fund{
			Code:     m.Code,
			Name:     m.Name,
			Exchange: exchdomain.Exchange(m.Exchange),
		}
	}
	return funds, nil
}

func (r *fundRepository) BulkInsert(ctx context.Context, funds []*domain.Fund) error {
	if len(funds) == 0 {
		return nil
	}
	models := make([]*FundModel, len(funds))
	for i, f := range funds {
		models[i] = &FundModel{
			Code:     f.Code,
			Name:     f.Name,
			Exchange: string(f.Exchange),
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
}
