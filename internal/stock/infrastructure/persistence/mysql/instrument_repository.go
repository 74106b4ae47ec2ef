package mysql

import (
	"context"
	"errors"

	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/stock/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstrumentModel 标的表
type InstrumentModel struct {
	Code      string `gorm:"column:code;primaryKey"`
	LocalCode string `gorm:"column:local_code"`
	Name      string `gorm:"column:name"`
	Exchange  string `gorm:"column:exchange;index"`
	Kind      string `gorm:"column:kind;index"`
}

// TableName 指定表名
func (InstrumentModel) TableName() string {
	return "stock"
}

type instrumentRepository struct {
	db *gorm.DB
}

// NewInstrumentRepository 创建标的仓储实例
func NewInstrumentRepository(db *gorm.DB) domain.InstrumentRepository {
	return &instrumentRepository{db: db}
}

func (r *instrumentRepository) GetByCode(ctx context.Context, code string) (*domain.Instrument, error) {
	var model InstrumentModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toInstrument(&model), nil
}

func (r *instrumentRepository) ListByKind(ctx context.Context, kind domain.Kind) ([]*domain.Instrument, error) {
	var models []*InstrumentModel
	err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("code asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	instruments := make([]*domain.Instrument, len(models))
	for i, m := range models {
		instruments[i] = toInstrument(m)
	}
	return instruments, nil
}

func (r *instrumentRepository) BulkInsert(ctx context.Context, instruments []*domain.Instrument) error {
	if len(instruments) == 0 {
		return nil
	}
	models := make([]*InstrumentModel, len(instruments))
	for i, inst := range instruments {
		models[i] = &InstrumentModel{
			Code:      inst.Code,
			LocalCode: inst.LocalCode,
			Name:      inst.Name,
			Exchange:  string(inst.Exchange),
			Kind:      string(inst.Kind),
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
}

func toInstrument(m *InstrumentModel) *domain.Instrument {
	return &domain.Instrument{
		Code:      m.Code,
		LocalCode: m.LocalCode,
		Name:      m.Name,
		Exchange:  exchdomain.Exchange(m.Exchange),
		Kind:      domain.Kind(m.Kind),
	}
}
