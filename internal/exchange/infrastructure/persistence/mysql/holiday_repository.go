package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HolidayModel 休市日期表
type HolidayModel struct {
	ID    uint64 `gorm:"column:id;primaryKey"`
	Year  uint16 `gorm:"column:year"`
	Month uint8  `gorm:"column:month"`
	Day   uint8  `gorm:"column:day"`
}

// TableName 指定表名
func (HolidayModel) TableName() string {
	return "market_holiday"
}

type holidayRepository struct {
	db *gorm.DB
}

// NewHolidayRepository 创建休市日期仓储实例
func NewHolidayRepository(db *gorm.DB) domain.HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) Get(ctx context.Context, id uint64) (*domain.Holiday, error) {
	var model HolidayModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toHoliday(&model), nil
}

func (r *holidayRepository) ListIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&HolidayModel{}).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *holidayRepository) BulkInsert(ctx context.Context, holidays []*domain.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}
	models := make([]*HolidayModel, len(holidays))
	for i, h := range holidays {
		models[i] = &HolidayModel{
			ID:    h.ID,
			Year:  h.Year,
			Month: h.Month,
			Day:   h.Day,
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
}

func toHoliday(m *HolidayModel) *domain.Holiday {
	return &domain.Holiday{
		ID:    m.ID,
		Year:  m.Year,
		Month: m.Month,
		Day:   m.Day,
	}
}
