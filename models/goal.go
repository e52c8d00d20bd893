package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInvalidTarget 储蓄目标金额必须大于 0
var ErrInvalidTarget = errors.New("目标金额必须大于 0")

// SavingGoal 储蓄目标模型
// SavedAmount 是独立维护的累计值，由消费记录的联动更新和直接加减操作共同调整
type SavingGoal struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	Name         string          `json:"name" gorm:"size:100;not null"`
	IconName     string          `json:"iconName" gorm:"size:50"`
	SavedAmount  decimal.Decimal `json:"savedAmount" gorm:"type:decimal(12,2);not null"`
	TargetAmount decimal.Decimal `json:"targetAmount" gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName 设置表名
func (SavingGoal) TableName() string {
	return "saving_goals"
}

// NewSavingGoal 创建储蓄目标，已存金额从 0 开始
func NewSavingGoal(name, iconName string, targetAmount decimal.Decimal) SavingGoal {
	return SavingGoal{
		ID:           uuid.NewString(),
		Name:         name,
		IconName:     iconName,
		SavedAmount:  decimal.Zero,
		TargetAmount: targetAmount,
	}
}

// Validate 校验储蓄目标
func (g *SavingGoal) Validate() error {
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	return nil
}

// Progress 已存金额占目标金额的比例（0~1，完成后封顶为 1）
func (g *SavingGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	p, _ := g.SavedAmount.Div(g.TargetAmount).Float64()
	if p > 1 {
		return 1
	}
	return p
}

// Completed 是否已达成目标
func (g *SavingGoal) Completed() bool {
	return g.SavedAmount.GreaterThanOrEqual(g.TargetAmount)
}
