package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidBudget 预算中储蓄目标金额不能超过收入
var ErrInvalidBudget = errors.New("储蓄目标金额不能超过收入")

// Budget 月度预算，单例记录：整体覆盖保存，整体删除
type Budget struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	Income     decimal.Decimal `json:"income" gorm:"type:decimal(12,2);not null"`
	SavingGoal decimal.Decimal `json:"savingGoal" gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}

// Validate 校验预算
func (b *Budget) Validate() error {
	if b.Income.IsNegative() || b.SavingGoal.IsNegative() {
		return ErrInvalidBudget
	}
	if b.SavingGoal.GreaterThan(b.Income) {
		return ErrInvalidBudget
	}
	return nil
}

// Spendable 可支配预算 = 收入 - 储蓄目标金额
func (b *Budget) Spendable() decimal.Decimal {
	return b.Income.Sub(b.SavingGoal)
}
