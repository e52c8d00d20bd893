package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseType 消费类型（固定枚举）
type ExpenseType string

// 消费类型常量
const (
	TypeBills     ExpenseType = "Bills"
	TypeFood      ExpenseType = "Food"
	TypeGrocery   ExpenseType = "Groceries"
	TypeSavings   ExpenseType = "Savings"
	TypeTransport ExpenseType = "Transportation"
	TypeMisc      ExpenseType = "Misc."
)

// GetExpenseTypes 获取所有消费类型
func GetExpenseTypes() []ExpenseType {
	return []ExpenseType{
		TypeBills,
		TypeFood,
		TypeGrocery,
		TypeSavings,
		TypeTransport,
		TypeMisc,
	}
}

// Valid 判断消费类型是否合法
func (t ExpenseType) Valid() bool {
	switch t {
	case TypeBills, TypeFood, TypeGrocery, TypeSavings, TypeTransport, TypeMisc:
		return true
	}
	return false
}

// IconName 消费类型对应的图标标识
func (t ExpenseType) IconName() string {
	switch t {
	case TypeBills:
		return "newspaper"
	case TypeFood:
		return "fork.knife"
	case TypeGrocery:
		return "cart"
	case TypeSavings:
		return "banknote"
	case TypeTransport:
		return "bus"
	default:
		return "giftcard"
	}
}

// Expense 消费记录模型
// GoalID 仅在 Type 为 Savings 且关联了储蓄目标时存在
type Expense struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	Name      string          `json:"name" gorm:"size:100;not null"`
	Date      time.Time       `json:"date" gorm:"index;not null"`
	Type      ExpenseType     `json:"type" gorm:"size:50;not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	GoalID    *string         `json:"goalID,omitempty" gorm:"size:36;index"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense 创建消费记录，自动生成不可变的唯一标识
func NewExpense(name string, date time.Time, t ExpenseType, amount decimal.Decimal, goalID *string) Expense {
	e := Expense{
		ID:     uuid.NewString(),
		Name:   name,
		Date:   date,
		Type:   t,
		Amount: amount,
		GoalID: goalID,
	}
	e.Normalize()
	return e
}

// Normalize 强制不变量：非 Savings 类型不允许关联储蓄目标
func (e *Expense) Normalize() {
	if e.Type != TypeSavings {
		e.GoalID = nil
	}
}

// LinkedGoalID 返回关联的储蓄目标ID，未关联返回空字符串
func (e *Expense) LinkedGoalID() string {
	if e.Type == TypeSavings && e.GoalID != nil {
		return *e.GoalID
	}
	return ""
}
