package store

import (
	"errors"

	"github.com/shopspring/decimal"

	"finbook/models"
)

// 存储层统一错误，调用方可用 errors.Is 区分失败原因
var (
	// ErrCorruptData 持久化数据损坏（区别于"尚无数据"）
	ErrCorruptData = errors.New("持久化数据损坏")
	// ErrExpenseNotFound 消费记录不存在
	ErrExpenseNotFound = errors.New("消费记录不存在")
	// ErrGoalNotFound 储蓄目标不存在
	ErrGoalNotFound = errors.New("储蓄目标不存在")
	// ErrNegativeAmount 调整金额不能为负数
	ErrNegativeAmount = errors.New("调整金额不能为负数")
)

// ExpenseStore 消费记录存储
// Savings 类型且关联储蓄目标的记录在增删改时联动调整目标的已存金额：
// 新增时加上消费金额，删除时减去（下限为 0），更新时先按存量记录回退旧贡献再应用新贡献
type ExpenseStore interface {
	// LoadAllExpenses 加载全部消费记录；尚无数据时返回空列表
	LoadAllExpenses() ([]models.Expense, error)
	// LoadExpensesByType 按消费类型过滤加载
	LoadExpensesByType(t models.ExpenseType) ([]models.Expense, error)
	// AddExpense 新增消费记录；关联的储蓄目标不存在时返回 ErrGoalNotFound，记录不会写入
	AddExpense(e models.Expense) error
	// UpdateExpense 按ID整体替换消费记录；记录不存在时返回 ErrExpenseNotFound
	UpdateExpense(e models.Expense) error
	// DeleteExpense 按ID删除消费记录
	DeleteExpense(id string) error
	// DeleteAllExpenses 清空全部消费记录；不存在数据时也视为成功
	DeleteAllExpenses() error
}

// GoalStore 储蓄目标存储
type GoalStore interface {
	// LoadAllGoals 加载全部储蓄目标；尚无数据时返回空列表
	LoadAllGoals() ([]models.SavingGoal, error)
	// AddGoal 新增储蓄目标
	AddGoal(g models.SavingGoal) error
	// UpdateGoal 按ID整体替换储蓄目标；不存在时返回 ErrGoalNotFound
	UpdateGoal(g models.SavingGoal) error
	// DeleteGoal 按ID删除储蓄目标
	DeleteGoal(id string) error
	// AddAmount 为指定目标的已存金额加上 amount
	AddAmount(goalID string, amount decimal.Decimal) error
	// SubtractAmount 为指定目标的已存金额减去 amount，结果下限为 0，不会为负
	SubtractAmount(goalID string, amount decimal.Decimal) error
	// DeleteAllGoals 清空全部储蓄目标
	DeleteAllGoals() error
}

// BudgetStore 预算存储，单槽位记录
type BudgetStore interface {
	// LoadBudget 加载预算；尚未设置时返回 nil
	LoadBudget() (*models.Budget, error)
	// SaveBudget 整体覆盖保存预算
	SaveBudget(b models.Budget) error
	// DeleteBudget 删除预算；不存在时也视为成功
	DeleteBudget() error
}

// Store 聚合三类存储，消费记录与储蓄目标共享同一持久化边界
type Store interface {
	ExpenseStore
	GoalStore
	BudgetStore
}
