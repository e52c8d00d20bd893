package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finbook/service"
	"finbook/store"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	store store.Store
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(st store.Store) *DashboardHandler {
	return &DashboardHandler{store: st}
}

// BudgetCard 预算卡片数据
type BudgetCard struct {
	Income     decimal.Decimal `json:"income"`
	SavingGoal decimal.Decimal `json:"saving_goal"`
	Spendable  decimal.Decimal `json:"spendable"`
	Spent      decimal.Decimal `json:"spent"`
	AmountLeft decimal.Decimal `json:"amount_left"`
	Progress   float64         `json:"progress"`
	OverBudget bool            `json:"over_budget"`
}

// GoalCard 储蓄目标卡片数据
// Contributed 为按消费流水推导的累计贡献，与 SavedAmount 对照可发现漂移
type GoalCard struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	IconName    string          `json:"icon_name"`
	Saved       decimal.Decimal `json:"saved"`
	Target      decimal.Decimal `json:"target"`
	Progress    float64         `json:"progress"`
	Completed   bool            `json:"completed"`
	Contributed decimal.Decimal `json:"contributed"`
}

// Get 获取仪表盘数据
// @Summary 获取仪表盘数据
// @Description 获取本月预算卡片（可支配预算 = 收入 - 储蓄目标金额，支出不含 Savings 类型）和各储蓄目标的进度
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	expenses, err := h.store.LoadAllExpenses()
	if err != nil {
		StoreError(c, err, "查询消费记录失败")
		return
	}
	goals, err := h.store.LoadAllGoals()
	if err != nil {
		StoreError(c, err, "查询储蓄目标失败")
		return
	}
	budget, err := h.store.LoadBudget()
	if err != nil {
		StoreError(c, err, "查询预算失败")
		return
	}

	now := time.Now()

	var card *BudgetCard
	if budget != nil {
		spendable := budget.Spendable()
		spent := service.MonthlySpending(expenses, now)

		progress := 0.0
		if spendable.IsPositive() {
			progress, _ = spent.Div(spendable).Float64()
		}

		card = &BudgetCard{
			Income:     budget.Income,
			SavingGoal: budget.SavingGoal,
			Spendable:  spendable,
			Spent:      spent,
			AmountLeft: spendable.Sub(spent),
			Progress:   progress,
			OverBudget: spent.GreaterThan(spendable),
		}
	}

	goalCards := make([]GoalCard, 0, len(goals))
	for _, g := range goals {
		goalCards = append(goalCards, GoalCard{
			ID:          g.ID,
			Name:        g.Name,
			IconName:    g.IconName,
			Saved:       g.SavedAmount,
			Target:      g.TargetAmount,
			Progress:    g.Progress(),
			Completed:   g.Completed(),
			Contributed: service.GoalContribution(expenses, g.ID),
		})
	}

	Success(c, gin.H{
		"month":  now.Format("2006-01"),
		"budget": card,
		"goals":  goalCards,
	})
}
