package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finbook/models"
)

// TypeStat 按消费类型汇总的统计项
type TypeStat struct {
	Type       models.ExpenseType `json:"type"`
	IconName   string             `json:"icon_name"`
	Total      decimal.Decimal    `json:"total"`
	Count      int                `json:"count"`
	Percentage float64            `json:"percentage"`
}

// MonthStart 返回 t 所在月份的第一天零点
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FilterByRange 按日期范围过滤消费记录，to 为零值时不限制上界
func FilterByRange(expenses []models.Expense, from, to time.Time) []models.Expense {
	filtered := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// Spending 计算消费总额，Savings 类型不计入支出
func Spending(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Type == models.TypeSavings {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// MonthlySpending 计算 ref 所在月份的支出（不含 Savings）
func MonthlySpending(expenses []models.Expense, ref time.Time) decimal.Decimal {
	from := MonthStart(ref)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	return Spending(FilterByRange(expenses, from, to))
}

// TypeStats 按消费类型汇总，金额降序排列，并计算各类型占比
func TypeStats(expenses []models.Expense) []TypeStat {
	byType := make(map[models.ExpenseType]*TypeStat)
	total := decimal.Zero
	for _, e := range expenses {
		st, ok := byType[e.Type]
		if !ok {
			st = &TypeStat{Type: e.Type, IconName: e.Type.IconName(), Total: decimal.Zero}
			byType[e.Type] = st
		}
		st.Total = st.Total.Add(e.Amount)
		st.Count++
		total = total.Add(e.Amount)
	}

	stats := make([]TypeStat, 0, len(byType))
	for _, st := range byType {
		if total.IsPositive() {
			p, _ := st.Total.Div(total).Mul(decimal.NewFromInt(100)).Float64()
			st.Percentage = p
		}
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total.Equal(stats[j].Total) {
			return stats[i].Type < stats[j].Type
		}
		return stats[i].Total.GreaterThan(stats[j].Total)
	})
	return stats
}

// GoalContribution 按消费流水推导某个储蓄目标的累计贡献
// 与目标上独立维护的 SavedAmount 对照，可用于发现两者漂移
func GoalContribution(expenses []models.Expense, goalID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.LinkedGoalID() == goalID {
			total = total.Add(e.Amount)
		}
	}
	return total
}
