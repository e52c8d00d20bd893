package filestore

import (
	"fmt"
	"log"

	"finbook/models"
	"finbook/store"
)

// LoadAllExpenses 加载全部消费记录
func (s *Store) LoadAllExpenses() ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadList[models.Expense](s.path(expensesFile))
}

// LoadExpensesByType 按消费类型过滤加载
func (s *Store) LoadExpensesByType(t models.ExpenseType) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList[models.Expense](s.path(expensesFile))
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Expense, 0, len(all))
	for _, e := range all {
		if e.Type == t {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// AddExpense 新增消费记录
// Savings 类型且关联了储蓄目标时，先为目标的已存金额加上消费金额再追加记录；
// 目标不存在时返回 ErrGoalNotFound，记录不会写入
func (s *Store) AddExpense(e models.Expense) error {
	e.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := loadList[models.Expense](s.path(expensesFile))
	if err != nil {
		return err
	}

	var adjustedGoal string
	var prevGoals []models.SavingGoal
	if goalID := e.LinkedGoalID(); goalID != "" {
		goals, err := loadList[models.SavingGoal](s.path(goalsFile))
		if err != nil {
			return err
		}
		idx := findGoal(goals, goalID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalID)
		}
		prevGoals = append([]models.SavingGoal(nil), goals...)
		goals[idx].SavedAmount = goals[idx].SavedAmount.Add(e.Amount)
		if err := saveList(s.path(goalsFile), goals); err != nil {
			return err
		}
		adjustedGoal = goalID
	}

	expenses = append(expenses, e)
	if err := saveList(s.path(expensesFile), expenses); err != nil {
		s.rollbackGoals(prevGoals, adjustedGoal)
		return err
	}

	if adjustedGoal != "" {
		s.notify(store.EntityGoal, store.ActionAdjusted, adjustedGoal)
	}
	s.notify(store.EntityExpense, store.ActionCreated, e.ID)
	return nil
}

// UpdateExpense 按ID整体替换消费记录
// 旧记录若关联了储蓄目标，先按存量数据回退旧贡献（下限为 0），
// 新记录若关联了储蓄目标再加上新贡献；两次调整合并为一次目标文档写入
func (s *Store) UpdateExpense(e models.Expense) error {
	e.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := loadList[models.Expense](s.path(expensesFile))
	if err != nil {
		return err
	}
	idx := -1
	for i := range expenses {
		if expenses[i].ID == e.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrExpenseNotFound, e.ID)
	}
	old := expenses[idx]

	oldGoalID := old.LinkedGoalID()
	newGoalID := e.LinkedGoalID()

	var prevGoals []models.SavingGoal
	var adjusted []string
	if oldGoalID != "" || newGoalID != "" {
		goals, err := loadList[models.SavingGoal](s.path(goalsFile))
		if err != nil {
			return err
		}
		if newGoalID != "" && findGoal(goals, newGoalID) < 0 {
			return fmt.Errorf("%w: %s", store.ErrGoalNotFound, newGoalID)
		}
		prevGoals = append([]models.SavingGoal(nil), goals...)

		if oldGoalID != "" {
			if i := findGoal(goals, oldGoalID); i >= 0 {
				goals[i].SavedAmount = clampZero(goals[i].SavedAmount.Sub(old.Amount))
				adjusted = append(adjusted, oldGoalID)
			} else {
				// 旧目标已被单独删除，无可回退
				log.Printf("更新消费记录 %s：原关联目标 %s 已不存在，跳过回退", e.ID, oldGoalID)
			}
		}
		if newGoalID != "" {
			i := findGoal(goals, newGoalID)
			goals[i].SavedAmount = goals[i].SavedAmount.Add(e.Amount)
			if newGoalID != oldGoalID {
				adjusted = append(adjusted, newGoalID)
			}
		}
		if err := saveList(s.path(goalsFile), goals); err != nil {
			return err
		}
	}

	expenses[idx] = e
	if err := saveList(s.path(expensesFile), expenses); err != nil {
		if len(adjusted) > 0 {
			s.rollbackGoals(prevGoals, adjusted[0])
		}
		return err
	}

	for _, id := range adjusted {
		s.notify(store.EntityGoal, store.ActionAdjusted, id)
	}
	s.notify(store.EntityExpense, store.ActionUpdated, e.ID)
	return nil
}

// DeleteExpense 按ID删除消费记录
// 被删记录若关联了储蓄目标，目标的已存金额减去消费金额（下限为 0）
func (s *Store) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := loadList[models.Expense](s.path(expensesFile))
	if err != nil {
		return err
	}
	idx := -1
	for i := range expenses {
		if expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrExpenseNotFound, id)
	}
	deleted := expenses[idx]

	var adjustedGoal string
	var prevGoals []models.SavingGoal
	if goalID := deleted.LinkedGoalID(); goalID != "" {
		goals, err := loadList[models.SavingGoal](s.path(goalsFile))
		if err != nil {
			return err
		}
		if i := findGoal(goals, goalID); i >= 0 {
			prevGoals = append([]models.SavingGoal(nil), goals...)
			goals[i].SavedAmount = clampZero(goals[i].SavedAmount.Sub(deleted.Amount))
			if err := saveList(s.path(goalsFile), goals); err != nil {
				return err
			}
			adjustedGoal = goalID
		} else {
			log.Printf("删除消费记录 %s：关联目标 %s 已不存在，跳过回退", id, goalID)
		}
	}

	expenses = append(expenses[:idx], expenses[idx+1:]...)
	if err := saveList(s.path(expensesFile), expenses); err != nil {
		s.rollbackGoals(prevGoals, adjustedGoal)
		return err
	}

	if adjustedGoal != "" {
		s.notify(store.EntityGoal, store.ActionAdjusted, adjustedGoal)
	}
	s.notify(store.EntityExpense, store.ActionDeleted, id)
	return nil
}

// DeleteAllExpenses 删除消费记录文档；文件不存在时也视为成功，同样发出清空事件
func (s *Store) DeleteAllExpenses() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.path(expensesFile)); err != nil {
		return err
	}
	s.notify(store.EntityExpense, store.ActionCleared, "")
	return nil
}

// rollbackGoals 消费记录写入失败后，尽力恢复目标文档到调整前的状态
func (s *Store) rollbackGoals(prevGoals []models.SavingGoal, adjustedGoal string) {
	if adjustedGoal == "" {
		return
	}
	if err := saveList(s.path(goalsFile), prevGoals); err != nil {
		log.Printf("回退储蓄目标 %s 的金额调整失败: %v", adjustedGoal, err)
	}
}
