package filestore

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finbook/models"
	"finbook/store"
)

// findGoal 按ID查找储蓄目标，返回下标，未找到返回 -1
func findGoal(goals []models.SavingGoal, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}

// clampZero 金额下限为 0
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// LoadAllGoals 加载全部储蓄目标
func (s *Store) LoadAllGoals() ([]models.SavingGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadList[models.SavingGoal](s.path(goalsFile))
}

// AddGoal 新增储蓄目标
func (s *Store) AddGoal(g models.SavingGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := loadList[models.SavingGoal](s.path(goalsFile))
	if err != nil {
		return err
	}
	goals = append(goals, g)
	if err := saveList(s.path(goalsFile), goals); err != nil {
		return err
	}
	s.notify(store.EntityGoal, store.ActionCreated, g.ID)
	return nil
}

// UpdateGoal 按ID整体替换储蓄目标
func (s *Store) UpdateGoal(g models.SavingGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := loadList[models.SavingGoal](s.path(goalsFile))
	if err != nil {
		return err
	}
	idx := findGoal(goals, g.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, g.ID)
	}
	goals[idx] = g
	if err := saveList(s.path(goalsFile), goals); err != nil {
		return err
	}
	s.notify(store.EntityGoal, store.ActionUpdated, g.ID)
	return nil
}

// DeleteGoal 按ID删除储蓄目标
func (s *Store) DeleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := loadList[models.SavingGoal](s.path(goalsFile))
	if err != nil {
		return err
	}
	idx := findGoal(goals, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, id)
	}
	goals = append(goals[:idx], goals[idx+1:]...)
	if err := saveList(s.path(goalsFile), goals); err != nil {
		return err
	}
	s.notify(store.EntityGoal, store.ActionDeleted, id)
	return nil
}

// AddAmount 为指定目标的已存金额加上 amount
func (s *Store) AddAmount(goalID string, amount decimal.Decimal) error {
	return s.adjustAmount(goalID, amount, false)
}

// SubtractAmount 为指定目标的已存金额减去 amount，结果下限为 0
// 下限保护避免乱序的增删操作把已存金额减成负数
func (s *Store) SubtractAmount(goalID string, amount decimal.Decimal) error {
	return s.adjustAmount(goalID, amount, true)
}

func (s *Store) adjustAmount(goalID string, amount decimal.Decimal, subtract bool) error {
	if amount.IsNegative() {
		return store.ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := loadList[models.SavingGoal](s.path(goalsFile))
	if err != nil {
		return err
	}
	idx := findGoal(goals, goalID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalID)
	}
	if subtract {
		goals[idx].SavedAmount = clampZero(goals[idx].SavedAmount.Sub(amount))
	} else {
		goals[idx].SavedAmount = goals[idx].SavedAmount.Add(amount)
	}
	if err := saveList(s.path(goalsFile), goals); err != nil {
		return err
	}
	s.notify(store.EntityGoal, store.ActionAdjusted, goalID)
	return nil
}

// DeleteAllGoals 删除储蓄目标文档；文件不存在时也视为成功
func (s *Store) DeleteAllGoals() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.path(goalsFile)); err != nil {
		return err
	}
	s.notify(store.EntityGoal, store.ActionCleared, "")
	return nil
}
