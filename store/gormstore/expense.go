package gormstore

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"finbook/models"
	"finbook/store"
)

// LoadAllExpenses 加载全部消费记录，按创建顺序返回
func (s *Store) LoadAllExpenses() ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Order("created_at ASC, id ASC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("查询消费记录失败: %w", err)
	}
	return expenses, nil
}

// LoadExpensesByType 按消费类型过滤加载
func (s *Store) LoadExpensesByType(t models.ExpenseType) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("type = ?", t).Order("created_at ASC, id ASC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("查询消费记录失败: %w", err)
	}
	return expenses, nil
}

// AddExpense 新增消费记录，目标金额联动与记录写入在同一事务内
func (s *Store) AddExpense(e models.Expense) error {
	e.Normalize()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if goalID := e.LinkedGoalID(); goalID != "" {
			if err := adjustGoal(tx, goalID, e.Amount, false); err != nil {
				return err
			}
		}
		if err := tx.Create(&e).Error; err != nil {
			return fmt.Errorf("创建消费记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if goalID := e.LinkedGoalID(); goalID != "" {
		s.notify(store.EntityGoal, store.ActionAdjusted, goalID)
	}
	s.notify(store.EntityExpense, store.ActionCreated, e.ID)
	return nil
}

// UpdateExpense 按ID整体替换消费记录
// 以库内存量记录为准回退旧的目标贡献，再应用新贡献，整体在一个事务内
func (s *Store) UpdateExpense(e models.Expense) error {
	e.Normalize()

	var adjusted []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old models.Expense
		if err := tx.Where("id = ?", e.ID).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", store.ErrExpenseNotFound, e.ID)
			}
			return fmt.Errorf("查询消费记录失败: %w", err)
		}

		if oldGoalID := old.LinkedGoalID(); oldGoalID != "" {
			if err := adjustGoal(tx, oldGoalID, old.Amount, true); err != nil {
				if errors.Is(err, store.ErrGoalNotFound) {
					// 旧目标已被单独删除，无可回退
					log.Printf("更新消费记录 %s：原关联目标 %s 已不存在，跳过回退", e.ID, oldGoalID)
				} else {
					return err
				}
			} else {
				adjusted = append(adjusted, oldGoalID)
			}
		}
		if newGoalID := e.LinkedGoalID(); newGoalID != "" {
			if err := adjustGoal(tx, newGoalID, e.Amount, false); err != nil {
				return err
			}
			if newGoalID != old.LinkedGoalID() {
				adjusted = append(adjusted, newGoalID)
			}
		}

		if err := tx.Model(&models.Expense{}).Where("id = ?", e.ID).
			Select("Name", "Date", "Type", "Amount", "GoalID").
			Updates(map[string]interface{}{
				"name":    e.Name,
				"date":    e.Date,
				"type":    e.Type,
				"amount":  e.Amount,
				"goal_id": e.GoalID,
			}).Error; err != nil {
			return fmt.Errorf("更新消费记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range adjusted {
		s.notify(store.EntityGoal, store.ActionAdjusted, id)
	}
	s.notify(store.EntityExpense, store.ActionUpdated, e.ID)
	return nil
}

// DeleteExpense 按ID删除消费记录，关联目标的已存金额同事务内回退（下限为 0）
func (s *Store) DeleteExpense(id string) error {
	var adjustedGoal string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old models.Expense
		if err := tx.Where("id = ?", id).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", store.ErrExpenseNotFound, id)
			}
			return fmt.Errorf("查询消费记录失败: %w", err)
		}

		if goalID := old.LinkedGoalID(); goalID != "" {
			if err := adjustGoal(tx, goalID, old.Amount, true); err != nil {
				if errors.Is(err, store.ErrGoalNotFound) {
					log.Printf("删除消费记录 %s：关联目标 %s 已不存在，跳过回退", id, goalID)
				} else {
					return err
				}
			} else {
				adjustedGoal = goalID
			}
		}

		if err := tx.Delete(&models.Expense{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("删除消费记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if adjustedGoal != "" {
		s.notify(store.EntityGoal, store.ActionAdjusted, adjustedGoal)
	}
	s.notify(store.EntityExpense, store.ActionDeleted, id)
	return nil
}

// DeleteAllExpenses 清空全部消费记录
func (s *Store) DeleteAllExpenses() error {
	if err := s.db.Where("1 = 1").Delete(&models.Expense{}).Error; err != nil {
		return fmt.Errorf("清空消费记录失败: %w", err)
	}
	s.notify(store.EntityExpense, store.ActionCleared, "")
	return nil
}
