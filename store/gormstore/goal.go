package gormstore

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finbook/models"
	"finbook/store"
)

// adjustGoal 在事务内调整目标的已存金额，subtract 为减并将结果下限为 0
func adjustGoal(tx *gorm.DB, goalID string, amount decimal.Decimal, subtract bool) error {
	var goal models.SavingGoal
	if err := tx.Where("id = ?", goalID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", store.ErrGoalNotFound, goalID)
		}
		return fmt.Errorf("查询储蓄目标失败: %w", err)
	}

	saved := goal.SavedAmount
	if subtract {
		saved = saved.Sub(amount)
		if saved.IsNegative() {
			saved = decimal.Zero
		}
	} else {
		saved = saved.Add(amount)
	}

	if err := tx.Model(&models.SavingGoal{}).Where("id = ?", goalID).
		Update("saved_amount", saved).Error; err != nil {
		return fmt.Errorf("更新储蓄目标金额失败: %w", err)
	}
	return nil
}

// LoadAllGoals 加载全部储蓄目标，按创建顺序返回
func (s *Store) LoadAllGoals() ([]models.SavingGoal, error) {
	var goals []models.SavingGoal
	if err := s.db.Order("created_at ASC, id ASC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("查询储蓄目标失败: %w", err)
	}
	return goals, nil
}

// AddGoal 新增储蓄目标
func (s *Store) AddGoal(g models.SavingGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.db.Create(&g).Error; err != nil {
		return fmt.Errorf("创建储蓄目标失败: %w", err)
	}
	s.notify(store.EntityGoal, store.ActionCreated, g.ID)
	return nil
}

// UpdateGoal 按ID整体替换储蓄目标
func (s *Store) UpdateGoal(g models.SavingGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	result := s.db.Model(&models.SavingGoal{}).Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"name":          g.Name,
			"icon_name":     g.IconName,
			"saved_amount":  g.SavedAmount,
			"target_amount": g.TargetAmount,
		})
	if result.Error != nil {
		return fmt.Errorf("更新储蓄目标失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, g.ID)
	}
	s.notify(store.EntityGoal, store.ActionUpdated, g.ID)
	return nil
}

// DeleteGoal 按ID删除储蓄目标
func (s *Store) DeleteGoal(id string) error {
	result := s.db.Delete(&models.SavingGoal{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("删除储蓄目标失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrGoalNotFound, id)
	}
	s.notify(store.EntityGoal, store.ActionDeleted, id)
	return nil
}

// AddAmount 为指定目标的已存金额加上 amount
func (s *Store) AddAmount(goalID string, amount decimal.Decimal) error {
	return s.adjustAmount(goalID, amount, false)
}

// SubtractAmount 为指定目标的已存金额减去 amount，结果下限为 0
func (s *Store) SubtractAmount(goalID string, amount decimal.Decimal) error {
	return s.adjustAmount(goalID, amount, true)
}

func (s *Store) adjustAmount(goalID string, amount decimal.Decimal, subtract bool) error {
	if amount.IsNegative() {
		return store.ErrNegativeAmount
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return adjustGoal(tx, goalID, amount, subtract)
	})
	if err != nil {
		return err
	}
	s.notify(store.EntityGoal, store.ActionAdjusted, goalID)
	return nil
}

// DeleteAllGoals 清空全部储蓄目标
func (s *Store) DeleteAllGoals() error {
	if err := s.db.Where("1 = 1").Delete(&models.SavingGoal{}).Error; err != nil {
		return fmt.Errorf("清空储蓄目标失败: %w", err)
	}
	s.notify(store.EntityGoal, store.ActionCleared, "")
	return nil
}
