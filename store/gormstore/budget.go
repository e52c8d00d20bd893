package gormstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finbook/models"
	"finbook/store"
)

// budgetRowID 预算为单例记录，固定主键
const budgetRowID = 1

// LoadBudget 加载预算，尚未设置时返回 nil
func (s *Store) LoadBudget() (*models.Budget, error) {
	var b models.Budget
	if err := s.db.Where("id = ?", budgetRowID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询预算失败: %w", err)
	}
	return &b, nil
}

// SaveBudget 整体覆盖保存预算（upsert 单例行）
func (s *Store) SaveBudget(b models.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	b.ID = budgetRowID
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"income", "saving_goal", "updated_at"}),
	}).Create(&b).Error; err != nil {
		return fmt.Errorf("保存预算失败: %w", err)
	}
	s.notify(store.EntityBudget, store.ActionUpdated, "")
	return nil
}

// DeleteBudget 删除预算；不存在时也视为成功
func (s *Store) DeleteBudget() error {
	if err := s.db.Delete(&models.Budget{}, "id = ?", budgetRowID).Error; err != nil {
		return fmt.Errorf("删除预算失败: %w", err)
	}
	s.notify(store.EntityBudget, store.ActionDeleted, "")
	return nil
}
