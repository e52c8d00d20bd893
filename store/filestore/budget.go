package filestore

import (
	"encoding/json"
	"fmt"
	"os"

	"finbook/models"
	"finbook/store"
)

// LoadBudget 加载预算，尚未设置时返回 nil
func (s *Store) LoadBudget() (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(budgetFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取 %s 失败: %w", budgetFile, err)
	}

	var b models.Budget
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrCorruptData, budgetFile)
	}
	return &b, nil
}

// SaveBudget 整体覆盖保存预算
// 预算文档保持 {income, savingGoal} 的单对象格式，与历史数据兼容
func (s *Store) SaveBudget(b models.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", budgetFile, err)
	}
	if err := writeFileAtomic(s.path(budgetFile), data); err != nil {
		return err
	}
	s.notify(store.EntityBudget, store.ActionUpdated, "")
	return nil
}

// DeleteBudget 删除预算文档；不存在时也视为成功，同样发出删除事件
func (s *Store) DeleteBudget() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.path(budgetFile)); err != nil {
		return err
	}
	s.notify(store.EntityBudget, store.ActionDeleted, "")
	return nil
}
