// Package filestore 基于 JSON 文档的存储实现
// 三个文档共用一个数据目录和一把锁：expenses.json / savingGoals.json / budget.json
// 写入采用临时文件 + 重命名保证原子性，跨文档联动更新失败时回退先写入的文档
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"finbook/store"
)

// 文档文件名（与历史版本保持一致）
const (
	expensesFile = "expenses.json"
	goalsFile    = "savingGoals.json"
	budgetFile   = "budget.json"
)

// schemaVersion 当前文档格式版本
const schemaVersion = 1

// Store JSON 文档存储，实现 store.Store
type Store struct {
	mu       sync.Mutex
	dir      string
	notifier store.Notifier
}

// NewStore 创建文件存储，数据目录不存在时自动创建
func NewStore(dir string, notifier store.Notifier) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	if notifier == nil {
		notifier = store.NopNotifier{}
	}
	return &Store{dir: dir, notifier: notifier}, nil
}

// Dir 返回数据目录
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) notify(entity store.Entity, action store.Action, id string) {
	s.notifier.Notify(store.Event{Entity: entity, Action: action, ID: id})
}

// listDocument 带版本号的集合文档信封
type listDocument[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// loadList 读取集合文档
// 文件不存在视为空集合；优先按带版本的信封解析，兼容早期的裸数组格式；
// 两种格式都解析失败时返回 ErrCorruptData，与"尚无数据"明确区分
func loadList[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("读取 %s 失败: %w", filepath.Base(path), err)
	}

	var doc listDocument[T]
	if err := json.Unmarshal(data, &doc); err == nil && doc.Version > 0 {
		if doc.Items == nil {
			return []T{}, nil
		}
		return doc.Items, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrCorruptData, filepath.Base(path))
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveList 以当前版本的信封格式整体写回集合文档
func saveList[T any](path string, items []T) error {
	doc := listDocument[T]{Version: schemaVersion, Items: items}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic 先写临时文件再重命名，避免写入中断留下半截文档
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入 %s 失败: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入 %s 失败: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入 %s 失败: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入 %s 失败: %w", filepath.Base(path), err)
	}
	return nil
}

// removeFile 删除文档文件，不存在时视为成功
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除 %s 失败: %w", filepath.Base(path), err)
	}
	return nil
}
