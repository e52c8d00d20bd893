// Package gormstore 基于 gorm 的存储实现，供 MySQL / SQLite 部署使用
// 消费记录与储蓄目标的联动更新在同一事务内完成
package gormstore

import (
	"gorm.io/gorm"

	"finbook/store"
)

// Store gorm 存储，实现 store.Store
type Store struct {
	db       *gorm.DB
	notifier store.Notifier
}

// New 创建 gorm 存储
func New(db *gorm.DB, notifier store.Notifier) *Store {
	if notifier == nil {
		notifier = store.NopNotifier{}
	}
	return &Store{db: db, notifier: notifier}
}

// DB 返回底层 gorm 连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) notify(entity store.Entity, action store.Action, id string) {
	s.notifier.Notify(store.Event{Entity: entity, Action: action, ID: id})
}
