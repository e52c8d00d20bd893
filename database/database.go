// Package database 负责按配置初始化存储后端
package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finbook/config"
	"finbook/models"
	"finbook/store"
	"finbook/store/filestore"
	"finbook/store/gormstore"
)

// Open 按配置打开数据库连接并完成迁移（mysql / sqlite 驱动）
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case "mysql":
		// 构建 MySQL DSN 连接字符串
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Storage.Database.Username,
			cfg.Storage.Database.Password,
			cfg.Storage.Database.Host,
			cfg.Storage.Database.Port,
			cfg.Storage.Database.DBName,
			cfg.Storage.Database.Charset,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Storage.Database.Path)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Storage.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := db.AutoMigrate(
		&models.Expense{},
		&models.SavingGoal{},
		&models.Budget{},
	); err != nil {
		return nil, err
	}

	log.Println("数据库初始化成功")
	return db, nil
}

// NewStore 按配置构造存储实例
// driver 为 file 时使用 JSON 文档存储，mysql / sqlite 时使用 gorm 存储
func NewStore(cfg *config.Config, notifier store.Notifier) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "", "file":
		s, err := filestore.NewStore(cfg.Storage.DataDir, notifier)
		if err != nil {
			return nil, err
		}
		log.Printf("文件存储初始化成功: %s", s.Dir())
		return s, nil
	case "mysql", "sqlite":
		db, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		return gormstore.New(db, notifier), nil
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
}
