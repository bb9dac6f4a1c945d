// Package database 数据表账本使用的数据库连接
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotConnected 尚未调用 Connect
var ErrNotConnected = errors.New("database is not connected")

// DB 对象
var DB *gorm.DB
var SQLDB *sql.DB

// Connect 连接数据库
func Connect(dialector gorm.Dialector, _logger gormlogger.Interface) error {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: _logger,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	DB, SQLDB = db, sqlDB
	return nil
}

// AutoMigrate 自动迁移所有数据表
func AutoMigrate(tables []interface{}) error {
	if DB == nil {
		return ErrNotConnected
	}
	return DB.AutoMigrate(tables...)
}

// Ping 检查连接是否可用
func Ping(ctx context.Context) error {
	if SQLDB == nil {
		return ErrNotConnected
	}
	return SQLDB.PingContext(ctx)
}

// Close 关闭连接池
func Close() error {
	if SQLDB == nil {
		return nil
	}
	return SQLDB.Close()
}
