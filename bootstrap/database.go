package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rentpay/pkg/config"
	"rentpay/pkg/database"
	"rentpay/pkg/database/migrations"
	"rentpay/pkg/logger"
)

// SetupDB 初始化数据库和 ORM，仅在使用数据表账本时调用
func SetupDB() error {
	// 根据配置文件选择数据库类型
	var dbConfig gorm.Dialector
	switch config.Get("database.connection") {
	case "postgresql":
		dbConfig = setupPostgreSQL()
	case "sqlite":
		d, err := setupSQLite()
		if err != nil {
			return err
		}
		dbConfig = d
	default:
		return fmt.Errorf("unsupported database connection %q", config.Get("database.connection"))
	}

	// 连接数据库，并设置 GORM 的日志模式
	if err := database.Connect(dbConfig, logger.NewGormLogger()); err != nil {
		logger.ErrorString("数据库", "连接", err.Error())
		return err
	}

	// 设置连接池
	setupDBPool()

	// 自动迁移数据库结构
	if err := database.AutoMigrate(migrations.RegisterTables()); err != nil {
		logger.ErrorString("数据库", "自动迁移", "数据表结构迁移失败："+err.Error())
		return err
	}
	logger.InfoString("数据库", "自动迁移", "数据表结构迁移成功")
	return nil
}

// setupPostgreSQL 配置 PostgreSQL 连接
func setupPostgreSQL() gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		config.Get("database.postgresql.host"),
		config.Get("database.postgresql.port"),
		config.Get("database.postgresql.username"),
		config.Get("database.postgresql.password"),
		config.Get("database.postgresql.database"),
		config.Get("database.postgresql.sslmode", "disable"),
		config.Get("app.timezone", "Asia/Manila"),
	)
	return postgres.New(postgres.Config{
		DSN: dsn,
	})
}

// setupSQLite 配置 SQLite 连接，数据库目录不存在时创建
func setupSQLite() (gorm.Dialector, error) {
	path := config.Get("database.sqlite.database")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return sqlite.Open(path), nil
}

// setupDBPool 配置数据库连接池
func setupDBPool() {
	database.SQLDB.SetMaxOpenConns(config.GetInt("database.postgresql.max_open_connections"))
	database.SQLDB.SetMaxIdleConns(config.GetInt("database.postgresql.max_idle_connections"))
	database.SQLDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.postgresql.max_life_seconds")) * time.Second)
}
