package infra

import (
	"fmt"
	"time"

	"gin-bytemarket/config"
	"gin-bytemarket/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func gormConfig() *gorm.Config {
	level := gormlogger.Warn
	if config.IsProd() {
		level = gormlogger.Error
	}
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

// SetupDB メインのデータベース接続を設定
// DB_DRIVERで接続先を選択し、未設定の場合はDB_NAMEがあればPostgreSQL、なければSQLiteを使用
func SetupDB() (*gorm.DB, error) {
	driver := config.DBDriver()
	if driver == "" {
		driver = "sqlite"
		if config.Get("DB_NAME", "") != "" {
			driver = "postgres"
		}
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		// 本番環境ではsslmode=require、それ以外はsslmode=disable
		sslmode := "disable"
		if config.IsProd() {
			sslmode = "require"
		}
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC connect_timeout=10",
			config.Get("DB_HOST", "localhost"),
			config.Get("DB_USER", "postgres"),
			config.Get("DB_PASSWORD", ""),
			config.Get("DB_NAME", "bytemarket"),
			config.Get("DB_PORT", "5432"),
			sslmode,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=10s",
			config.Get("DB_USER", "root"),
			config.Get("DB_PASSWORD", ""),
			config.Get("DB_HOST", "127.0.0.1"),
			config.Get("DB_PORT", "3306"),
			config.Get("DB_NAME", "bytemarket"),
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(config.SQLitePath())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// SQLiteは書き込みが1接続のみ
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	logger.L.Info("Setup database", "driver", driver)
	return db, nil
}

// SetupTokenDB トークンブラックリスト用のSQLiteデータベース接続を設定
func SetupTokenDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(config.TokenDBPath()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect token blacklist database: %w", err)
	}
	logger.L.Info("Setup token blacklist SQLite database", "path", config.TokenDBPath())
	return db, nil
}

// NewMemoryDB テスト用のSQLiteインメモリデータベース
// :memory:は接続ごとに別のデータベースになるため、接続数を1に制限する
func NewMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
