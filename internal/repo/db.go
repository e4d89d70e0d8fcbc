package repo

import (
	"fmt"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"ClinicDesk/internal/model"
)

// InMemorySQLite - DSN in-memory базы для тестов и запуска без настроек.
const InMemorySQLite = "file::memory:?cache=shared"

// InitDB открывает Postgres (если задан dsn) или SQLite (modernc, без cgo) и выполняет миграции.
// Пустой sqlitePath означает in-memory базу.
func InitDB(dsn, sqlitePath string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if dsn != "" {
		dial = postgres.Open(dsn)
	} else {
		if sqlitePath == "" {
			sqlitePath = InMemorySQLite
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: sqlitePath}
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dsn == "" {
		// одно соединение: in-memory база живёт, пока открыто соединение, и нет SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		// SQLite: внешние ключи выключены по умолчанию
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
