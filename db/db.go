package db

import (
	"feedserver/config"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens the database selected by config: MySQL, then PostgreSQL, then SQLite
func Init() {
	var dialector gorm.Dialector
	switch {
	case config.MYSQL_DSN != "":
		dialector = mysql.Open(config.MYSQL_DSN)
	case config.POSTGRES_DSN != "":
		dialector = postgres.Open(config.POSTGRES_DSN)
	case config.SQLITE_FILE == memoryFile:
		db, err := OpenInMemory()
		if err != nil {
			panic(err)
		}
		slog.Warn("using an in-memory database, all data is lost on exit")
		Instance = db
		return
	default:
		dialector = sqlite.Open(SQLiteDSN(config.SQLITE_FILE))
	}
	db, err := Open(dialector)
	if err != nil || db == nil {
		panic(err)
	}
	slog.Info("database opened", "dialect", db.Dialector.Name())
	Instance = db
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	logLevel := logger.Warn
	if config.DEBUG_MODE {
		logLevel = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
}

// SQLiteDSN turns foreign key enforcement on, which SQLite leaves off by default
func SQLiteDSN(file string) string {
	return "file:" + file + "?_foreign_keys=on"
}
