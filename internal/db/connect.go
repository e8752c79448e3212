// Package db manages GORM connections and schema migration.
package db

import (
	"fmt"

	sqldriver "github.com/go-sql-driver/mysql"
	"github.com/goalraiders/goalraiders/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a MySQL DSN from database configuration.
func DSN(dc config.DatabaseConfig) string {
	mc := sqldriver.NewConfig()
	mc.User = dc.User
	mc.Passwd = dc.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", dc.Host, dc.Port)
	mc.DBName = dc.Database
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Connect opens a GORM connection for the configured driver.
func Connect(dc config.DatabaseConfig) (*gorm.DB, error) {
	gc := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	switch dc.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dc.Path), gc)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", dc.Path, err)
		}
		return db, nil
	case "mysql":
		db, err := gorm.Open(mysql.Open(DSN(dc)), gc)
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", dc.Host, dc.Port, dc.Database, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", dc.Driver)
	}
}

// ConnectAdmin opens a MySQL connection without selecting a database, used
// for CREATE/DROP DATABASE operations. Not applicable to sqlite.
func ConnectAdmin(dc config.DatabaseConfig) (*gorm.DB, error) {
	if dc.Driver != "mysql" {
		return nil, fmt.Errorf("db: admin connections require the mysql driver, got %q", dc.Driver)
	}
	admin := dc
	admin.Database = ""
	db, err := gorm.Open(mysql.Open(DSN(admin)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", dc.Host, dc.Port, err)
	}
	return db, nil
}

// DropDatabase drops the named database if it exists.
func DropDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: drop database %s: %w", name, err)
	}
	return nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}
