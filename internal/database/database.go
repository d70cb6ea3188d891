package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/kvstore"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetValue returns the value stored under key in scope.
// Returns kvstore.ErrNotFound if the key was never written.
func (d *Database) GetValue(scope, key string) (string, error) {
	var entry entities.KVEntry
	err := d.DB.Where("scope = ? AND key = ?", scope, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", kvstore.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// SetValue creates or fully overwrites the value under key in scope.
func (d *Database) SetValue(scope, key, value string) error {
	entry := entities.KVEntry{
		Scope: scope,
		Key:   key,
		Value: value,
	}
	return d.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (d *Database) DeleteValue(scope, key string) error {
	return d.DB.Where("scope = ? AND key = ?", scope, key).Delete(&entities.KVEntry{}).Error
}

// CountScopes returns the number of distinct scopes holding at least one value.
func (d *Database) CountScopes() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.KVEntry{}).Distinct("scope").Count(&count).Error
	return count, err
}
