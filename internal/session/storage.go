package session

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Storage is the durable client-side key/value store the session
// survives restarts in. It is a single sqlite table holding the bearer
// token and the serialized user profile under two fixed keys.
type Storage struct {
	db *gorm.DB
}

type settingRecord struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (settingRecord) TableName() string { return "settings" }

// OpenStorage opens (or creates) the state database at the given path.
func OpenStorage(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if err := db.AutoMigrate(&settingRecord{}); err != nil {
		return nil, fmt.Errorf("migrating state db: %w", err)
	}
	return &Storage{db: db}, nil
}

// Get returns the stored value and whether the key was present.
func (s *Storage) Get(key string) (string, bool, error) {
	var record settingRecord
	err := s.db.First(&record, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return record.Value, true, nil
}

// Set stores the value under the key, replacing any previous value.
func (s *Storage) Set(key, value string) error {
	record := settingRecord{Key: key, Value: value}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Storage) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.Delete(&settingRecord{}, "key IN ?", keys).Error; err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
