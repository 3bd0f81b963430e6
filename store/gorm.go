package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/fitvault/models"
)

// MySQL errors that mean the server ran out of room for the row.
const (
	mysqlErrRecordFileFull = 1114
	mysqlErrDiskFull       = 1021
)

// GormStore keeps payloads in the kv_entries table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection. The kv_entries table must exist; see
// config.InitDatabase.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.KVEntry
	err := s.db.WithContext(ctx).Where("`key` = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return row.Payload, true, nil
}

func (s *GormStore) Set(ctx context.Context, key, payload string) error {
	row := models.KVEntry{Key: key, Payload: payload}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && (me.Number == mysqlErrRecordFileFull || me.Number == mysqlErrDiskFull) {
			return capacityError(key, err)
		}
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
