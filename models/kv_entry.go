package models

import (
	"time"

	"gorm.io/gorm"
)

// KVEntry is one row of the SQL-backed value store.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Payload   string    `gorm:"type:longtext;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName binds KVEntry to its table.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (e *KVEntry) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (e *KVEntry) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return nil
}
