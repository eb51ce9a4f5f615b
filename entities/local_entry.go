package entities

import "time"

// LocalEntry is one key of the local key-value persistence table.
type LocalEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (LocalEntry) TableName() string { return "local_entries" }
