package models

import "time"

// StateEntry is one persisted client-state document (cart, user or orders).
type StateEntry struct {
	Key       string    `gorm:"column:state_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StateEntry) TableName() string {
	return "state_entries"
}
