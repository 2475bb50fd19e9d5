package models

import (
	"time"
)

// ActionHistory is an append-only audit entry. Every state change writes one,
// keyed by (tableName, recordId, actionType, createdAt), with JSON snapshots
// of the row before and after the change.
type ActionHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Entity     string    `gorm:"column:table_name;size:50;not null;index" json:"table_name"`
	RecordID   uint      `gorm:"index" json:"record_id"`
	ActionType string    `gorm:"size:20;not null;index" json:"action_type"`
	OldValue   *string   `gorm:"type:jsonb" json:"old_value"`
	NewValue   *string   `gorm:"type:jsonb" json:"new_value"`
	Comment    string    `gorm:"type:text" json:"comment"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for ActionHistory
func (ActionHistory) TableName() string {
	return "action_histories"
}

// Action type constants
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionCancel = "CANCEL"
	ActionReject = "REJECT"
)
