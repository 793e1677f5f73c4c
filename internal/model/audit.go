package model

import "time"

// AuditLog is the append-only record of admin mutations. Written in the
// same transaction as the mutation, never read back by the application.
type AuditLog struct {
	ID          uint      `json:"audit_id" gorm:"primaryKey;column:audit_id"`
	ActorUserID uint      `json:"actor_user_id" gorm:"column:actor_user_id;index;not null"`
	Action      string    `json:"action" gorm:"type:varchar(50);not null"`
	EntityType  string    `json:"entity_type" gorm:"type:varchar(30);column:entity_type;not null"`
	EntityID    uint      `json:"entity_id" gorm:"column:entity_id;not null"`
	Metadata    string    `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_log" }
