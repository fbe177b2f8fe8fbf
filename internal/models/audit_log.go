package models

import "time"

// AuditLog is append-only. It is persisted either in MongoDB or in the SQL store.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID    string    `gorm:"size:36;index" json:"userId" bson:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action" bson:"action"`
	Entity    string    `gorm:"size:50;not null;index:idx_audit_entity" json:"entity" bson:"entity"`
	EntityID  string    `gorm:"size:36;index:idx_audit_entity" json:"entityId" bson:"entity_id"`
	OldData   string    `gorm:"type:text" json:"oldData,omitempty" bson:"old_data,omitempty"`
	NewData   string    `gorm:"type:text" json:"newData,omitempty" bson:"new_data,omitempty"`
	IP        string    `gorm:"size:64" json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string    `gorm:"size:255" json:"userAgent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" bson:"created_at"`
}
