package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EngineEvent represents the engine_events table - the outbox of committed mutations
type EngineEvent struct {
	// Cursor is an auto-incrementing sequence number preserving commit order
	Cursor int64 `gorm:"column:\"cursor\";primaryKey;autoIncrement"`
	// EventID is the ULID of the event
	EventID   string         `gorm:"column:event_id;not null;uniqueIndex;type:text"`
	EventType string         `gorm:"column:event_type;not null;type:text"`
	Payload   datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now()"`
	// PublishedAt is set once the relay delivered the event
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz"`
	// Attempts counts failed relay deliveries
	Attempts  int     `gorm:"column:attempts;not null;default:0"`
	LastError *string `gorm:"column:last_error;type:text"`
}

// TableName specifies the table name for the EngineEvent model
func (EngineEvent) TableName() string {
	return "engine_events"
}
