package schema

import "time"

// Token represents the tokens table - one row per issued token
type Token struct {
	// ID is the global token id, allocated from 1 across all collections
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// CollectionID is the collection the token was issued into
	CollectionID uint64 `gorm:"column:collection_id;not null;uniqueIndex:idx_tokens_collection_index,priority:1"`
	// CollectionIndex is the 0-based position within the collection
	CollectionIndex uint64 `gorm:"column:collection_index;not null;uniqueIndex:idx_tokens_collection_index,priority:2"`
	// Owner is the recipient address (checksummed hex)
	Owner     string    `gorm:"column:owner;not null;type:text;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`

	// Associations
	Collection Collection `gorm:"foreignKey:CollectionID"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
