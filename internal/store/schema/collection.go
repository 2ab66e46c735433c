package schema

import "time"

// URIKind is the stored tag of a collection URI policy
type URIKind string

const (
	URIKindUnset      URIKind = "unset"
	URIKindSequential URIKind = "sequential"
	URIKindFixed      URIKind = "fixed"
)

// Collection represents the collections table - the registry of configured collections
type Collection struct {
	// ID is the caller-assigned collection id
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// MaxSize is the capacity of the collection
	MaxSize uint64 `gorm:"column:max_size;not null;default:0"`
	// SizeFixed records that MaxSize has been set and can no longer change
	SizeFixed bool `gorm:"column:size_fixed;not null;default:false"`
	// Price is the offer in wei, stored as numeric(78,0) to hold any uint256
	Price string `gorm:"column:price;not null;default:0;type:numeric(78,0)"`
	// URIKind selects how URI resolves token metadata
	URIKind URIKind `gorm:"column:uri_kind;not null;default:unset;type:text"`
	// URI is the base URI (sequential) or the shared URI (fixed)
	URI string `gorm:"column:uri;not null;default:'';type:text"`
	// Minted counts the tokens issued into the collection
	Minted    uint64    `gorm:"column:minted;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}
