package schema

import "time"

// RedeemedVoucher represents the redeemed_vouchers table - digests of consumed vouchers
type RedeemedVoucher struct {
	// Digest is the 0x-prefixed voucher digest
	Digest       string    `gorm:"column:digest;primaryKey;type:text"`
	CollectionID uint64    `gorm:"column:collection_id;not null"`
	Recipient    string    `gorm:"column:recipient;not null;type:text"`
	TokenID      uint64    `gorm:"column:token_id;not null"`
	RedeemedAt   time.Time `gorm:"column:redeemed_at;not null;default:now()"`
}

// TableName specifies the table name for the RedeemedVoucher model
func (RedeemedVoucher) TableName() string {
	return "redeemed_vouchers"
}
