package schema

import "time"

// TreasuryRowID is the id of the single treasury row
const TreasuryRowID = 1

// Treasury represents the treasury table - a singleton holding the withdrawable balance
type Treasury struct {
	ID        int16     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Balance   string    `gorm:"column:balance;not null;default:0;type:numeric(78,0)"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Treasury model
func (Treasury) TableName() string {
	return "treasury"
}
