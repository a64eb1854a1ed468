package db

// PriceRecord 是一条只增的价格观测，从不更新或删除。
// IngredientName 是录入时刻的名称快照：食材之后改名不影响历史展示。
// Price 以字符串存储十进制金额，避免浮点精度问题。
type PriceRecord struct {
	ID             string  `gorm:"primaryKey"`
	IngredientID   string  `gorm:"index;not null"`
	IngredientName string  `gorm:"not null"`
	Price          string  `gorm:"not null"`
	Unit           string  `gorm:"not null"`
	Quantity       float64 `gorm:"not null"`
	Timestamp      int64   `gorm:"index;not null"`
}

// TableName 自定义表名以保持命名一致。
func (PriceRecord) TableName() string {
	return "prices"
}

// DedupKey 实现 Versioned，按食材 ID 去重出"当前价格"。
func (p PriceRecord) DedupKey() string { return p.IngredientID }

// UnixTime 实现 Versioned。
func (p PriceRecord) UnixTime() int64 { return p.Timestamp }
