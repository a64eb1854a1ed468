package db

// IngredientVersion 是食材目录的一条只增版本记录。
// 同一食材的每次新建/改名都会插入新行，IngredientID 不变、Timestamp 变新；
// "当前"食材 = 每个 IngredientID 下 Timestamp 最大的那一行。
type IngredientVersion struct {
	ID           uint   `gorm:"primaryKey"`
	IngredientID string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	UnitOK       bool   `gorm:"not null;default:false"`
	Timestamp    int64  `gorm:"index;not null"`
}

// TableName 自定义表名以保持命名一致。
func (IngredientVersion) TableName() string {
	return "ingredients"
}

// DedupKey 实现 Versioned，按食材 ID 去重。
func (v IngredientVersion) DedupKey() string { return v.IngredientID }

// UnixTime 实现 Versioned。
func (v IngredientVersion) UnixTime() int64 { return v.Timestamp }
