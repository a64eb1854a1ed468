package db

// ActionLog 记录后台管理操作的只增审计日志。
type ActionLog struct {
	ID      uint   `gorm:"primaryKey"`
	Date    int64  `gorm:"index;not null"`
	Action  string `gorm:"not null"`
	Details string `gorm:"type:text"`
}

// TableName 与原有 logs 表保持一致。
func (ActionLog) TableName() string {
	return "logs"
}

// Comment 记录使用者留言，只增不改。
type Comment struct {
	ID      uint   `gorm:"primaryKey"`
	Date    int64  `gorm:"index;not null"`
	Comment string `gorm:"type:text;not null"`
}

// TableName 与原有 comments 表保持一致。
func (Comment) TableName() string {
	return "comments"
}
