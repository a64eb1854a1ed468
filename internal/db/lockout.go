package db

// Lockout 以客户端 IP 为键记录连续登录失败的次数。
// 每个 IP 至多一行（upsert 语义），记录只会被重置，不会被删除。
type Lockout struct {
	ID          uint   `gorm:"primaryKey"`
	IP          string `gorm:"uniqueIndex;not null"`
	Attempts    uint   `gorm:"not null;default:0"`
	LastAttempt int64  `gorm:"not null"`
}

// TableName 与原有 lockouts 表保持一致。
func (Lockout) TableName() string {
	return "lockouts"
}
