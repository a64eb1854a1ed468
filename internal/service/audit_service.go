package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kitchenlog/internal/db"
)

// recentLimit caps the admin views of logs and comments.
const recentLimit = 50

// ErrEmptyComment 表示提交了空白留言。
var ErrEmptyComment = errors.New("comment is empty")

// AuditService 负责只增的操作日志与留言。
// 日志是尽力而为的审计：价格/目录写入成功后日志写入失败不会回滚业务数据。
type AuditService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAuditService 构造 AuditService。
func NewAuditService(gdb *gorm.DB) *AuditService {
	return &AuditService{db: gdb, now: time.Now}
}

// SetClock 替换时间源，主要面向测试场景。
func (s *AuditService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Log 追加一条管理操作记录。
func (s *AuditService) Log(action, details string) error {
	entry := db.ActionLog{Date: s.now().Unix(), Action: action, Details: details}
	return s.db.Create(&entry).Error
}

// AddComment 追加一条使用者留言。
func (s *AuditService) AddComment(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyComment
	}
	entry := db.Comment{Date: s.now().Unix(), Comment: trimmed}
	return s.db.Create(&entry).Error
}

// RecentLogs 返回最近的操作日志，新的在前。
func (s *AuditService) RecentLogs() ([]db.ActionLog, error) {
	var logs []db.ActionLog
	if err := s.db.Order("date desc").Order("id desc").Limit(recentLimit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// RecentComments 返回最近的留言，新的在前。
func (s *AuditService) RecentComments() ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Order("date desc").Order("id desc").Limit(recentLimit).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
