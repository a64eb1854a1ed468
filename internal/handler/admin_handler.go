package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/service"
)

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// HealthCheck 提供部署平台与监控系统使用的健康检查端点。
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}

// RunBackup 导出价格台账到对象存储（parquet + 原始数据库文件）。
func (a *API) RunBackup(c *gin.Context) {
	parquetKey, dbKey, err := a.backups.Run(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Backup failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"parquet_key": parquetKey,
		"db_key":      dbKey,
	})
}

// GetLogs 返回最近的管理操作日志。
func (a *API) GetLogs(c *gin.Context) {
	logs, err := a.audit.RecentLogs()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load logs")
		return
	}

	response := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		response = append(response, gin.H{
			"timestamp": entry.Date,
			"action":    entry.Action,
			"details":   entry.Details,
		})
	}
	c.JSON(http.StatusOK, gin.H{"logs": response})
}

// GetComments 返回最近的使用者留言。
func (a *API) GetComments(c *gin.Context) {
	comments, err := a.audit.RecentComments()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load comments")
		return
	}

	response := make([]gin.H, 0, len(comments))
	for _, entry := range comments {
		response = append(response, gin.H{
			"timestamp": entry.Date,
			"comment":   entry.Comment,
		})
	}
	c.JSON(http.StatusOK, gin.H{"comments": response})
}

// AddComment 记录一条使用者留言。
func (a *API) AddComment(c *gin.Context) {
	var req commentRequest
	if !bindJSON(c, &req, "comment is required") {
		return
	}

	if err := a.audit.AddComment(req.Comment); err != nil {
		if errors.Is(err, service.ErrEmptyComment) {
			respondError(c, http.StatusBadRequest, "comment is required")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to save comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}
