package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// addNotice 把一次性成功提示压入会话队列，由下一次页面加载取走。
func addNotice(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
}

// drainNotices 取出并清空待展示的一次性提示。
func drainNotices(c *gin.Context) []string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return []string{}
	}
	if err := session.Save(); err != nil {
		return []string{}
	}

	notices := make([]string, 0, len(flashes))
	for _, flash := range flashes {
		if text, ok := flash.(string); ok {
			notices = append(notices, text)
		}
	}
	return notices
}
