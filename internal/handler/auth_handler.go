package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/service"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

func sessionKey(role string) string {
	return "authenticated_" + role
}

// Login 处理角色登录。闸门先检查锁定状态，被锁定时不比较口令；
// 失败与锁定都带一个刻意的延迟，用来钝化自动重试。
func (a *API) Login(c *gin.Context) {
	role := c.Param("role")

	var req loginRequest
	if !bindJSON(c, &req, "password is required") {
		return
	}

	result, err := a.gate.Check(role, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrUnknownRole) {
			respondError(c, http.StatusNotFound, "unknown role")
			return
		}
		// 存储错误绝不能被当作登录成功。
		respondError(c, http.StatusInternalServerError, "login is temporarily unavailable")
		return
	}

	if result.Locked {
		a.sleep(2 * time.Second)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "Too many attempts. Please wait 5 minutes.",
			"retry_after": int(result.RetryAfter / time.Second),
		})
		return
	}

	if !result.Authenticated {
		a.sleep(1 * time.Second)
		respondError(c, http.StatusUnauthorized, "Incorrect password")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKey(role), true)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "role": role})
}

// Logout 清除整个会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AuthRequired 要求当前会话已通过指定角色的登录。
// admin 口令可以在登录时通过任意角色的闸门，但会话标记按角色隔离。
func AuthRequired(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if authed, ok := session.Get(sessionKey(role)).(bool); ok && authed {
			c.Next()
			return
		}

		respondError(c, http.StatusUnauthorized, fmt.Sprintf("%s login required", role))
		c.Abort()
	}
}
