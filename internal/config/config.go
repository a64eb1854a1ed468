package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabasePath    string
	SessionSecret   string
	GinMode         string
	KitchenPassword string
	RecipesPassword string
	AdminPassword   string
	AWS             AWSConfig
}

// AWSConfig 描述对象存储所需的凭证与位置信息。
// KeyPrefix 以斜杠结尾，recipes.json 与备份文件都写在该前缀下。
type AWSConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	KeyPrefix       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 密码项没有默认值：留空的角色在登录时会被直接拒绝。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "kitchenlog.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "kitchenlog-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	keyPrefix := strings.TrimSpace(os.Getenv("AWS_KEY_PREFIX"))
	if keyPrefix == "" {
		keyPrefix = "item-costs/"
	}
	if !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabasePath:    databasePath,
		SessionSecret:   sessionSecret,
		GinMode:         ginMode,
		KitchenPassword: strings.TrimSpace(os.Getenv("KITCHEN_PASSWORD")),
		RecipesPassword: strings.TrimSpace(os.Getenv("RECIPES_PASSWORD")),
		AdminPassword:   strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
		AWS: AWSConfig{
			AccessKeyID:     strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
			SecretAccessKey: strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),
			Region:          strings.TrimSpace(os.Getenv("AWS_REGION")),
			BucketName:      strings.TrimSpace(os.Getenv("AWS_BUCKET_NAME")),
			KeyPrefix:       keyPrefix,
		},
	}
}

// RolePasswords 返回角色名到口令的映射，供登录闸门查询。
func (c AppConfig) RolePasswords() map[string]string {
	return map[string]string{
		"kitchen": c.KitchenPassword,
		"recipes": c.RecipesPassword,
		"admin":   c.AdminPassword,
	}
}
