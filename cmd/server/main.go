package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/config"
	"github.com/kitchenlog/internal/db"
	"github.com/kitchenlog/internal/handler"
	"github.com/kitchenlog/internal/router"
	"github.com/kitchenlog/internal/storage"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 对象存储：菜谱文档与备份
	store, err := storage.NewS3Store(context.Background(), storage.S3Config{
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.BucketName,
	})
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, store, cfg)
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
