/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、迁移和各业务服务的构造与关闭
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 进程入口显式调用 Init -> 数据库连接/迁移 -> 服务构造 -> 进程退出时调用 Shutdown
 * @rules 存储句柄通过构造函数注入各服务，连接生命周期由进程入口显式持有，不使用隐式全局连接
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs main.go
 */

package service

import (
	"fmt"
	"log"
	"os"

	"dynaman-engine/service/cache"
	"dynaman-engine/service/changefeed"
	"dynaman-engine/service/cleanup"
	"dynaman-engine/service/engine"
	"dynaman-engine/service/metadata"
	"dynaman-engine/service/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                   *gorm.DB
	GlobalSchemaCache    *cache.SchemaCache
	GlobalChangefeed     *changefeed.Publisher
	GlobalSchemaService  *metadata.SchemaService
	GlobalRecordService  *engine.RecordService
	GlobalCleanupService *cleanup.RecordCleanupService
)

// Init 初始化数据库连接和全部业务服务，由进程入口显式调用
func Init() {
	initDatabase()
	runMigrations()
	initServices()
}

// Shutdown 释放全部资源，由进程入口在退出时显式调用
func Shutdown() {
	if GlobalCleanupService != nil {
		GlobalCleanupService.Stop()
	}
	GlobalChangefeed.Close()
	GlobalSchemaCache.Close()

	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("服务已关闭")
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "dynaman")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// runMigrations 运行数据库迁移
func runMigrations() {
	if err := DB.AutoMigrate(&models.SchemaEntity{}, &models.Record{}); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库表结构迁移完成")
}

// initServices 构造各业务服务，依赖通过构造函数显式注入
func initServices() {
	GlobalSchemaCache = cache.NewSchemaCacheFromEnv()
	GlobalChangefeed = changefeed.NewPublisherFromEnv()

	schemaStore := metadata.NewGormSchemaStore(DB, GlobalSchemaCache)
	recordStore := engine.NewGormRecordStore(DB)

	GlobalSchemaService = metadata.NewSchemaService(schemaStore)
	GlobalRecordService = engine.NewRecordService(recordStore, schemaStore, GlobalChangefeed)

	GlobalCleanupService = cleanup.NewRecordCleanupService(DB)
	if err := GlobalCleanupService.Start(); err != nil {
		log.Printf("启动记录清理服务失败: %v", err)
	}

	log.Println("服务初始化完成")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
