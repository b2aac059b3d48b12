/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, time
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"time"

	"dynaman-engine/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.SchemaEntity{},
		&models.Record{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"schema_versions",
		"user_records",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// SchemaOption 实体模式选项函数类型
type SchemaOption func(*models.SchemaEntity)

// CreateSchema 创建测试实体模式
func (f *TestDataFactory) CreateSchema(entityName string, fields models.FieldList, opts ...SchemaOption) *models.SchemaEntity {
	now := time.Now().UTC()
	schema := &models.SchemaEntity{
		ID:          generateID("sch"),
		EntityName:  entityName,
		Description: "测试实体模式",
		Fields:      fields,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 应用选项
	for _, opt := range opts {
		opt(schema)
	}

	err := f.DB.Create(schema).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test schema: %v", err))
	}

	return schema
}

// RecordOption 记录选项函数类型
type RecordOption func(*models.Record)

// CreateRecord 创建测试记录
func (f *TestDataFactory) CreateRecord(entityName string, content models.JSONB, opts ...RecordOption) *models.Record {
	now := time.Now().UTC()
	record := &models.Record{
		ID:         generateID("rec"),
		EntityName: entityName,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// 应用选项
	for _, opt := range opts {
		opt(record)
	}

	err := f.DB.Create(record).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test record: %v", err))
	}

	return record
}

// WithDeletedAt 标记记录为软删除
func WithDeletedAt(t time.Time) RecordOption {
	return func(r *models.Record) {
		r.DeletedAt = &t
	}
}

// 辅助函数
func generateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), generateSuffix())
}

func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// FloatPtr 返回浮点数指针，用于构造约束
func FloatPtr(v float64) *float64 {
	return &v
}

// IntPtr 返回整数指针，用于构造约束
func IntPtr(v int) *int {
	return &v
}
