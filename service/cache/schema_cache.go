/*
 * @module service/cache/schema_cache
 * @description 实体模式缓存，用Redis对最新模式版本做读穿缓存，降低热点实体的模式查询压力
 * @architecture 工具层 - 旁路缓存
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 读取命中直接返回 -> 未命中回源数据库并回填 -> 模式变更时失效
 * @rules 缓存读写失败只记日志不影响主流程；未配置Redis时整体禁用
 * @dependencies github.com/go-redis/redis/v8, dynaman-engine/service/models
 * @refs service/metadata/schema_store.go
 */

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"dynaman-engine/service/models"

	"github.com/go-redis/redis/v8"
)

const schemaKeyPrefix = "schema:latest:"

// SchemaCache 最新模式版本的Redis缓存
type SchemaCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSchemaCacheFromEnv 按环境变量创建模式缓存，REDIS_HOST 未配置时返回 nil（禁用缓存）
func NewSchemaCacheFromEnv() *SchemaCache {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}

	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Redis连接失败，模式缓存禁用", "error", err)
		return nil
	}

	slog.Info("模式缓存已启用", "addr", client.Options().Addr)
	return &SchemaCache{client: client, ttl: 5 * time.Minute}
}

// GetLatest 读取缓存的最新模式版本，未命中或出错返回 nil
func (c *SchemaCache) GetLatest(ctx context.Context, entityName string) *models.SchemaEntity {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, schemaKeyPrefix+entityName).Bytes()
	if err != nil {
		return nil
	}

	var schema models.SchemaEntity
	if err := json.Unmarshal(data, &schema); err != nil {
		slog.Error("模式缓存反序列化失败", "entity", entityName, "error", err)
		return nil
	}
	return &schema
}

// SetLatest 回填最新模式版本
func (c *SchemaCache) SetLatest(ctx context.Context, schema *models.SchemaEntity) {
	if c == nil || schema == nil {
		return
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, schemaKeyPrefix+schema.EntityName, data, c.ttl).Err(); err != nil {
		slog.Error("模式缓存写入失败", "entity", schema.EntityName, "error", err)
	}
}

// Invalidate 模式变更或删除后失效缓存
func (c *SchemaCache) Invalidate(ctx context.Context, entityName string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, schemaKeyPrefix+entityName).Err(); err != nil {
		slog.Error("模式缓存失效失败", "entity", entityName, "error", err)
	}
}

// Close 关闭Redis连接
func (c *SchemaCache) Close() {
	if c == nil {
		return
	}
	if err := c.client.Close(); err != nil {
		slog.Error("关闭Redis连接失败", "error", err)
	}
}
