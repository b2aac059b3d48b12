/*
 * @module service/metadata/schema_store
 * @description 模式版本持久化适配器，按(实体名,版本)追加保存模式行，历史版本不可变
 * @architecture 适配器模式 - 数据访问层
 * @documentReference dev_docs/model.md
 * @stateFlow 保存即新增版本行 -> 最新版本按版本号倒序取首行 -> 删除实体时移除全部版本
 * @rules (entity_name, version) 唯一索引防止并发写入产生重复版本
 * @dependencies dynaman-engine/service/models, dynaman-engine/service/cache, gorm.io/gorm
 * @refs service/metadata/schema_service.go
 */

package metadata

import (
	"context"
	"errors"
	"fmt"

	"dynaman-engine/service/cache"
	"dynaman-engine/service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchemaStore 模式存储接口，追加式版本持久化
type SchemaStore interface {
	GetLatestByName(ctx context.Context, entityName string) (*models.SchemaEntity, error)
	GetByNameAndVersion(ctx context.Context, entityName string, version int) (*models.SchemaEntity, error)
	Save(ctx context.Context, schema *models.SchemaEntity) error
	ListAllNames(ctx context.Context) ([]string, error)
	DeleteAllVersions(ctx context.Context, entityName string) (bool, error)
}

// GormSchemaStore 基于GORM的模式存储实现，可选挂载Redis读穿缓存
type GormSchemaStore struct {
	db    *gorm.DB
	cache *cache.SchemaCache
}

// NewGormSchemaStore 创建模式存储实例，schemaCache 传 nil 表示不启用缓存
func NewGormSchemaStore(db *gorm.DB, schemaCache *cache.SchemaCache) *GormSchemaStore {
	return &GormSchemaStore{db: db, cache: schemaCache}
}

// GetLatestByName 读取实体的最新模式版本，不存在返回 nil
func (s *GormSchemaStore) GetLatestByName(ctx context.Context, entityName string) (*models.SchemaEntity, error) {
	if cached := s.cache.GetLatest(ctx, entityName); cached != nil {
		return cached, nil
	}

	var schema models.SchemaEntity
	err := s.db.WithContext(ctx).
		Where("entity_name = ?", entityName).
		Order("version DESC").
		First(&schema).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取模式失败: %w", err)
	}

	s.cache.SetLatest(ctx, &schema)
	return &schema, nil
}

// GetByNameAndVersion 读取实体的指定历史版本，不存在返回 nil
func (s *GormSchemaStore) GetByNameAndVersion(ctx context.Context, entityName string, version int) (*models.SchemaEntity, error) {
	var schema models.SchemaEntity
	err := s.db.WithContext(ctx).
		Where("entity_name = ? AND version = ?", entityName, version).
		First(&schema).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取模式版本失败: %w", err)
	}
	return &schema, nil
}

// Save 追加保存一个新的模式版本行，版本号由应用层负责设置
// 每次保存都是新行，已保存的版本行从不更新
func (s *GormSchemaStore) Save(ctx context.Context, schema *models.SchemaEntity) error {
	row := *schema
	row.ID = uuid.New().String()

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("保存模式版本失败: %w", err)
	}

	s.cache.Invalidate(ctx, schema.EntityName)
	return nil
}

// ListAllNames 列出全部实体名（去重）
func (s *GormSchemaStore) ListAllNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.SchemaEntity{}).
		Distinct("entity_name").
		Order("entity_name").
		Pluck("entity_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("列出实体名失败: %w", err)
	}
	return names, nil
}

// DeleteAllVersions 删除实体的全部模式版本，返回是否实际删除了数据
func (s *GormSchemaStore) DeleteAllVersions(ctx context.Context, entityName string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("entity_name = ?", entityName).
		Delete(&models.SchemaEntity{})
	if result.Error != nil {
		return false, fmt.Errorf("删除模式失败: %w", result.Error)
	}

	s.cache.Invalidate(ctx, entityName)
	return result.RowsAffected > 0, nil
}
