/*
 * @module service/metadata/schema_service
 * @description 模式管理服务，负责实体定义和字段级变更的用例编排，每次变更产生新版本
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 读取最新版本 -> 领域模型变更 -> 版本号+1 -> 追加保存新版本行
 * @rules 变更失败不落任何数据；实体名不可修改；字段变更必须走字段级接口
 * @dependencies dynaman-engine/service/models, dynaman-engine/service/metadata
 * @refs service/metadata/schema_store.go, service/models/schema.go
 */

package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dynaman-engine/service/models"
)

// SchemaService 模式管理服务
type SchemaService struct {
	store SchemaStore
}

// NewSchemaService 创建模式管理服务实例
func NewSchemaService(store SchemaStore) *SchemaService {
	return &SchemaService{store: store}
}

// DefineEntity 定义新实体，初始版本为1
func (s *SchemaService) DefineEntity(ctx context.Context, schema *models.SchemaEntity) (string, error) {
	if schema.EntityName == "" {
		return "", models.NewDomainError(models.CodeSchemaConflict, "实体名不能为空")
	}
	if err := validateFieldList(schema.Fields); err != nil {
		return "", err
	}

	existing, err := s.store.GetLatestByName(ctx, schema.EntityName)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewDomainError(models.CodeSchemaConflict,
			fmt.Sprintf("实体 '%s' 已定义", schema.EntityName))
	}

	now := time.Now().UTC()
	schema.Version = 1
	schema.CreatedAt = now
	schema.UpdatedAt = now

	if err := s.store.Save(ctx, schema); err != nil {
		return "", err
	}

	slog.Info("实体定义完成", "entity", schema.EntityName, "fields", len(schema.Fields))
	return schema.EntityName, nil
}

// ListEntities 列出全部已定义的实体名
func (s *SchemaService) ListEntities(ctx context.Context) ([]string, error) {
	return s.store.ListAllNames(ctx)
}

// GetEntity 读取实体的最新模式定义
func (s *SchemaService) GetEntity(ctx context.Context, entityName string) (*models.SchemaEntity, error) {
	schema, err := s.store.GetLatestByName(ctx, entityName)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, models.NewEntityNotDefinedError(entityName)
	}
	return schema, nil
}

// GetEntityVersion 读取实体的指定历史版本
func (s *SchemaService) GetEntityVersion(ctx context.Context, entityName string, version int) (*models.SchemaEntity, error) {
	schema, err := s.store.GetByNameAndVersion(ctx, entityName, version)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, models.NewEntityNotDefinedError(entityName)
	}
	return schema, nil
}

// AddField 向实体新增字段，版本+1
func (s *SchemaService) AddField(ctx context.Context, entityName string, field models.FieldDefinition) error {
	if err := validateFieldDefinition(field); err != nil {
		return err
	}

	schema, err := s.GetEntity(ctx, entityName)
	if err != nil {
		return err
	}
	if err := schema.AddField(field); err != nil {
		return err
	}
	schema.IncrementVersion()

	if err := s.store.Save(ctx, schema); err != nil {
		return err
	}
	slog.Info("字段已新增", "entity", entityName, "field", field.Name, "version", schema.Version)
	return nil
}

// RemoveField 从实体移除字段，版本+1
func (s *SchemaService) RemoveField(ctx context.Context, entityName, fieldName string) error {
	schema, err := s.GetEntity(ctx, entityName)
	if err != nil {
		return err
	}
	if err := schema.RemoveField(fieldName); err != nil {
		return err
	}
	schema.IncrementVersion()

	if err := s.store.Save(ctx, schema); err != nil {
		return err
	}
	slog.Info("字段已移除", "entity", entityName, "field", fieldName, "version", schema.Version)
	return nil
}

// UpdateField 更新实体的指定字段定义，支持改名，版本+1
func (s *SchemaService) UpdateField(ctx context.Context, entityName, fieldName string, field models.FieldDefinition) error {
	if err := validateFieldDefinition(field); err != nil {
		return err
	}

	schema, err := s.GetEntity(ctx, entityName)
	if err != nil {
		return err
	}
	if err := schema.UpdateField(fieldName, field); err != nil {
		return err
	}
	schema.IncrementVersion()

	if err := s.store.Save(ctx, schema); err != nil {
		return err
	}
	slog.Info("字段已更新", "entity", entityName, "field", fieldName, "version", schema.Version)
	return nil
}

// ReplaceSchema 整体替换实体模式定义，版本在现有基础上+1
func (s *SchemaService) ReplaceSchema(ctx context.Context, entityName string, newSchema *models.SchemaEntity) error {
	if newSchema.EntityName != entityName {
		return models.NewDomainError(models.CodeSchemaConflict, "负载中的实体名必须与路径一致")
	}
	if err := validateFieldList(newSchema.Fields); err != nil {
		return err
	}

	existing, err := s.GetEntity(ctx, entityName)
	if err != nil {
		return err
	}

	newSchema.Version = existing.Version
	newSchema.CreatedAt = existing.CreatedAt
	newSchema.IncrementVersion()

	if err := s.store.Save(ctx, newSchema); err != nil {
		return err
	}
	slog.Info("模式已整体替换", "entity", entityName, "version", newSchema.Version)
	return nil
}

// PatchSchema 部分更新实体模式，仅允许修改描述信息
// 实体名不可变更，字段变更必须使用字段级接口
func (s *SchemaService) PatchSchema(ctx context.Context, entityName string, patch map[string]interface{}) error {
	if name, ok := patch["entity_name"]; ok && name != entityName {
		return models.NewDomainError(models.CodeSchemaConflict, "实体名不允许修改")
	}
	if _, ok := patch["fields"]; ok {
		return models.NewDomainError(models.CodeSchemaConflict, "字段不允许通过部分更新修改，请使用字段级接口")
	}

	schema, err := s.GetEntity(ctx, entityName)
	if err != nil {
		return err
	}

	if desc, ok := patch["description"].(string); ok {
		schema.Description = desc
	}
	schema.IncrementVersion()

	if err := s.store.Save(ctx, schema); err != nil {
		return err
	}
	slog.Info("模式已部分更新", "entity", entityName, "version", schema.Version)
	return nil
}

// DeleteEntity 删除实体的全部模式版本
func (s *SchemaService) DeleteEntity(ctx context.Context, entityName string) error {
	if _, err := s.GetEntity(ctx, entityName); err != nil {
		return err
	}

	deleted, err := s.store.DeleteAllVersions(ctx, entityName)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewEntityNotDefinedError(entityName)
	}
	slog.Info("实体已删除", "entity", entityName)
	return nil
}

// validateFieldDefinition 检查字段定义本身是否合法
func validateFieldDefinition(field models.FieldDefinition) error {
	if field.Name == "" {
		return models.NewDomainError(models.CodeSchemaConflict, "字段名不能为空")
	}
	if !models.IsValidFieldType(field.FieldType) {
		return models.NewDomainError(models.CodeSchemaConflict,
			fmt.Sprintf("字段 '%s' 的类型 '%s' 不合法", field.Name, field.FieldType))
	}
	if field.FieldType == models.FieldTypeReference && field.ReferenceTarget == "" {
		return models.NewDomainError(models.CodeSchemaConflict,
			fmt.Sprintf("引用字段 '%s' 必须指定目标实体", field.Name))
	}
	return nil
}

// validateFieldList 检查字段列表的合法性，包括字段名唯一
func validateFieldList(fields models.FieldList) error {
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		if err := validateFieldDefinition(field); err != nil {
			return err
		}
		if seen[field.Name] {
			return models.NewDomainError(models.CodeSchemaConflict,
				fmt.Sprintf("字段 '%s' 重复", field.Name))
		}
		seen[field.Name] = true
	}
	return nil
}
