/*
 * @module service/models/schema
 * @description 实体模式模型，承载模式版本化和字段变更的领域逻辑
 * @architecture DDD领域驱动设计 - 富领域模型
 * @documentReference dev_docs/model.md
 * @stateFlow 定义实体(版本1) -> 字段增删改/整体替换(版本+1) -> 每个版本独立持久化
 * @rules 字段名在模式内唯一；版本号单调递增；已保存的版本行不可变更
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/metadata/schema_service.go, service/engine/validator.go
 */

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchemaEntity 实体模式模型，每次变更保存为新的版本行
type SchemaEntity struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EntityName  string    `json:"entity_name" gorm:"not null;size:255;uniqueIndex:idx_schema_name_version,priority:1"`
	Description string    `json:"description,omitempty" gorm:"size:1000"`
	Fields      FieldList `json:"fields" gorm:"type:jsonb;not null"`
	Version     int       `json:"version" gorm:"not null;default:1;uniqueIndex:idx_schema_name_version,priority:2"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName 指定表名
func (SchemaEntity) TableName() string {
	return "schema_versions"
}

// BeforeCreate GORM钩子，创建前生成UUID
func (s *SchemaEntity) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}

// FindField 按名称查找字段定义
func (s *SchemaEntity) FindField(name string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldTypeMap 构建字段名到字段类型的映射，供查询过滤器做类型转换
func (s *SchemaEntity) FieldTypeMap() map[string]string {
	typeMap := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		typeMap[f.Name] = f.FieldType
	}
	return typeMap
}

// AddField 新增字段，字段名重复时返回模式冲突错误
func (s *SchemaEntity) AddField(newField FieldDefinition) error {
	if s.FindField(newField.Name) != nil {
		return NewDomainError(CodeSchemaConflict, fmt.Sprintf("字段 '%s' 已存在", newField.Name))
	}
	s.Fields = append(s.Fields, newField)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveField 删除字段，字段不存在时返回模式冲突错误
func (s *SchemaEntity) RemoveField(fieldName string) error {
	for i := range s.Fields {
		if s.Fields[i].Name == fieldName {
			s.Fields = append(s.Fields[:i], s.Fields[i+1:]...)
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return NewDomainError(CodeSchemaConflict, fmt.Sprintf("字段 '%s' 不存在", fieldName))
}

// UpdateField 更新字段定义，支持改名，改名与其他字段冲突时失败
func (s *SchemaEntity) UpdateField(fieldName string, updated FieldDefinition) error {
	if fieldName != updated.Name && s.FindField(updated.Name) != nil {
		return NewDomainError(CodeSchemaConflict, fmt.Sprintf("字段名 '%s' 已存在", updated.Name))
	}

	for i := range s.Fields {
		if s.Fields[i].Name == fieldName {
			s.Fields[i] = updated
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return NewDomainError(CodeSchemaConflict, fmt.Sprintf("字段 '%s' 不存在", fieldName))
}

// IncrementVersion 无条件递增版本号并刷新更新时间
func (s *SchemaEntity) IncrementVersion() {
	s.Version++
	s.UpdatedAt = time.Now().UTC()
}

// ValidatePayload 轻量结构校验：补齐默认值、检查必填字段和基础类型。
// 完整的约束校验(长度/范围/枚举/正则)由 engine 包的校验器负责
func (s *SchemaEntity) ValidatePayload(payload JSONB) error {
	for _, field := range s.Fields {
		value, present := payload[field.Name]
		if !present {
			if field.Default != nil {
				payload[field.Name] = field.Default
				continue
			}
			if field.IsRequired {
				return fmt.Errorf("缺少字段: %s", field.Name)
			}
			continue
		}

		switch field.FieldType {
		case FieldTypeNumber:
			switch value.(type) {
			case int, int32, int64, float32, float64:
			default:
				return fmt.Errorf("字段 '%s' 必须是数字", field.Name)
			}
		case FieldTypeString:
			if _, ok := value.(string); !ok {
				return fmt.Errorf("字段 '%s' 必须是字符串", field.Name)
			}
		case FieldTypeBoolean:
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("字段 '%s' 必须是布尔值", field.Name)
			}
		case FieldTypeDate:
			switch value.(type) {
			case string, time.Time:
			default:
				return fmt.Errorf("字段 '%s' 必须是日期字符串或时间对象", field.Name)
			}
		}
	}
	return nil
}
