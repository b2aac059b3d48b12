/*
 * @module service/models/field
 * @description 实体字段模型定义，包括字段类型、字段约束和字段定义
 * @architecture DDD领域驱动设计 - 值对象
 * @documentReference dev_docs/model.md
 * @stateFlow 字段定义随实体模式一起持久化为JSONB列
 * @rules 字段名在同一实体模式内唯一，约束项全部可选
 * @dependencies encoding/json, database/sql/driver
 * @refs service/models/schema.go
 */

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// 字段类型常量
const (
	FieldTypeString    = "string"
	FieldTypeNumber    = "number"
	FieldTypeBoolean   = "boolean"
	FieldTypeEmail     = "email"
	FieldTypeDate      = "date"
	FieldTypeReference = "reference"
)

// IsValidFieldType 判断字段类型是否合法
func IsValidFieldType(t string) bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean,
		FieldTypeEmail, FieldTypeDate, FieldTypeReference:
		return true
	}
	return false
}

// FieldConstraint 字段约束模型，所有约束项可选，缺省表示不限制
type FieldConstraint struct {
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	MinLength    *int     `json:"min_length,omitempty"`
	MaxLength    *int     `json:"max_length,omitempty"`
	EnumList     []string `json:"enum_list,omitempty"`
	RegexPattern string   `json:"regex_pattern,omitempty"`
	Unique       bool     `json:"unique"`
}

// FieldDefinition 字段定义模型
type FieldDefinition struct {
	Name            string           `json:"name"`
	Label           string           `json:"label,omitempty"`
	FieldType       string           `json:"field_type"`
	Default         interface{}      `json:"default,omitempty"`
	Constraints     *FieldConstraint `json:"constraints,omitempty"`
	ReferenceTarget string           `json:"reference_target,omitempty"` // 仅 reference 类型使用
	IsRequired      bool             `json:"is_required"`
}

// IsUnique 判断字段是否带唯一约束
func (f *FieldDefinition) IsUnique() bool {
	return f.Constraints != nil && f.Constraints.Unique
}

// FieldList 字段定义列表，整体作为JSONB列持久化
type FieldList []FieldDefinition

// 实现 Scanner 接口
func (fl *FieldList) Scan(value interface{}) error {
	if value == nil {
		*fl = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, fl)
}

// 实现 Valuer 接口
func (fl FieldList) Value() (driver.Value, error) {
	if fl == nil {
		return "[]", nil
	}
	data, err := json.Marshal(fl)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
