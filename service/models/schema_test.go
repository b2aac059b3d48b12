/*
 * @module service/models/schema_test
 * @description 实体模式领域模型单元测试
 * @architecture 测试层 - 纯领域逻辑，不依赖数据库
 * @documentReference docs/test_plan.md
 * @stateFlow 构造模式 -> 字段变更 -> 结果验证
 * @rules 确保字段变更的冲突检测和版本递增逻辑正确
 * @dependencies testing, testify
 * @refs schema.go, field.go
 */

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSchema() *SchemaEntity {
	return &SchemaEntity{
		EntityName: "product",
		Fields: FieldList{
			{Name: "name", FieldType: FieldTypeString, IsRequired: true},
			{Name: "price", FieldType: FieldTypeNumber},
		},
		Version: 1,
	}
}

func TestAddField_Success(t *testing.T) {
	schema := newTestSchema()

	err := schema.AddField(FieldDefinition{Name: "stock", FieldType: FieldTypeNumber})

	assert.NoError(t, err)
	assert.Len(t, schema.Fields, 3)
	assert.NotNil(t, schema.FindField("stock"))
}

func TestAddField_DuplicateName(t *testing.T) {
	schema := newTestSchema()

	err := schema.AddField(FieldDefinition{Name: "name", FieldType: FieldTypeString})

	assert.Error(t, err)
	assert.True(t, IsDomainCode(err, CodeSchemaConflict))
	// 冲突时不产生部分变更
	assert.Len(t, schema.Fields, 2)
}

func TestRemoveField_Success(t *testing.T) {
	schema := newTestSchema()

	err := schema.RemoveField("price")

	assert.NoError(t, err)
	assert.Len(t, schema.Fields, 1)
	assert.Nil(t, schema.FindField("price"))
}

func TestRemoveField_NotFound(t *testing.T) {
	schema := newTestSchema()

	err := schema.RemoveField("missing")

	assert.Error(t, err)
	assert.True(t, IsDomainCode(err, CodeSchemaConflict))
	assert.Len(t, schema.Fields, 2)
}

func TestUpdateField_Rename(t *testing.T) {
	schema := newTestSchema()

	err := schema.UpdateField("price", FieldDefinition{Name: "unit_price", FieldType: FieldTypeNumber})

	assert.NoError(t, err)
	assert.Nil(t, schema.FindField("price"))
	assert.NotNil(t, schema.FindField("unit_price"))
}

func TestUpdateField_RenameCollision(t *testing.T) {
	schema := newTestSchema()

	// 改名撞上已有字段
	err := schema.UpdateField("price", FieldDefinition{Name: "name", FieldType: FieldTypeNumber})

	assert.Error(t, err)
	assert.True(t, IsDomainCode(err, CodeSchemaConflict))
	assert.NotNil(t, schema.FindField("price"))
}

func TestUpdateField_NotFound(t *testing.T) {
	schema := newTestSchema()

	err := schema.UpdateField("missing", FieldDefinition{Name: "missing", FieldType: FieldTypeString})

	assert.Error(t, err)
	assert.True(t, IsDomainCode(err, CodeSchemaConflict))
}

func TestIncrementVersion(t *testing.T) {
	schema := newTestSchema()

	schema.IncrementVersion()
	schema.IncrementVersion()

	assert.Equal(t, 3, schema.Version)
}

func TestValidatePayload_MissingRequired(t *testing.T) {
	schema := newTestSchema()

	err := schema.ValidatePayload(JSONB{"price": 9.9})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestValidatePayload_FillsDefault(t *testing.T) {
	schema := newTestSchema()
	schema.Fields = append(schema.Fields, FieldDefinition{
		Name: "status", FieldType: FieldTypeString, Default: "active", IsRequired: true,
	})
	payload := JSONB{"name": "widget"}

	err := schema.ValidatePayload(payload)

	assert.NoError(t, err)
	// 缺省值被写入载荷
	assert.Equal(t, "active", payload["status"])
}

func TestValidatePayload_OptionalAbsent(t *testing.T) {
	schema := newTestSchema()
	payload := JSONB{"name": "widget"}

	err := schema.ValidatePayload(payload)

	assert.NoError(t, err)
	assert.NotContains(t, payload, "price")
}

func TestValidatePayload_TypeMismatch(t *testing.T) {
	schema := &SchemaEntity{
		EntityName: "order",
		Fields: FieldList{
			{Name: "qty", FieldType: FieldTypeNumber},
			{Name: "note", FieldType: FieldTypeString},
			{Name: "paid", FieldType: FieldTypeBoolean},
			{Name: "due", FieldType: FieldTypeDate},
		},
	}

	assert.Error(t, schema.ValidatePayload(JSONB{"qty": "ten"}))
	assert.Error(t, schema.ValidatePayload(JSONB{"note": 42}))
	assert.Error(t, schema.ValidatePayload(JSONB{"paid": "yes"}))
	assert.Error(t, schema.ValidatePayload(JSONB{"due": 20250101}))
}

func TestValidatePayload_Valid(t *testing.T) {
	schema := newTestSchema()

	err := schema.ValidatePayload(JSONB{"name": "widget", "price": 12.5})

	assert.NoError(t, err)
}

func TestFieldTypeMap(t *testing.T) {
	schema := newTestSchema()

	typeMap := schema.FieldTypeMap()

	assert.Equal(t, FieldTypeString, typeMap["name"])
	assert.Equal(t, FieldTypeNumber, typeMap["price"])
}

func TestFieldListValue_EmptyList(t *testing.T) {
	var fl FieldList

	value, err := fl.Value()

	assert.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestFieldListScan_RoundTrip(t *testing.T) {
	original := FieldList{
		{Name: "email", FieldType: FieldTypeEmail, IsRequired: true},
	}
	value, err := original.Value()
	assert.NoError(t, err)

	var restored FieldList
	err = restored.Scan(value)

	assert.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestIsValidFieldType(t *testing.T) {
	assert.True(t, IsValidFieldType(FieldTypeString))
	assert.True(t, IsValidFieldType(FieldTypeReference))
	assert.False(t, IsValidFieldType("object"))
	assert.False(t, IsValidFieldType(""))
}
