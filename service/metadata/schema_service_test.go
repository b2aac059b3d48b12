/*
 * @module service/metadata/schema_service_test
 * @description 模式管理服务单元测试，验证版本演进和变更冲突语义
 * @architecture 测试层 - 基于内存SQLite的服务层集成测试
 * @documentReference docs/test_plan.md
 * @stateFlow 实体定义 -> 字段级变更 -> 版本和冲突验证
 * @rules 每次成功变更版本+1，失败变更不落任何数据，历史版本可按版本号读取
 * @dependencies testing, testify, dynaman-engine/testutil
 * @refs schema_service.go, schema_store.go
 */

package metadata

import (
	"context"
	"testing"

	"dynaman-engine/service/models"
	"dynaman-engine/testutil"

	"github.com/stretchr/testify/suite"
)

// SchemaServiceTestSuite 模式管理服务测试套件
type SchemaServiceTestSuite struct {
	suite.Suite
	testDB  *testutil.TestDB
	service *SchemaService
	ctx     context.Context
}

// SetupSuite 设置测试套件
func (suite *SchemaServiceTestSuite) SetupSuite() {
	suite.testDB = testutil.NewTestDB()
	suite.service = NewSchemaService(NewGormSchemaStore(suite.testDB.DB, nil))
	suite.ctx = context.Background()
}

// TearDownSuite 清理测试套件
func (suite *SchemaServiceTestSuite) TearDownSuite() {
	suite.testDB.Close()
}

// SetupTest 设置每个测试
func (suite *SchemaServiceTestSuite) SetupTest() {
	suite.testDB.CleanDB()
}

// defineProduct 定义一个基础的商品实体
func (suite *SchemaServiceTestSuite) defineProduct() {
	_, err := suite.service.DefineEntity(suite.ctx, &models.SchemaEntity{
		EntityName: "product",
		Fields: models.FieldList{
			{Name: "name", FieldType: models.FieldTypeString, IsRequired: true},
			{Name: "price", FieldType: models.FieldTypeNumber},
		},
	})
	suite.Require().NoError(err)
}

func (suite *SchemaServiceTestSuite) TestDefineEntity_StartsAtVersionOne() {
	suite.defineProduct()

	schema, err := suite.service.GetEntity(suite.ctx, "product")
	suite.NoError(err)
	suite.Equal(1, schema.Version)
	suite.Len(schema.Fields, 2)
}

func (suite *SchemaServiceTestSuite) TestDefineEntity_DuplicateName() {
	suite.defineProduct()

	_, err := suite.service.DefineEntity(suite.ctx, &models.SchemaEntity{
		EntityName: "product",
		Fields:     models.FieldList{{Name: "name", FieldType: models.FieldTypeString}},
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestDefineEntity_EmptyName() {
	_, err := suite.service.DefineEntity(suite.ctx, &models.SchemaEntity{EntityName: ""})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestDefineEntity_DuplicateFieldNames() {
	_, err := suite.service.DefineEntity(suite.ctx, &models.SchemaEntity{
		EntityName: "bad",
		Fields: models.FieldList{
			{Name: "name", FieldType: models.FieldTypeString},
			{Name: "name", FieldType: models.FieldTypeNumber},
		},
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestDefineEntity_ReferenceNeedsTarget() {
	_, err := suite.service.DefineEntity(suite.ctx, &models.SchemaEntity{
		EntityName: "order",
		Fields: models.FieldList{
			{Name: "customer_id", FieldType: models.FieldTypeReference},
		},
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestGetEntity_NotDefined() {
	_, err := suite.service.GetEntity(suite.ctx, "ghost")

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeEntityNotDefined))
}

func (suite *SchemaServiceTestSuite) TestAddField_IncrementsVersion() {
	suite.defineProduct()

	err := suite.service.AddField(suite.ctx, "product", models.FieldDefinition{
		Name: "stock", FieldType: models.FieldTypeNumber,
	})
	suite.NoError(err)

	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal(2, schema.Version)
	suite.NotNil(schema.FindField("stock"))
}

func (suite *SchemaServiceTestSuite) TestAddField_ConflictLeavesNoTrace() {
	suite.defineProduct()

	err := suite.service.AddField(suite.ctx, "product", models.FieldDefinition{
		Name: "name", FieldType: models.FieldTypeString,
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))

	// 失败的变更不产生新版本
	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal(1, schema.Version)
	suite.Len(schema.Fields, 2)
}

func (suite *SchemaServiceTestSuite) TestAddField_InvalidType() {
	suite.defineProduct()

	err := suite.service.AddField(suite.ctx, "product", models.FieldDefinition{
		Name: "extra", FieldType: "object",
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestRemoveField_IncrementsVersion() {
	suite.defineProduct()

	err := suite.service.RemoveField(suite.ctx, "product", "price")
	suite.NoError(err)

	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal(2, schema.Version)
	suite.Nil(schema.FindField("price"))
}

func (suite *SchemaServiceTestSuite) TestRemoveField_MissingField() {
	suite.defineProduct()

	err := suite.service.RemoveField(suite.ctx, "product", "ghost")

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))

	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal(1, schema.Version)
}

func (suite *SchemaServiceTestSuite) TestUpdateField_IncrementsVersion() {
	suite.defineProduct()

	err := suite.service.UpdateField(suite.ctx, "product", "price", models.FieldDefinition{
		Name: "price", FieldType: models.FieldTypeNumber,
		Constraints: &models.FieldConstraint{MinValue: testutil.FloatPtr(0)},
	})
	suite.NoError(err)

	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal(2, schema.Version)
	suite.NotNil(schema.FindField("price").Constraints.MinValue)
}

func (suite *SchemaServiceTestSuite) TestVersionsAreMonotonicAndRetrievable() {
	suite.defineProduct()

	suite.service.AddField(suite.ctx, "product", models.FieldDefinition{
		Name: "stock", FieldType: models.FieldTypeNumber,
	})
	suite.service.RemoveField(suite.ctx, "product", "price")

	// 最新版本带全部变更
	latest, err := suite.service.GetEntity(suite.ctx, "product")
	suite.NoError(err)
	suite.Equal(3, latest.Version)

	// 每个历史版本都可按版本号读取，且内容不变
	v1, err := suite.service.GetEntityVersion(suite.ctx, "product", 1)
	suite.NoError(err)
	suite.Len(v1.Fields, 2)
	suite.Nil(v1.FindField("stock"))

	v2, err := suite.service.GetEntityVersion(suite.ctx, "product", 2)
	suite.NoError(err)
	suite.NotNil(v2.FindField("stock"))
	suite.NotNil(v2.FindField("price"))
}

func (suite *SchemaServiceTestSuite) TestGetEntityVersion_NotFound() {
	suite.defineProduct()

	_, err := suite.service.GetEntityVersion(suite.ctx, "product", 99)

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeEntityNotDefined))
}

func (suite *SchemaServiceTestSuite) TestReplaceSchema() {
	suite.defineProduct()

	err := suite.service.ReplaceSchema(suite.ctx, "product", &models.SchemaEntity{
		EntityName: "product",
		Fields: models.FieldList{
			{Name: "title", FieldType: models.FieldTypeString, IsRequired: true},
		},
	})
	suite.NoError(err)

	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal(2, schema.Version)
	suite.Len(schema.Fields, 1)
	suite.NotNil(schema.FindField("title"))
}

func (suite *SchemaServiceTestSuite) TestReplaceSchema_NameMismatch() {
	suite.defineProduct()

	err := suite.service.ReplaceSchema(suite.ctx, "product", &models.SchemaEntity{
		EntityName: "other",
		Fields:     models.FieldList{{Name: "title", FieldType: models.FieldTypeString}},
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestPatchSchema_DescriptionOnly() {
	suite.defineProduct()

	err := suite.service.PatchSchema(suite.ctx, "product", map[string]interface{}{
		"description": "商品主数据",
	})
	suite.NoError(err)

	schema, _ := suite.service.GetEntity(suite.ctx, "product")
	suite.Equal("商品主数据", schema.Description)
	suite.Equal(2, schema.Version)
}

func (suite *SchemaServiceTestSuite) TestPatchSchema_RejectsRename() {
	suite.defineProduct()

	err := suite.service.PatchSchema(suite.ctx, "product", map[string]interface{}{
		"entity_name": "renamed",
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestPatchSchema_RejectsFields() {
	suite.defineProduct()

	err := suite.service.PatchSchema(suite.ctx, "product", map[string]interface{}{
		"fields": []interface{}{},
	})

	suite.Error(err)
	suite.True(models.IsDomainCode(err, models.CodeSchemaConflict))
}

func (suite *SchemaServiceTestSuite) TestDeleteEntity_RemovesAllVersions() {
	suite.defineProduct()
	suite.service.AddField(suite.ctx, "product", models.FieldDefinition{
		Name: "stock", FieldType: models.FieldTypeNumber,
	})

	err := suite.service.DeleteEntity(suite.ctx, "product")
	suite.NoError(err)

	_, err = suite.service.GetEntity(suite.ctx, "product")
	suite.True(models.IsDomainCode(err, models.CodeEntityNotDefined))

	var count int64
	suite.testDB.DB.Model(&models.SchemaEntity{}).Where("entity_name = ?", "product").Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *SchemaServiceTestSuite) TestListEntities() {
	suite.defineProduct()
	suite.service.DefineEntity(suite.ctx, &models.SchemaEntity{
		EntityName: "customer",
		Fields:     models.FieldList{{Name: "name", FieldType: models.FieldTypeString}},
	})
	// 产生多个版本，列表仍按实体名去重
	suite.service.AddField(suite.ctx, "product", models.FieldDefinition{
		Name: "stock", FieldType: models.FieldTypeNumber,
	})

	names, err := suite.service.ListEntities(suite.ctx)
	suite.NoError(err)
	suite.Equal([]string{"customer", "product"}, names)
}

func TestSchemaServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaServiceTestSuite))
}
