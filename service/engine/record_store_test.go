/*
 * @module service/engine/record_store_test
 * @description 记录存储层单元测试，基于内存SQLite验证JSON查询原语
 * @architecture 测试层 - 数据访问层集成测试
 * @documentReference docs/test_plan.md
 * @stateFlow 测试数据写入 -> 存储方法调用 -> 结果集验证
 * @rules 确保软删除排除、JSON过滤和唯一性检查在SQLite方言下行为正确
 * @dependencies testing, testify, gorm, dynaman-engine/testutil
 * @refs record_store.go
 */

package engine

import (
	"context"
	"testing"
	"time"

	"dynaman-engine/service/models"
	"dynaman-engine/testutil"

	"github.com/stretchr/testify/suite"
)

// RecordStoreTestSuite 记录存储测试套件
type RecordStoreTestSuite struct {
	suite.Suite
	testDB  *testutil.TestDB
	factory *testutil.TestDataFactory
	store   *GormRecordStore
	ctx     context.Context
}

// SetupSuite 设置测试套件
func (suite *RecordStoreTestSuite) SetupSuite() {
	suite.testDB = testutil.NewTestDB()
	suite.factory = testutil.NewTestDataFactory(suite.testDB.DB)
	suite.store = NewGormRecordStore(suite.testDB.DB)
	suite.ctx = context.Background()
}

// TearDownSuite 清理测试套件
func (suite *RecordStoreTestSuite) TearDownSuite() {
	suite.testDB.Close()
}

// SetupTest 设置每个测试
func (suite *RecordStoreTestSuite) SetupTest() {
	suite.testDB.CleanDB()
}

func (suite *RecordStoreTestSuite) TestCreateAndGetByID() {
	id, err := suite.store.Create(suite.ctx, "user", models.JSONB{"name": "张三", "age": float64(30)}, models.RecordMetadata{})
	suite.NoError(err)
	suite.NotEmpty(id)

	record, err := suite.store.GetByID(suite.ctx, "user", id)
	suite.NoError(err)
	suite.NotNil(record)
	suite.Equal("张三", record.Content["name"])
}

func (suite *RecordStoreTestSuite) TestGetByID_NotFound() {
	record, err := suite.store.GetByID(suite.ctx, "user", "missing-id")
	suite.NoError(err)
	suite.Nil(record)
}

func (suite *RecordStoreTestSuite) TestGetByID_WrongEntity() {
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"name": "张三"}, models.RecordMetadata{})

	// 用别的实体名读不到
	record, err := suite.store.GetByID(suite.ctx, "product", id)
	suite.NoError(err)
	suite.Nil(record)
}

func (suite *RecordStoreTestSuite) TestUpdate_ReplacesContent() {
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"name": "张三", "age": float64(30)}, models.RecordMetadata{})

	updated, err := suite.store.Update(suite.ctx, "user", id, models.JSONB{"name": "李四"}, time.Now().UTC())
	suite.NoError(err)
	suite.True(updated)

	record, _ := suite.store.GetByID(suite.ctx, "user", id)
	suite.Equal("李四", record.Content["name"])
	// 整体替换，旧键不保留
	suite.NotContains(record.Content, "age")
}

func (suite *RecordStoreTestSuite) TestUpdate_MissReturnsFalse() {
	updated, err := suite.store.Update(suite.ctx, "user", "missing-id", models.JSONB{}, time.Now().UTC())
	suite.NoError(err)
	suite.False(updated)
}

func (suite *RecordStoreTestSuite) TestSoftDelete_ExcludedFromAllReads() {
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"name": "张三"}, models.RecordMetadata{})

	deleted, err := suite.store.SoftDelete(suite.ctx, "user", id, time.Now().UTC())
	suite.NoError(err)
	suite.True(deleted)

	// 按ID读不到
	record, err := suite.store.GetByID(suite.ctx, "user", id)
	suite.NoError(err)
	suite.Nil(record)

	// 列表读不到
	records, err := suite.store.FindAll(suite.ctx, "user", 0, 50)
	suite.NoError(err)
	suite.Empty(records)

	// 搜索读不到
	records, err = suite.store.Search(suite.ctx, "user", "张三", 0, 50)
	suite.NoError(err)
	suite.Empty(records)

	// 文档本身仍然保留在表里
	var count int64
	suite.testDB.DB.Model(&models.Record{}).Where("id = ?", id).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *RecordStoreTestSuite) TestSoftDelete_Twice() {
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"name": "张三"}, models.RecordMetadata{})

	deleted, _ := suite.store.SoftDelete(suite.ctx, "user", id, time.Now().UTC())
	suite.True(deleted)

	// 第二次软删除不再命中
	deleted, err := suite.store.SoftDelete(suite.ctx, "user", id, time.Now().UTC())
	suite.NoError(err)
	suite.False(deleted)
}

func (suite *RecordStoreTestSuite) TestFind_NumericComparison() {
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "alice", "age": float64(17)}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "bob", "age": float64(25)}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "carol", "age": float64(40)}, models.RecordMetadata{})

	records, err := suite.store.Find(suite.ctx, "user",
		[]FilterClause{{Field: "age", Op: FilterOpGt, Value: int64(18)}}, 0, 50)
	suite.NoError(err)
	suite.Len(records, 2)

	records, err = suite.store.Find(suite.ctx, "user",
		[]FilterClause{
			{Field: "age", Op: FilterOpGt, Value: int64(18)},
			{Field: "age", Op: FilterOpLt, Value: int64(30)},
		}, 0, 50)
	suite.NoError(err)
	suite.Len(records, 1)
	suite.Equal("bob", records[0].Content["name"])
}

func (suite *RecordStoreTestSuite) TestFind_ContainsCaseInsensitive() {
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "John Smith"}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "Mary Johnson"}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "李四"}, models.RecordMetadata{})

	records, err := suite.store.Find(suite.ctx, "user",
		[]FilterClause{{Field: "name", Op: FilterOpContains, Value: "john"}}, 0, 50)
	suite.NoError(err)
	suite.Len(records, 2)
}

func (suite *RecordStoreTestSuite) TestFind_StringEquality() {
	suite.store.Create(suite.ctx, "user", models.JSONB{"status": "active"}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"status": "inactive"}, models.RecordMetadata{})

	records, err := suite.store.Find(suite.ctx, "user",
		[]FilterClause{{Field: "status", Op: FilterOpEq, Value: "active"}}, 0, 50)
	suite.NoError(err)
	suite.Len(records, 1)
	suite.Equal("active", records[0].Content["status"])
}

func (suite *RecordStoreTestSuite) TestFind_BooleanEquality() {
	suite.store.Create(suite.ctx, "task", models.JSONB{"done": true}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "task", models.JSONB{"done": false}, models.RecordMetadata{})

	records, err := suite.store.Find(suite.ctx, "task",
		[]FilterClause{{Field: "done", Op: FilterOpEq, Value: true}}, 0, 50)
	suite.NoError(err)
	suite.Len(records, 1)
	suite.Equal(true, records[0].Content["done"])
}

func (suite *RecordStoreTestSuite) TestFindAll_Pagination() {
	for i := 0; i < 5; i++ {
		suite.store.Create(suite.ctx, "user", models.JSONB{"idx": float64(i)}, models.RecordMetadata{})
	}

	records, err := suite.store.FindAll(suite.ctx, "user", 2, 2)
	suite.NoError(err)
	suite.Len(records, 2)
}

func (suite *RecordStoreTestSuite) TestSearch_MatchesAnyField() {
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "张三", "city": "Beijing"}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "李四", "city": "Shanghai"}, models.RecordMetadata{})

	records, err := suite.store.Search(suite.ctx, "user", "beijing", 0, 50)
	suite.NoError(err)
	suite.Len(records, 1)
	suite.Equal("张三", records[0].Content["name"])
}

func (suite *RecordStoreTestSuite) TestCheckUniqueness() {
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"email": "a@b.com"}, models.RecordMetadata{})

	unique, err := suite.store.CheckUniqueness(suite.ctx, "user", "email", "a@b.com", "")
	suite.NoError(err)
	suite.False(unique)

	// 排除自身后视为唯一（更新场景）
	unique, err = suite.store.CheckUniqueness(suite.ctx, "user", "email", "a@b.com", id)
	suite.NoError(err)
	suite.True(unique)

	unique, err = suite.store.CheckUniqueness(suite.ctx, "user", "email", "c@d.com", "")
	suite.NoError(err)
	suite.True(unique)
}

func (suite *RecordStoreTestSuite) TestCheckUniqueness_IgnoresSoftDeleted() {
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"email": "a@b.com"}, models.RecordMetadata{})
	suite.store.SoftDelete(suite.ctx, "user", id, time.Now().UTC())

	// 软删除的记录不占用唯一值
	unique, err := suite.store.CheckUniqueness(suite.ctx, "user", "email", "a@b.com", "")
	suite.NoError(err)
	suite.True(unique)
}

func (suite *RecordStoreTestSuite) TestCount_WithAndWithoutFilters() {
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "alice", "age": float64(17)}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "bob", "age": float64(25)}, models.RecordMetadata{})
	id, _ := suite.store.Create(suite.ctx, "user", models.JSONB{"name": "carol", "age": float64(40)}, models.RecordMetadata{})

	count, err := suite.store.Count(suite.ctx, "user", nil)
	suite.NoError(err)
	suite.Equal(int64(3), count)

	count, err = suite.store.Count(suite.ctx, "user",
		[]FilterClause{{Field: "age", Op: FilterOpGt, Value: int64(18)}})
	suite.NoError(err)
	suite.Equal(int64(2), count)

	// 软删除的记录不计入总数
	suite.store.SoftDelete(suite.ctx, "user", id, time.Now().UTC())
	count, err = suite.store.Count(suite.ctx, "user", nil)
	suite.NoError(err)
	suite.Equal(int64(2), count)
}

func (suite *RecordStoreTestSuite) TestCountSearch() {
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "John Smith"}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "Mary Johnson"}, models.RecordMetadata{})
	suite.store.Create(suite.ctx, "user", models.JSONB{"name": "李四"}, models.RecordMetadata{})

	count, err := suite.store.CountSearch(suite.ctx, "user", "john")
	suite.NoError(err)
	suite.Equal(int64(2), count)

	count, err = suite.store.CountSearch(suite.ctx, "user", "nomatch")
	suite.NoError(err)
	suite.Zero(count)
}

func TestRecordStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreTestSuite))
}
