/*
 * @module service/cleanup/record_cleanup_service_test
 * @description 记录清理服务单元测试
 * @architecture 测试层 - 基于内存SQLite的清理逻辑测试
 * @documentReference docs/test_plan.md
 * @stateFlow 准备软删除记录 -> 执行清理 -> 验证保留边界
 * @rules 只有超过保留期的软删除记录被物理删除
 * @dependencies testing, testify, dynaman-engine/testutil
 * @refs record_cleanup_service.go
 */

package cleanup

import (
	"context"
	"testing"
	"time"

	"dynaman-engine/service/models"
	"dynaman-engine/testutil"

	"github.com/stretchr/testify/assert"
)

func TestPurgeSoftDeleted(t *testing.T) {
	testDB := testutil.NewTestDB()
	defer testDB.Close()
	factory := testutil.NewTestDataFactory(testDB.DB)

	now := time.Now().UTC()

	// 正常记录
	factory.CreateRecord("user", models.JSONB{"name": "active"})
	// 刚软删除的记录，在保留期内
	factory.CreateRecord("user", models.JSONB{"name": "recent"},
		testutil.WithDeletedAt(now.Add(-24*time.Hour)))
	// 软删除超过保留期的记录
	factory.CreateRecord("user", models.JSONB{"name": "expired"},
		testutil.WithDeletedAt(now.AddDate(0, 0, -40)))

	service := NewRecordCleanupService(testDB.DB)
	deleted, err := service.PurgeSoftDeleted(context.Background(), 30)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	testDB.DB.Model(&models.Record{}).Count(&remaining)
	assert.Equal(t, int64(2), remaining)

	// 正常记录从不被触碰
	var active int64
	testDB.DB.Model(&models.Record{}).Where("deleted_at IS NULL").Count(&active)
	assert.Equal(t, int64(1), active)
}

func TestPurgeSoftDeleted_NothingExpired(t *testing.T) {
	testDB := testutil.NewTestDB()
	defer testDB.Close()
	factory := testutil.NewTestDataFactory(testDB.DB)

	factory.CreateRecord("user", models.JSONB{"name": "recent"},
		testutil.WithDeletedAt(time.Now().UTC()))

	service := NewRecordCleanupService(testDB.DB)
	deleted, err := service.PurgeSoftDeleted(context.Background(), 30)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestStartAndStop(t *testing.T) {
	testDB := testutil.NewTestDB()
	defer testDB.Close()

	service := NewRecordCleanupService(testDB.DB)
	assert.NoError(t, service.Start())
	// 重复启动幂等
	assert.NoError(t, service.Start())
	service.Stop()
}
