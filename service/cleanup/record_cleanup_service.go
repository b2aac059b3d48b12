/*
 * @module service/cleanup/record_cleanup_service
 * @description 记录清理服务，定期物理清除软删除超过保留期的记录文档
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 定时触发 -> 计算截止时间 -> 删除过期软删除记录 -> 记录结果
 * @rules 只清理 deleted_at 早于保留期的记录，正常记录永不触碰
 * @dependencies gorm.io/gorm, github.com/robfig/cron/v3
 * @refs service/init.go
 */

package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"dynaman-engine/service/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DefaultRetentionDays 软删除记录的默认保留天数
const DefaultRetentionDays = 30

// RecordCleanupService 软删除记录的定期清理服务
type RecordCleanupService struct {
	db            *gorm.DB
	cron          *cron.Cron
	retentionDays int
	started       bool
}

// NewRecordCleanupService 创建记录清理服务实例
// 保留天数从 RECORD_RETENTION_DAYS 环境变量读取，缺省30天
func NewRecordCleanupService(db *gorm.DB) *RecordCleanupService {
	retentionDays := DefaultRetentionDays
	if val := os.Getenv("RECORD_RETENTION_DAYS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			retentionDays = parsed
		}
	}

	return &RecordCleanupService{
		db:            db,
		cron:          cron.New(),
		retentionDays: retentionDays,
	}
}

// Start 启动清理调度，每天凌晨3点执行一次
func (s *RecordCleanupService) Start() error {
	if s.started {
		return nil
	}

	_, err := s.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		deleted, err := s.PurgeSoftDeleted(ctx, s.retentionDays)
		if err != nil {
			slog.Error("清理软删除记录失败", "error", err)
			return
		}
		slog.Info("清理软删除记录完成", "deleted_count", deleted, "retention_days", s.retentionDays)
	})
	if err != nil {
		return fmt.Errorf("注册清理任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true
	slog.Info("记录清理服务已启动", "retention_days", s.retentionDays)
	return nil
}

// Stop 停止清理调度，等待进行中的任务结束
func (s *RecordCleanupService) Stop() {
	if !s.started {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
	slog.Info("记录清理服务已停止")
}

// PurgeSoftDeleted 物理删除软删除时间早于保留期的记录，返回删除条数
func (s *RecordCleanupService) PurgeSoftDeleted(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	result := s.db.WithContext(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.Record{})
	if result.Error != nil {
		return 0, fmt.Errorf("删除过期软删除记录失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}
