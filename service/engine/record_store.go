/*
 * @module service/engine/record_store
 * @description 记录持久化适配器，基于GORM在JSONB内容列上实现文档式的查询原语
 * @architecture 适配器模式 - 数据访问层
 * @documentReference dev_docs/model.md
 * @stateFlow 过滤子句 -> 方言相关的JSON查询SQL -> 记录集
 * @rules 默认读取路径一律排除软删除记录；过滤字段落在content列的命名空间内
 * @dependencies dynaman-engine/service/models, gorm.io/gorm, github.com/spf13/cast
 * @refs service/engine/record_service.go, service/engine/query_parser.go
 */

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dynaman-engine/service/models"

	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// RecordStore 记录存储接口，核心只依赖这组窄接口，不关心底层存储实现
type RecordStore interface {
	Create(ctx context.Context, entityName string, content models.JSONB, meta models.RecordMetadata) (string, error)
	Update(ctx context.Context, entityName, recordID string, content models.JSONB, updatedAt time.Time) (bool, error)
	SoftDelete(ctx context.Context, entityName, recordID string, deletedAt time.Time) (bool, error)
	FindAll(ctx context.Context, entityName string, skip, limit int) ([]models.Record, error)
	Find(ctx context.Context, entityName string, filters []FilterClause, skip, limit int) ([]models.Record, error)
	Search(ctx context.Context, entityName, searchText string, skip, limit int) ([]models.Record, error)
	Count(ctx context.Context, entityName string, filters []FilterClause) (int64, error)
	CountSearch(ctx context.Context, entityName, searchText string) (int64, error)
	GetByID(ctx context.Context, entityName, recordID string) (*models.Record, error)
	CheckUniqueness(ctx context.Context, entityName, fieldName string, value interface{}, excludeID string) (bool, error)
}

// GormRecordStore 基于GORM的记录存储实现
type GormRecordStore struct {
	db *gorm.DB
}

// NewGormRecordStore 创建记录存储实例
func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{db: db}
}

// Create 持久化新记录，返回存储分配的记录ID
func (s *GormRecordStore) Create(ctx context.Context, entityName string, content models.JSONB, meta models.RecordMetadata) (string, error) {
	record := models.Record{
		EntityName: entityName,
		Content:    content,
	}
	if meta.CreatedAt != nil {
		record.CreatedAt = *meta.CreatedAt
	}
	if meta.UpdatedAt != nil {
		record.UpdatedAt = *meta.UpdatedAt
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("创建记录失败: %w", err)
	}
	return record.ID, nil
}

// Update 整体替换记录内容并刷新更新时间，返回是否命中目标记录
func (s *GormRecordStore) Update(ctx context.Context, entityName, recordID string, content models.JSONB, updatedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Record{}).
		Where("id = ? AND entity_name = ? AND deleted_at IS NULL", recordID, entityName).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("更新记录失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SoftDelete 打软删除时间戳，文档本身保留
func (s *GormRecordStore) SoftDelete(ctx context.Context, entityName, recordID string, deletedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Record{}).
		Where("id = ? AND entity_name = ? AND deleted_at IS NULL", recordID, entityName).
		Update("deleted_at", deletedAt)
	if result.Error != nil {
		return false, fmt.Errorf("软删除记录失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FindAll 按实体名分页读取全部未删除记录
func (s *GormRecordStore) FindAll(ctx context.Context, entityName string, skip, limit int) ([]models.Record, error) {
	var records []models.Record
	err := s.activeQuery(ctx, entityName).
		Order("created_at").
		Offset(skip).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询记录失败: %w", err)
	}
	return records, nil
}

// Find 按过滤子句分页读取未删除记录，子句之间为AND语义
func (s *GormRecordStore) Find(ctx context.Context, entityName string, filters []FilterClause, skip, limit int) ([]models.Record, error) {
	query := s.activeQuery(ctx, entityName)
	for _, clause := range filters {
		query = s.applyClause(query, clause)
	}

	var records []models.Record
	err := query.Order("created_at").Offset(skip).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("过滤查询记录失败: %w", err)
	}
	return records, nil
}

// Search 在整个content文档上做忽略大小写的全文子串匹配
func (s *GormRecordStore) Search(ctx context.Context, entityName, searchText string, skip, limit int) ([]models.Record, error) {
	query := s.activeQuery(ctx, entityName)
	pattern := "%" + searchText + "%"
	if s.isPostgres() {
		query = query.Where("content::text ILIKE ?", pattern)
	} else {
		query = query.Where("LOWER(content) LIKE LOWER(?)", pattern)
	}

	var records []models.Record
	err := query.Order("created_at").Offset(skip).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("全文搜索记录失败: %w", err)
	}
	return records, nil
}

// Count 统计满足过滤子句的未删除记录总数，filters 为空时统计全部
func (s *GormRecordStore) Count(ctx context.Context, entityName string, filters []FilterClause) (int64, error) {
	query := s.activeQuery(ctx, entityName)
	for _, clause := range filters {
		query = s.applyClause(query, clause)
	}

	var count int64
	if err := query.Model(&models.Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计记录失败: %w", err)
	}
	return count, nil
}

// CountSearch 统计全文搜索命中的未删除记录总数
func (s *GormRecordStore) CountSearch(ctx context.Context, entityName, searchText string) (int64, error) {
	query := s.activeQuery(ctx, entityName)
	pattern := "%" + searchText + "%"
	if s.isPostgres() {
		query = query.Where("content::text ILIKE ?", pattern)
	} else {
		query = query.Where("LOWER(content) LIKE LOWER(?)", pattern)
	}

	var count int64
	if err := query.Model(&models.Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计搜索结果失败: %w", err)
	}
	return count, nil
}

// GetByID 按ID读取未删除记录，不存在返回 nil
func (s *GormRecordStore) GetByID(ctx context.Context, entityName, recordID string) (*models.Record, error) {
	var record models.Record
	err := s.activeQuery(ctx, entityName).Where("id = ?", recordID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取记录失败: %w", err)
	}
	return &record, nil
}

// CheckUniqueness 检查指定字段值在未删除记录中是否唯一
// excludeID 非空时排除该记录自身（更新场景下的自排除）
func (s *GormRecordStore) CheckUniqueness(ctx context.Context, entityName, fieldName string, value interface{}, excludeID string) (bool, error) {
	query := s.activeQuery(ctx, entityName)
	query = s.applyClause(query, FilterClause{Field: fieldName, Op: FilterOpEq, Value: value})
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Model(&models.Record{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("唯一性检查失败: %w", err)
	}
	return count == 0, nil
}

// activeQuery 基础查询：按实体名限定并排除软删除记录
func (s *GormRecordStore) activeQuery(ctx context.Context, entityName string) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("entity_name = ? AND deleted_at IS NULL", entityName)
}

// applyClause 把一条过滤子句翻译为content列上的JSON查询条件
// PostgreSQL 用 ->> 取路径，SQLite 用 json_extract，两个方言行为保持一致
func (s *GormRecordStore) applyClause(query *gorm.DB, clause FilterClause) *gorm.DB {
	pg := s.isPostgres()

	switch clause.Op {
	case FilterOpGt, FilterOpLt:
		op := ">"
		if clause.Op == FilterOpLt {
			op = "<"
		}
		if isNumericValue(clause.Value) {
			if pg {
				return query.Where(fmt.Sprintf("CAST(content ->> ? AS NUMERIC) %s ?", op), clause.Field, clause.Value)
			}
			return query.Where(fmt.Sprintf("CAST(json_extract(content, ?) AS NUMERIC) %s ?", op), jsonPath(clause.Field), clause.Value)
		}
		if pg {
			return query.Where(fmt.Sprintf("content ->> ? %s ?", op), clause.Field, cast.ToString(clause.Value))
		}
		return query.Where(fmt.Sprintf("json_extract(content, ?) %s ?", op), jsonPath(clause.Field), cast.ToString(clause.Value))

	case FilterOpContains:
		pattern := "%" + cast.ToString(clause.Value) + "%"
		if pg {
			return query.Where("content ->> ? ILIKE ?", clause.Field, pattern)
		}
		return query.Where("LOWER(json_extract(content, ?)) LIKE LOWER(?)", jsonPath(clause.Field), pattern)

	default: // 等值匹配
		if isNumericValue(clause.Value) {
			if pg {
				return query.Where("CAST(content ->> ? AS NUMERIC) = ?", clause.Field, clause.Value)
			}
			return query.Where("CAST(json_extract(content, ?) AS NUMERIC) = ?", jsonPath(clause.Field), clause.Value)
		}
		if b, ok := clause.Value.(bool); ok {
			if pg {
				return query.Where("content ->> ? = ?", clause.Field, cast.ToString(b))
			}
			return query.Where("json_extract(content, ?) = ?", jsonPath(clause.Field), b)
		}
		if pg {
			return query.Where("content ->> ? = ?", clause.Field, cast.ToString(clause.Value))
		}
		return query.Where("json_extract(content, ?) = ?", jsonPath(clause.Field), cast.ToString(clause.Value))
	}
}

// isPostgres 判断当前连接方言
func (s *GormRecordStore) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// jsonPath 构造 json_extract 的路径参数
func jsonPath(field string) string {
	return "$." + field
}

// isNumericValue 判断过滤值是否为数值类型
func isNumericValue(value interface{}) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}
