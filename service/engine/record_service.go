/*
 * @module service/engine/record_service
 * @description 记录用例编排器，串联模式读取、动态校验、唯一性检查和记录持久化
 * @architecture 分层架构 - 应用服务层（编排器）
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 读取模式 -> 构建校验器 -> 负载校验 -> 唯一性检查 -> 持久化 -> 变更事件
 * @rules 写入按写入时的最新模式校验；读取只填默认值不回溯校验；唯一性检查为尽力而为的先检后写
 * @dependencies dynaman-engine/service/metadata, dynaman-engine/service/models, dynaman-engine/service/changefeed
 * @refs service/engine/validator.go, service/engine/query_parser.go, service/engine/record_store.go
 */

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dynaman-engine/service/changefeed"
	"dynaman-engine/service/metadata"
	"dynaman-engine/service/models"
)

// DefaultPageSize 列表和搜索的默认分页大小
const DefaultPageSize = 50

// RecordService 记录用例编排器
type RecordService struct {
	recordStore RecordStore
	schemaStore metadata.SchemaStore
	publisher   *changefeed.Publisher // 可选，nil 表示不推送变更事件
}

// NewRecordService 创建记录服务实例，存储句柄通过构造函数显式注入
func NewRecordService(recordStore RecordStore, schemaStore metadata.SchemaStore, publisher *changefeed.Publisher) *RecordService {
	return &RecordService{
		recordStore: recordStore,
		schemaStore: schemaStore,
		publisher:   publisher,
	}
}

// CreateRecord 创建记录：按当前模式校验负载和唯一约束后持久化
func (s *RecordService) CreateRecord(ctx context.Context, entityName string, payload models.JSONB) (string, error) {
	schema, err := s.fetchSchema(ctx, entityName)
	if err != nil {
		return "", err
	}

	if details := BuildValidator(schema).Validate(payload); len(details) > 0 {
		return "", models.NewValidationFailedError(entityName, details)
	}
	if err := s.checkUniqueConstraints(ctx, schema, payload, ""); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	recordID, err := s.recordStore.Create(ctx, entityName, payload, models.RecordMetadata{
		CreatedAt: &now,
		UpdatedAt: &now,
	})
	if err != nil {
		return "", err
	}

	slog.Info("记录已创建", "entity", entityName, "record_id", recordID)
	s.publisher.Publish(ctx, entityName, recordID, changefeed.ActionCreated)
	return recordID, nil
}

// UpdateRecord 更新记录：按更新时的最新模式重新校验，唯一性检查排除自身
func (s *RecordService) UpdateRecord(ctx context.Context, entityName, recordID string, payload models.JSONB) error {
	schema, err := s.fetchSchema(ctx, entityName)
	if err != nil {
		return err
	}

	if details := BuildValidator(schema).Validate(payload); len(details) > 0 {
		return models.NewValidationFailedError(entityName, details)
	}
	if err := s.checkUniqueConstraints(ctx, schema, payload, recordID); err != nil {
		return err
	}

	updated, err := s.recordStore.Update(ctx, entityName, recordID, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	if !updated {
		return models.NewRecordNotFoundError(recordID)
	}

	slog.Info("记录已更新", "entity", entityName, "record_id", recordID)
	s.publisher.Publish(ctx, entityName, recordID, changefeed.ActionUpdated)
	return nil
}

// DeleteRecord 软删除记录，只打删除时间戳
func (s *RecordService) DeleteRecord(ctx context.Context, entityName, recordID string) error {
	deleted, err := s.recordStore.SoftDelete(ctx, entityName, recordID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewRecordNotFoundError(recordID)
	}

	slog.Info("记录已软删除", "entity", entityName, "record_id", recordID)
	s.publisher.Publish(ctx, entityName, recordID, changefeed.ActionDeleted)
	return nil
}

// GetRecord 按ID读取记录并填充当前模式的默认值，记录不存在返回 nil
func (s *RecordService) GetRecord(ctx context.Context, entityName, recordID string) (*models.RecordView, error) {
	schema, err := s.fetchSchema(ctx, entityName)
	if err != nil {
		return nil, err
	}

	record, err := s.recordStore.GetByID(ctx, entityName, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	view := record.ToView()
	applyDefaults(view, schema)
	return view, nil
}

// ListRecords 分页列出记录，支持查询参数过滤，返回视图列表和过滤后的总数
// 实体未定义时返回空结果集而非错误，未定义实体的列表优雅降级
func (s *RecordService) ListRecords(ctx context.Context, entityName string, queryParams map[string]string, skip, limit int) ([]*models.RecordView, int64, error) {
	schema, err := s.schemaStore.GetLatestByName(ctx, entityName)
	if err != nil {
		return nil, 0, err
	}
	if schema == nil {
		return []*models.RecordView{}, 0, nil
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	var filters []FilterClause
	if len(queryParams) > 0 {
		filters = ParseFilters(queryParams, schema.FieldTypeMap())
	}

	var records []models.Record
	if len(filters) > 0 {
		records, err = s.recordStore.Find(ctx, entityName, filters, skip, limit)
	} else {
		records, err = s.recordStore.FindAll(ctx, entityName, skip, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordStore.Count(ctx, entityName, filters)
	if err != nil {
		return nil, 0, err
	}

	return s.toViews(records, schema), total, nil
}

// SearchRecords 全文搜索记录，返回视图列表和命中总数，实体未定义时返回空结果集
func (s *RecordService) SearchRecords(ctx context.Context, entityName, searchText string, skip, limit int) ([]*models.RecordView, int64, error) {
	schema, err := s.schemaStore.GetLatestByName(ctx, entityName)
	if err != nil {
		return nil, 0, err
	}
	if schema == nil {
		return []*models.RecordView{}, 0, nil
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	records, err := s.recordStore.Search(ctx, entityName, searchText, skip, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordStore.CountSearch(ctx, entityName, searchText)
	if err != nil {
		return nil, 0, err
	}

	return s.toViews(records, schema), total, nil
}

// fetchSchema 读取最新模式，不存在返回实体未定义错误
func (s *RecordService) fetchSchema(ctx context.Context, entityName string) (*models.SchemaEntity, error) {
	schema, err := s.schemaStore.GetLatestByName(ctx, entityName)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, models.NewEntityNotDefinedError(entityName)
	}
	return schema, nil
}

// checkUniqueConstraints 对带唯一约束的字段做先检后写的唯一性检查
// excludeID 非空时排除该记录自身。检查与写入之间存在竞争窗口，
// 最终一致性由存储层的原子写入兜底，这里是尽力而为的约束
func (s *RecordService) checkUniqueConstraints(ctx context.Context, schema *models.SchemaEntity, payload models.JSONB, excludeID string) error {
	for _, field := range schema.Fields {
		if !field.IsUnique() {
			continue
		}
		value, exists := payload[field.Name]
		if !exists || value == nil {
			continue
		}

		unique, err := s.recordStore.CheckUniqueness(ctx, schema.EntityName, field.Name, value, excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return models.NewValidationFailedError(schema.EntityName, []models.ValidationErrorDetail{{
				Field:  field.Name,
				Issue:  models.IssueUniqueViolation,
				Detail: fmt.Sprintf("字段 '%s' 的取值 '%v' 已存在", field.Name, value),
			}})
		}
	}
	return nil
}

// toViews 转换为响应视图并逐条填充默认值
func (s *RecordService) toViews(records []models.Record, schema *models.SchemaEntity) []*models.RecordView {
	views := make([]*models.RecordView, 0, len(records))
	for i := range records {
		view := records[i].ToView()
		applyDefaults(view, schema)
		views = append(views, view)
	}
	return views
}

// applyDefaults 在响应视图上填充模式默认值，从不回写存储的文档
// 只填充模式里声明了非空默认值且记录内容中缺失的字段
func applyDefaults(view *models.RecordView, schema *models.SchemaEntity) {
	if view.Content == nil {
		view.Content = models.JSONB{}
	}
	for _, field := range schema.Fields {
		if field.Default == nil {
			continue
		}
		if _, exists := view.Content[field.Name]; !exists {
			view.Content[field.Name] = field.Default
		}
	}
}
