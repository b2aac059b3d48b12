/*
 * @module service/models/record
 * @description 用户记录模型，承载用户自定义实体的单条数据及其元数据
 * @architecture DDD领域驱动设计 - 实体模型
 * @documentReference dev_docs/model.md
 * @stateFlow 创建(按当时模式校验) -> 更新(按更新时模式重新校验) -> 软删除(仅打删除时间戳)
 * @rules 记录内容形状由写入时的模式决定，不随模式演进回溯校验；默认读取路径排除软删除记录
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/engine/record_service.go, service/engine/record_store.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record 用户记录模型，content 为模式约束下的自由形状文档
type Record struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EntityName string     `json:"entity" gorm:"not null;size:255;index"`
	Content    JSONB      `json:"content" gorm:"type:jsonb;not null"`
	Version    int        `json:"version" gorm:"not null;default:1"` // 预留给乐观并发控制，当前不参与判断
	CreatedAt  time.Time  `json:"-" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time  `json:"-" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt  *time.Time `json:"-" gorm:"index"`
}

// TableName 指定表名
func (Record) TableName() string {
	return "user_records"
}

// BeforeCreate GORM钩子，创建前生成UUID
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// RecordMetadata 记录元数据，deleted_at 非空表示软删除
type RecordMetadata struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// RecordView 记录的响应视图，读取时在视图上填充模式默认值，不回写存储
type RecordView struct {
	ID         string         `json:"id"`
	EntityName string         `json:"entity"`
	Content    JSONB          `json:"content"`
	Version    int            `json:"version"`
	Metadata   RecordMetadata `json:"_metadata"`
}

// ToView 转换为响应视图
func (r *Record) ToView() *RecordView {
	createdAt := r.CreatedAt
	updatedAt := r.UpdatedAt
	return &RecordView{
		ID:         r.ID,
		EntityName: r.EntityName,
		Content:    r.Content.Clone(),
		Version:    r.Version,
		Metadata: RecordMetadata{
			CreatedAt: &createdAt,
			UpdatedAt: &updatedAt,
			DeletedAt: r.DeletedAt,
		},
	}
}
