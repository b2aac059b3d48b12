/*
 * @module service/changefeed/publisher
 * @description 记录变更事件发布器，把记录的创建/更新/软删除事件推送到Kafka供下游订阅
 * @architecture 适配器模式 - 封装kafka-go生产者
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 记录写入成功 -> 构造变更事件 -> 异步发布 -> 失败只记日志
 * @rules 发布尽力而为，任何失败不得阻塞或回滚记录写入；未配置Kafka时整体禁用
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/engine/record_service.go
 */

package changefeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// 记录变更动作
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const defaultTopic = "record-changes"

// RecordChangeEvent 记录变更事件
type RecordChangeEvent struct {
	EntityName string    `json:"entity"`
	RecordID   string    `json:"record_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 记录变更事件发布器
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisherFromEnv 按环境变量创建发布器，KAFKA_BROKERS 未配置时返回 nil（禁用变更推送）
func NewPublisherFromEnv() *Publisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}

	topic := os.Getenv("KAFKA_CHANGEFEED_TOPIC")
	if topic == "" {
		topic = defaultTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 100 * time.Millisecond,
	}

	slog.Info("记录变更推送已启用", "brokers", brokers, "topic", topic)
	return &Publisher{writer: writer}
}

// Publish 发布一条记录变更事件，失败只记日志
func (p *Publisher) Publish(ctx context.Context, entityName, recordID, action string) {
	if p == nil {
		return
	}

	event := RecordChangeEvent{
		EntityName: entityName,
		RecordID:   recordID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("变更事件序列化失败", "entity", entityName, "record_id", recordID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(entityName),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("变更事件发布失败", "entity", entityName, "record_id", recordID, "error", err)
	}
}

// Close 关闭Kafka生产者
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		slog.Error("关闭Kafka生产者失败", "error", err)
	}
}
