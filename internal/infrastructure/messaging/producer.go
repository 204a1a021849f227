package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-doc-platform-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client        *redis.Client
	maxLen        int64
	sectionStream Stream
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64, sectionStream Stream) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	if sectionStream == "" {
		sectionStream = DefaultSectionStream
	}
	return &Producer{
		client:        client,
		maxLen:        maxLen,
		sectionStream: sectionStream,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		metrics.RedisStreamPublished.WithLabelValues(string(stream), "error").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.RedisStreamPublished.WithLabelValues(string(stream), "ok").Inc()
	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishSectionEvent 发布段落内容变更事件
func (p *Producer) PublishSectionEvent(ctx context.Context, eventType string, event *SectionEvent) (string, error) {
	msg, err := NewMessage(eventType, event.ProjectID, event)
	if err != nil {
		return "", err
	}
	msg.SetMetadata("section_id", event.SectionID)
	msg.SetMetadata("version", strconv.Itoa(event.Version))

	return p.Publish(ctx, p.sectionStream, msg)
}
