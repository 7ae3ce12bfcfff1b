package mqx

import (
	"context"

	"github.com/ecodeclub/mq-api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "internal/pkg/mqx/tracing"

// TraceMQ 给订单、支付、库存事件的收发打点
type TraceMQ struct {
	mq.MQ
	tracer trace.Tracer
}

func NewTraceMQ(q mq.MQ) *TraceMQ {
	return &TraceMQ{MQ: q, tracer: otel.GetTracerProvider().Tracer(instrumentationName)}
}

func (t *TraceMQ) Producer(topic string) (mq.Producer, error) {
	pro, err := t.MQ.Producer(topic)
	if err != nil {
		return nil, err
	}
	return &traceProducer{Producer: pro, topic: topic, tracer: t.tracer}, nil
}

func (t *TraceMQ) Consumer(topic, groupID string) (mq.Consumer, error) {
	c, err := t.MQ.Consumer(topic, groupID)
	if err != nil {
		return nil, err
	}
	return &traceConsumer{Consumer: c, topic: topic, groupID: groupID, tracer: t.tracer}, nil
}

type traceProducer struct {
	mq.Producer
	topic  string
	tracer trace.Tracer
}

func (t *traceProducer) Produce(ctx context.Context, m *mq.Message) (*mq.ProducerResult, error) {
	ctx, span := t.tracer.Start(ctx, "mq.produce "+t.topic, trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(messageAttributes(t.topic, "produce", m)...)

	res, err := t.Producer.Produce(ctx, m)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (t *traceProducer) ProduceWithPartition(ctx context.Context, m *mq.Message, partition int) (*mq.ProducerResult, error) {
	ctx, span := t.tracer.Start(ctx, "mq.produce "+t.topic, trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(messageAttributes(t.topic, "produce", m)...)
	span.SetAttributes(attribute.Int("messaging.destination.partition.id", partition))

	res, err := t.Producer.ProduceWithPartition(ctx, m, partition)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return res, nil
}

type traceConsumer struct {
	mq.Consumer
	topic   string
	groupID string
	tracer  trace.Tracer
}

// Consume 只记录拿到消息的那一刻，阻塞等待的时间不计入 span
func (t *traceConsumer) Consume(ctx context.Context) (*mq.Message, error) {
	m, err := t.Consumer.Consume(ctx)
	if err != nil {
		return nil, err
	}
	_, span := t.tracer.Start(ctx, "mq.consume "+t.topic, trace.WithSpanKind(trace.SpanKindConsumer))
	span.SetAttributes(messageAttributes(t.topic, "consume", m)...)
	span.SetAttributes(attribute.String("messaging.consumer.group.name", t.groupID))
	span.End()
	return m, nil
}

func messageAttributes(topic, op string, m *mq.Message) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.operation", op),
		attribute.String("messaging.destination.name", topic),
	}
	if m == nil {
		return attrs
	}
	if len(m.Key) > 0 {
		attrs = append(attrs, attribute.String("messaging.kafka.message.key", string(m.Key)))
	}
	return append(attrs, attribute.Int("messaging.message.body.size", len(m.Value)))
}
