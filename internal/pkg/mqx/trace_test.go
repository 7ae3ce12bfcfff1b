// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mqx

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ecodeclub/mq-api/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type stockEvent struct {
	ProductID int64 `json:"productId"`
	Stock     int64 `json:"stock"`
}

func TestKeyedProducer_WithTrace(t *testing.T) {
	const topic = "inventory_events"
	q := memory.NewMQ()
	require.NoError(t, q.CreateTopic(context.Background(), topic, 1))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tq := &TraceMQ{MQ: q, tracer: tp.Tracer("test")}

	producer, err := NewKeyedProducer[stockEvent](tq, topic, func(evt stockEvent) string {
		return "p-1"
	})
	require.NoError(t, err)
	consumer, err := tq.Consumer(topic, "test")
	require.NoError(t, err)

	err = producer.Produce(context.Background(), stockEvent{ProductID: 1, Stock: 3})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := consumer.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p-1", string(msg.Key))
	var evt stockEvent
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, stockEvent{ProductID: 1, Stock: 3}, evt)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "mq.produce "+topic, spans[0].Name())
	assert.Equal(t, trace.SpanKindProducer, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.String("messaging.kafka.message.key", "p-1"))
	assert.Equal(t, "mq.consume "+topic, spans[1].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.String("messaging.consumer.group.name", "test"))
}
