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
package event

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/pkg/mqx"
	"github.com/gotomicro/ego/core/elog"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=./producer.go -package=evtmocks -destination=./mocks/producer.mock.go OrderEventProducer
type OrderEventProducer mqx.Producer[OrderEvent]

// NewOrderEventProducer 同一订单的事件进入同一分区，保证顺序
func NewOrderEventProducer(q mq.MQ) (OrderEventProducer, error) {
	return mqx.NewKeyedProducer[OrderEvent](q, OrderEventName, func(evt OrderEvent) string {
		return strconv.FormatInt(evt.OrderID, 10)
	})
}

var ErrNotifyQueueFull = errors.New("订单事件队列已满")

const produceTimeout = 3 * time.Second

type pendingEvent struct {
	evt OrderEvent
	// 保留请求的链路，后台发送时仍然能关联到原请求
	sc trace.SpanContext
}

// Notifier 把订单变化转成 OrderEvent 放入有界队列，由后台协程发送到消息队列。
// 队列满时直接丢弃，下单和修改状态不会被消息队列拖慢
type Notifier struct {
	producer OrderEventProducer
	events   chan pendingEvent
	logger   *elog.Component
}

func NewNotifier(producer OrderEventProducer, bufferSize int) *Notifier {
	return &Notifier{
		producer: producer,
		events:   make(chan pendingEvent, bufferSize),
		logger:   elog.DefaultLogger.With(elog.FieldComponent("order.notifier")),
	}
}

// Start 只有一个发送协程，同一订单的事件保持入队顺序。ctx 取消后发完已入队的事件再退出
func (n *Notifier) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case pe := <-n.events:
				n.produce(pe)
			case <-ctx.Done():
				n.drain()
				return
			}
		}
	}()
}

func (n *Notifier) drain() {
	for {
		select {
		case pe := <-n.events:
			n.produce(pe)
		default:
			return
		}
	}
}

func (n *Notifier) produce(pe pendingEvent) {
	ctx := trace.ContextWithSpanContext(context.Background(), pe.sc)
	ctx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()
	if err := n.producer.Produce(ctx, pe.evt); err != nil {
		n.logger.Error("发送订单事件失败",
			elog.FieldErr(err),
			elog.Int64("oid", pe.evt.OrderID),
			elog.String("type", pe.evt.Type),
			elog.String("status", pe.evt.Status))
	}
}

func (n *Notifier) enqueue(ctx context.Context, evt OrderEvent) error {
	select {
	case n.events <- pendingEvent{evt: evt, sc: trace.SpanContextFromContext(ctx)}:
		return nil
	default:
		return fmt.Errorf("%w: oid=%d, type=%s", ErrNotifyQueueFull, evt.OrderID, evt.Type)
	}
}

func (n *Notifier) OrderCreated(ctx context.Context, o domain.Order) error {
	return n.enqueue(ctx, newOrderEvent(OrderEventTypeCreated, o))
}

func (n *Notifier) StatusChanged(ctx context.Context, o domain.Order, from domain.Status) error {
	evt := newOrderEvent(OrderEventTypeStatusChanged, o)
	evt.From = from.String()
	return n.enqueue(ctx, evt)
}

func newOrderEvent(typ string, o domain.Order) OrderEvent {
	return OrderEvent{
		Type:           typ,
		OrderID:        o.ID,
		SN:             o.SN,
		BuyerID:        o.BuyerID,
		ContactEmail:   o.ContactEmail,
		VendorIDs:      o.VendorIDs(),
		Status:         o.Status.String(),
		TotalPrice:     o.Pricing.TotalPrice.StringFixed(2),
		ItemCount:      len(o.Items),
		CancelReason:   o.CancelReason,
		TrackingNumber: o.TrackingNumber,
		Carrier:        o.Carrier,
		Ctime:          time.Now().UnixMilli(),
	}
}
