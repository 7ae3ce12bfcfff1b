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
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/notification/internal/service"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/gotomicro/ego/core/elog"
)

const groupID = "notification"

// OrderEventConsumer 把订单事件推送给买家、商家和管理员
type OrderEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewOrderEventConsumer(svc service.Service, q mq.MQ) (*OrderEventConsumer, error) {
	consumer, err := q.Consumer(order.OrderEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &OrderEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger.With(elog.FieldComponent("notification.order.consumer")),
	}, nil
}

func (c *OrderEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			if ctx.Err() != nil {
				return
			}
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费订单事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *OrderEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	return c.handle(ctx, msg)
}

func (c *OrderEventConsumer) handle(ctx context.Context, msg *mq.Message) error {
	var evt order.OrderEvent
	err := json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	return c.svc.OrderChanged(ctx, evt)
}

// InventoryEventConsumer 把库存变化推送给商家和管理员
type InventoryEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewInventoryEventConsumer(svc service.Service, q mq.MQ) (*InventoryEventConsumer, error) {
	consumer, err := q.Consumer(product.InventoryEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &InventoryEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger.With(elog.FieldComponent("notification.inventory.consumer")),
	}, nil
}

func (c *InventoryEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			if ctx.Err() != nil {
				return
			}
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费库存事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *InventoryEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	return c.handle(ctx, msg)
}

func (c *InventoryEventConsumer) handle(ctx context.Context, msg *mq.Message) error {
	var evt product.InventoryEvent
	err := json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	return c.svc.InventoryChanged(ctx, evt)
}
