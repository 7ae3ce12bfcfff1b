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
	"errors"
	"fmt"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/shopspring/decimal"
)

// PaymentEventConsumer 收到支付成功事件后把订单标记为已支付
type PaymentEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewPaymentEventConsumer(svc service.Service, q mq.MQ) (*PaymentEventConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(PaymentEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *PaymentEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			if ctx.Err() != nil {
				return
			}
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	var evt PaymentEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	return c.handle(ctx, evt)
}

func (c *PaymentEventConsumer) handle(ctx context.Context, evt PaymentEvent) error {
	if evt.Status != PaymentStatusSucceeded {
		c.logger.Info("忽略非支付成功事件",
			elog.Int64("oid", evt.OrderID),
			elog.String("status", evt.Status))
		return nil
	}
	amount, err := decimal.NewFromString(evt.Amount)
	if err != nil {
		return fmt.Errorf("解析支付金额失败 oid=%d: %w", evt.OrderID, err)
	}
	ok, err := c.svc.MarkPaid(ctx, evt.OrderID, domain.PaymentResult{
		Provider:  evt.Provider,
		Reference: evt.Reference,
		Status:    evt.Status,
		Amount:    amount,
	})
	// 订单不存在时重试也没有意义，记录后直接确认消息
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Error("支付成功但订单不存在",
			elog.FieldErr(err),
			elog.Int64("oid", evt.OrderID),
			elog.String("reference", evt.Reference))
		return nil
	}
	if err != nil {
		return fmt.Errorf("标记订单已支付失败 oid=%d: %w", evt.OrderID, err)
	}
	if !ok {
		c.logger.Info("重复的支付成功事件",
			elog.Int64("oid", evt.OrderID),
			elog.String("reference", evt.Reference))
	}
	return nil
}
