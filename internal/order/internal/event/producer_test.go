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
package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/event"
	evtmocks "github.com/ecodeclub/webmall/internal/order/internal/event/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testOrder() domain.Order {
	return domain.Order{
		ID:           1001,
		SN:           "ORD-202610-AAAAAAAA",
		BuyerID:      100,
		ContactEmail: "buyer@example.com",
		Status:       domain.StatusCancelled,
		CancelReason: "缺货",
		Pricing:      domain.Pricing{TotalPrice: decimal.RequireFromString("33.5")},
		Items: []domain.Item{
			{ProductID: 1, VendorID: 7},
			{ProductID: 2, VendorID: 8},
			{ProductID: 3, VendorID: 7},
		},
	}
}

func TestNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	producer := evtmocks.NewMockOrderEventProducer(ctrl)
	n := event.NewNotifier(producer, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	got := make(chan event.OrderEvent, 3)
	producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.OrderEvent) error {
			got <- evt
			return nil
		}).Times(2)
	// 发送失败只记日志，不影响后续事件
	producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.OrderEvent) error {
			got <- evt
			return errors.New("mq 不可用")
		})

	o := testOrder()
	require.NoError(t, n.OrderCreated(context.Background(), o))
	require.NoError(t, n.StatusChanged(context.Background(), o, domain.StatusPending))
	require.NoError(t, n.OrderCreated(context.Background(), o))

	evts := make([]event.OrderEvent, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case evt := <-got:
			evts = append(evts, evt)
		case <-time.After(time.Second):
			t.Fatal("等待订单事件超时")
		}
	}
	assert.Equal(t, event.OrderEventTypeCreated, evts[0].Type)
	assert.Equal(t, event.OrderEventTypeStatusChanged, evts[1].Type)
	assert.Equal(t, "pending", evts[1].From)
	assert.Equal(t, "cancelled", evts[1].Status)
	assert.Equal(t, []int64{7, 8}, evts[1].VendorIDs)
	assert.Equal(t, "33.50", evts[1].TotalPrice)
	assert.Equal(t, 3, evts[1].ItemCount)
	assert.Equal(t, "缺货", evts[1].CancelReason)
	assert.Equal(t, event.OrderEventTypeCreated, evts[2].Type)
}

func TestNotifier_QueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	producer := evtmocks.NewMockOrderEventProducer(ctrl)
	// 没有启动发送协程，第二条事件放不进队列
	n := event.NewNotifier(producer, 1)

	o := testOrder()
	require.NoError(t, n.OrderCreated(context.Background(), o))
	err := n.StatusChanged(context.Background(), o, domain.StatusPending)
	assert.ErrorIs(t, err, event.ErrNotifyQueueFull)
}

func TestNotifier_DrainOnStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	producer := evtmocks.NewMockOrderEventProducer(ctrl)
	n := event.NewNotifier(producer, 4)

	done := make(chan struct{})
	producer.EXPECT().Produce(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.OrderEvent) error {
			close(done)
			return nil
		})

	o := testOrder()
	require.NoError(t, n.OrderCreated(context.Background(), o))
	require.NoError(t, n.StatusChanged(context.Background(), o, domain.StatusPending))

	// 先取消再启动，已入队的事件仍然全部发出
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Start(ctx)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("停止前没有发完队列中的事件")
	}
}
