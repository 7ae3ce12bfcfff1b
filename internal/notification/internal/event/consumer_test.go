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
	"testing"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/mq-api/memory"
	svcmocks "github.com/ecodeclub/webmall/internal/notification/internal/service/mocks"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/gotomicro/ego/core/elog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func message(t *testing.T, evt any) *mq.Message {
	val, err := json.Marshal(evt)
	require.NoError(t, err)
	return &mq.Message{Value: val}
}

func TestNewConsumers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	q := memory.NewMQ()
	svc := svcmocks.NewMockService(ctrl)
	_, err := NewOrderEventConsumer(svc, q)
	require.NoError(t, err)
	_, err = NewInventoryEventConsumer(svc, q)
	require.NoError(t, err)
}

func TestOrderEventConsumer_handle(t *testing.T) {
	evt := order.OrderEvent{
		Type:      order.OrderEventTypeStatusChanged,
		OrderID:   1,
		SN:        "SN001",
		BuyerID:   123,
		VendorIDs: []int64{7},
		Status:    "shipped",
		From:      "ready_for_delivery",
	}
	testCases := []struct {
		name    string
		msg     func(t *testing.T) *mq.Message
		mock    func(svc *svcmocks.MockService)
		wantErr bool
	}{
		{
			name: "推送成功",
			msg: func(t *testing.T) *mq.Message {
				return message(t, evt)
			},
			mock: func(svc *svcmocks.MockService) {
				svc.EXPECT().OrderChanged(gomock.Any(), evt).Return(nil)
			},
		},
		{
			name: "推送失败",
			msg: func(t *testing.T) *mq.Message {
				return message(t, evt)
			},
			mock: func(svc *svcmocks.MockService) {
				svc.EXPECT().OrderChanged(gomock.Any(), evt).Return(errors.New("mock smtp error"))
			},
			wantErr: true,
		},
		{
			name: "消息格式错误",
			msg: func(t *testing.T) *mq.Message {
				return &mq.Message{Value: []byte("not json")}
			},
			mock:    func(svc *svcmocks.MockService) {},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc := svcmocks.NewMockService(ctrl)
			tc.mock(svc)
			c := &OrderEventConsumer{svc: svc, logger: elog.DefaultLogger}
			err := c.handle(context.Background(), tc.msg(t))
			assert.Equal(t, tc.wantErr, err != nil)
		})
	}
}

func TestInventoryEventConsumer_handle(t *testing.T) {
	evt := product.InventoryEvent{ProductID: 1, VendorID: 7, Name: "耳机", Stock: 2, LowStockThreshold: 5, LowStock: true}
	testCases := []struct {
		name    string
		msg     func(t *testing.T) *mq.Message
		mock    func(svc *svcmocks.MockService)
		wantErr bool
	}{
		{
			name: "推送成功",
			msg: func(t *testing.T) *mq.Message {
				return message(t, evt)
			},
			mock: func(svc *svcmocks.MockService) {
				svc.EXPECT().InventoryChanged(gomock.Any(), evt).Return(nil)
			},
		},
		{
			name: "消息格式错误",
			msg: func(t *testing.T) *mq.Message {
				return &mq.Message{Value: []byte("not json")}
			},
			mock:    func(svc *svcmocks.MockService) {},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc := svcmocks.NewMockService(ctrl)
			tc.mock(svc)
			c := &InventoryEventConsumer{svc: svc, logger: elog.DefaultLogger}
			err := c.handle(context.Background(), tc.msg(t))
			assert.Equal(t, tc.wantErr, err != nil)
		})
	}
}
