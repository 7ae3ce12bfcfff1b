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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ecodeclub/webmall/internal/email"
	emailmocks "github.com/ecodeclub/webmall/internal/email/mocks"
	"github.com/ecodeclub/webmall/internal/notification/internal/domain"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type published struct {
	msg   domain.Message
	rooms []string
}

type fakePublisher struct {
	full bool
	msgs []published
}

func (p *fakePublisher) Publish(data []byte, rooms ...string) bool {
	if p.full {
		return false
	}
	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		panic(err)
	}
	p.msgs = append(p.msgs, published{msg: msg, rooms: rooms})
	return true
}

func TestService_OrderChanged(t *testing.T) {
	testCases := []struct {
		name      string
		evt       order.OrderEvent
		full      bool
		mock      func(ctrl *gomock.Controller) email.Service
		wantType  string
		wantRooms []string
		wantErr   error
	}{
		{
			name: "下单",
			evt: order.OrderEvent{Type: order.OrderEventTypeCreated, OrderID: 1, SN: "SN001", BuyerID: 123,
				ContactEmail: "buyer@webmall.com", VendorIDs: []int64{7, 8}, Status: "pending", TotalPrice: "36.50", ItemCount: 2},
			mock: func(ctrl *gomock.Controller) email.Service {
				svc := emailmocks.NewMockService(ctrl)
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, m email.Mail) error {
					assert.Equal(t, "buyer@webmall.com", m.To)
					assert.Equal(t, "订单 SN001 已创建", m.Subject)
					assert.Contains(t, string(m.Body), "36.50")
					return nil
				})
				return svc
			},
			wantType:  domain.MessageOrderCreated,
			wantRooms: []string{"user:123", "vendor:7", "vendor:8", "admin"},
		},
		{
			name: "发货邮件带物流信息",
			evt: order.OrderEvent{Type: order.OrderEventTypeStatusChanged, OrderID: 1, SN: "SN001", BuyerID: 123,
				ContactEmail: "buyer@webmall.com", VendorIDs: []int64{7}, Status: "shipped", From: "ready_for_delivery",
				TrackingNumber: "SF1234567", Carrier: "SF"},
			mock: func(ctrl *gomock.Controller) email.Service {
				svc := emailmocks.NewMockService(ctrl)
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, m email.Mail) error {
					assert.Equal(t, "订单 SN001 已发货", m.Subject)
					assert.Contains(t, string(m.Body), "SF1234567")
					return nil
				})
				return svc
			},
			wantType:  domain.MessageOrderStatusChanged,
			wantRooms: []string{"user:123", "vendor:7", "admin"},
		},
		{
			name: "中间状态只推送站内消息",
			evt: order.OrderEvent{Type: order.OrderEventTypeStatusChanged, OrderID: 1, SN: "SN001", BuyerID: 123,
				ContactEmail: "buyer@webmall.com", VendorIDs: []int64{7}, Status: "out_for_delivery"},
			mock: func(ctrl *gomock.Controller) email.Service {
				return emailmocks.NewMockService(ctrl)
			},
			wantType:  domain.MessageOrderStatusChanged,
			wantRooms: []string{"user:123", "vendor:7", "admin"},
		},
		{
			name: "没有联系邮箱",
			evt: order.OrderEvent{Type: order.OrderEventTypeStatusChanged, OrderID: 1, SN: "SN001", BuyerID: 123,
				Status: "cancelled", CancelReason: "超时未支付"},
			mock: func(ctrl *gomock.Controller) email.Service {
				return emailmocks.NewMockService(ctrl)
			},
			wantType:  domain.MessageOrderStatusChanged,
			wantRooms: []string{"user:123", "admin"},
		},
		{
			name: "站内消息被丢弃不影响邮件",
			evt: order.OrderEvent{Type: order.OrderEventTypeStatusChanged, OrderID: 1, SN: "SN001", BuyerID: 123,
				ContactEmail: "buyer@webmall.com", Status: "delivered"},
			full: true,
			mock: func(ctrl *gomock.Controller) email.Service {
				svc := emailmocks.NewMockService(ctrl)
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(nil)
				return svc
			},
		},
		{
			name: "发送邮件失败",
			evt: order.OrderEvent{Type: order.OrderEventTypeStatusChanged, OrderID: 1, SN: "SN001", BuyerID: 123,
				ContactEmail: "buyer@webmall.com", Status: "refunded"},
			mock: func(ctrl *gomock.Controller) email.Service {
				svc := emailmocks.NewMockService(ctrl)
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(errors.New("smtp 错误"))
				return svc
			},
			wantType:  domain.MessageOrderStatusChanged,
			wantRooms: []string{"user:123", "admin"},
			wantErr:   errors.New("smtp 错误"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			pub := &fakePublisher{full: tc.full}
			svc := NewService(pub, tc.mock(ctrl), Config{})

			err := svc.OrderChanged(context.Background(), tc.evt)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr.Error())
			} else {
				require.NoError(t, err)
			}
			if tc.full {
				assert.Empty(t, pub.msgs)
				return
			}
			require.Len(t, pub.msgs, 1)
			assert.Equal(t, tc.wantType, pub.msgs[0].msg.Type)
			assert.Equal(t, tc.wantRooms, pub.msgs[0].rooms)
			assert.NotZero(t, pub.msgs[0].msg.Ctime)
		})
	}
}

func TestService_InventoryChanged(t *testing.T) {
	testCases := []struct {
		name          string
		evt           product.InventoryEvent
		operatorEmail string
		mock          func(ctrl *gomock.Controller) email.Service
		wantType      string
	}{
		{
			name:          "库存变化",
			evt:           product.InventoryEvent{ProductID: 1, VendorID: 7, Name: "耳机", Stock: 20, LowStockThreshold: 5},
			operatorEmail: "ops@webmall.com",
			mock: func(ctrl *gomock.Controller) email.Service {
				return emailmocks.NewMockService(ctrl)
			},
			wantType: domain.MessageInventoryUpdated,
		},
		{
			name:          "低库存告警",
			evt:           product.InventoryEvent{ProductID: 1, VariantID: 11, VendorID: 7, Name: "耳机", Stock: 3, LowStockThreshold: 5, LowStock: true},
			operatorEmail: "ops@webmall.com",
			mock: func(ctrl *gomock.Controller) email.Service {
				svc := emailmocks.NewMockService(ctrl)
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, m email.Mail) error {
					assert.Equal(t, "ops@webmall.com", m.To)
					assert.Equal(t, "商品 耳机 库存不足", m.Subject)
					assert.Contains(t, string(m.Body), "当前库存 3")
					return nil
				})
				return svc
			},
			wantType: domain.MessageLowStock,
		},
		{
			name: "没有配置运营邮箱",
			evt:  product.InventoryEvent{ProductID: 1, VendorID: 7, Name: "耳机", Stock: 0, LowStockThreshold: 5, LowStock: true},
			mock: func(ctrl *gomock.Controller) email.Service {
				return emailmocks.NewMockService(ctrl)
			},
			wantType: domain.MessageLowStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			pub := &fakePublisher{}
			svc := NewService(pub, tc.mock(ctrl), Config{OperatorEmail: tc.operatorEmail})

			err := svc.InventoryChanged(context.Background(), tc.evt)
			require.NoError(t, err)
			require.Len(t, pub.msgs, 1)
			assert.Equal(t, tc.wantType, pub.msgs[0].msg.Type)
			assert.Equal(t, []string{"vendor:7", "admin"}, pub.msgs[0].rooms)
		})
	}
}
