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
	"testing"

	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	ordermocks "github.com/ecodeclub/webmall/internal/order/mocks"
	"github.com/gotomicro/ego/core/elog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestPaymentEventConsumer_handle(t *testing.T) {
	testCases := []struct {
		name    string
		evt     PaymentEvent
		mock    func(svc *ordermocks.MockService)
		wantErr bool
	}{
		{
			name: "支付成功",
			evt:  PaymentEvent{OrderID: 1001, Provider: "stripe", Reference: "pi_1", Status: PaymentStatusSucceeded, Amount: "33.55"},
			mock: func(svc *ordermocks.MockService) {
				svc.EXPECT().MarkPaid(gomock.Any(), int64(1001), gomock.Any()).
					DoAndReturn(func(ctx context.Context, oid int64, r domain.PaymentResult) (bool, error) {
						assert.Equal(t, "pi_1", r.Reference)
						assert.True(t, r.Amount.Equal(decimal.RequireFromString("33.55")))
						return true, nil
					})
			},
		},
		{
			name: "重复回调",
			evt:  PaymentEvent{OrderID: 1001, Reference: "pi_1", Status: PaymentStatusSucceeded, Amount: "33.55"},
			mock: func(svc *ordermocks.MockService) {
				svc.EXPECT().MarkPaid(gomock.Any(), int64(1001), gomock.Any()).Return(false, nil)
			},
		},
		{
			name: "订单不存在，直接确认",
			evt:  PaymentEvent{OrderID: 404, Reference: "pi_2", Status: PaymentStatusSucceeded, Amount: "1.00"},
			mock: func(svc *ordermocks.MockService) {
				svc.EXPECT().MarkPaid(gomock.Any(), int64(404), gomock.Any()).
					Return(false, &domain.NotFoundError{Resource: "order", ID: 404})
			},
		},
		{
			name: "数据库错误，等待重试",
			evt:  PaymentEvent{OrderID: 1001, Reference: "pi_1", Status: PaymentStatusSucceeded, Amount: "33.55"},
			mock: func(svc *ordermocks.MockService) {
				svc.EXPECT().MarkPaid(gomock.Any(), int64(1001), gomock.Any()).Return(false, errors.New("数据库错误"))
			},
			wantErr: true,
		},
		{
			name: "支付失败事件",
			evt:  PaymentEvent{OrderID: 1001, Reference: "pi_1", Status: "payment_failed"},
			mock: func(svc *ordermocks.MockService) {},
		},
		{
			name:    "金额格式错误",
			evt:     PaymentEvent{OrderID: 1001, Reference: "pi_1", Status: PaymentStatusSucceeded, Amount: "abc"},
			mock:    func(svc *ordermocks.MockService) {},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc := ordermocks.NewMockService(ctrl)
			tc.mock(svc)
			c := &PaymentEventConsumer{svc: svc, logger: elog.DefaultLogger}
			err := c.handle(context.Background(), tc.evt)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
