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
package web

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecodeclub/ginx/gctx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/errs"
	ordermocks "github.com/ecodeclub/webmall/internal/order/mocks"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWriteOrdersCSV(t *testing.T) {
	orders := []domain.Order{
		{
			SN:            "ORD-202610-AAAAAAAA",
			BuyerID:       42,
			ContactEmail:  "buyer@example.com",
			Status:        domain.StatusProcessing,
			PaymentMethod: "stripe",
			IsPaid:        true,
			Items: []domain.Item{
				{Name: "T-Shirt", VariantName: "M", Quantity: 2, Price: decimal.RequireFromString("12")},
				{Name: "Mug, large", Quantity: 1, Price: decimal.RequireFromString("5.5")},
			},
			ShippingAddress: domain.Address{
				Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
			},
			Pricing: domain.Pricing{
				ItemsPrice:     decimal.RequireFromString("29.5"),
				TaxPrice:       decimal.RequireFromString("2"),
				ShippingPrice:  decimal.RequireFromString("5"),
				DiscountAmount: decimal.RequireFromString("2.95"),
				TotalPrice:     decimal.RequireFromString("33.55"),
			},
			Ctime: 1_700_000_000_000,
		},
		{
			SN:            "ORD-202610-BBBBBBBB",
			BuyerID:       43,
			Status:        domain.StatusPending,
			PaymentMethod: "stripe",
			Ctime:         1_700_000_000_000,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeOrdersCSV(&buf, orders))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"ORD-202610-AAAAAAAA", "42", "buyer@example.com", "processing", "stripe", "Paid",
		"T-Shirt - M (Qty: 2 @ 12.00); Mug, large (Qty: 1 @ 5.50)",
		"29.50", "2.00", "5.00", "2.95", "33.55",
		"1 Main St, Springfield, IL 62701, US", "2023-11-14",
	}, records[1])
	assert.Equal(t, "Pending", records[2][5])
	assert.Equal(t, "", records[2][6])
}

func vendorOrders() []domain.Order {
	return []domain.Order{
		{
			SN:      "ORD-202610-AAAAAAAA",
			BuyerID: 42,
			Status:  domain.StatusProcessing,
			IsPaid:  true,
			Items: []domain.Item{
				{Name: "T-Shirt", VariantName: "M", VendorID: 7, Quantity: 2, Price: decimal.RequireFromString("12")},
				{Name: "Mug", VendorID: 8, Quantity: 1, Price: decimal.RequireFromString("5.5")},
				{Name: "Cap", VendorID: 7, Quantity: 1, Price: decimal.RequireFromString("3")},
			},
			ShippingAddress: domain.Address{
				Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
			},
			Pricing: domain.Pricing{TotalPrice: decimal.RequireFromString("44.5")},
			Ctime:   1_700_000_000_000,
		},
		{
			SN:      "ORD-202610-BBBBBBBB",
			BuyerID: 43,
			Status:  domain.StatusPending,
			Items:   []domain.Item{{Name: "Mug", VendorID: 8, Quantity: 1, Price: decimal.RequireFromString("5.5")}},
			Ctime:   1_700_000_000_000,
		},
	}
}

func TestWriteVendorOrdersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeVendorOrdersCSV(&buf, 7, vendorOrders()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// 第二个订单没有商家 7 的商品，不导出
	require.Len(t, records, 2)
	assert.Equal(t, vendorCSVHeader, records[0])
	assert.Equal(t, []string{
		"ORD-202610-AAAAAAAA", "42", "processing", "Paid",
		"T-Shirt - M (Qty: 2 @ 12.00); Cap (Qty: 1 @ 3.00)",
		"27.00", "1 Main St, Springfield, IL 62701, US", "2023-11-14",
	}, records[1])
}

type fakeProvider struct {
	session.Provider
	sess session.Session
	err  error
}

func (f *fakeProvider) Get(_ *gctx.Context) (session.Session, error) {
	return f.sess, f.err
}

func TestHandler_VendorExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	old := session.DefaultProvider()
	defer session.SetDefaultProvider(old)

	testCases := []struct {
		name     string
		mock     func(ctrl *gomock.Controller) *ordermocks.MockService
		sp       session.Provider
		query    string
		wantCode int
		wantRows int
	}{
		{
			name: "只导出自己的订单",
			mock: func(ctrl *gomock.Controller) *ordermocks.MockService {
				svc := ordermocks.NewMockService(ctrl)
				svc.EXPECT().ListByVendor(gomock.Any(), int64(8), domain.StatusPending, 0, exportBatchSize).
					Return(vendorOrders(), int64(2), nil)
				return svc
			},
			sp: &fakeProvider{sess: session.NewMemorySession(session.Claims{
				Uid:  8,
				Data: map[string]string{"role": "vendor"},
			})},
			query:    "?status=pending",
			wantCode: http.StatusOK,
			wantRows: 3,
		},
		{
			name: "未登录",
			mock: func(ctrl *gomock.Controller) *ordermocks.MockService {
				return ordermocks.NewMockService(ctrl)
			},
			sp:       &fakeProvider{err: errors.New("mock no session")},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "状态非法",
			mock: func(ctrl *gomock.Controller) *ordermocks.MockService {
				return ordermocks.NewMockService(ctrl)
			},
			sp: &fakeProvider{sess: session.NewMemorySession(session.Claims{
				Uid:  8,
				Data: map[string]string{"role": "vendor"},
			})},
			query:    "?status=unknown",
			wantCode: http.StatusBadRequest,
		},
		{
			name: "查询失败",
			mock: func(ctrl *gomock.Controller) *ordermocks.MockService {
				svc := ordermocks.NewMockService(ctrl)
				svc.EXPECT().ListByVendor(gomock.Any(), int64(8), gomock.Any(), 0, exportBatchSize).
					Return(nil, int64(0), errors.New("mock db error"))
				return svc
			},
			sp: &fakeProvider{sess: session.NewMemorySession(session.Claims{
				Uid:  8,
				Data: map[string]string{"role": "vendor"},
			})},
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			session.SetDefaultProvider(tc.sp)
			hdl := NewHandler(tc.mock(ctrl), nil)
			server := gin.New()
			server.GET("/order/vendor/export", hdl.VendorExport)

			req := httptest.NewRequest(http.MethodGet, "/order/vendor/export"+tc.query, nil)
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantCode, recorder.Code)
			if tc.wantCode != http.StatusOK {
				return
			}
			records, err := csv.NewReader(recorder.Body).ReadAll()
			require.NoError(t, err)
			assert.Len(t, records, tc.wantRows)
			assert.Equal(t, "Mug (Qty: 1 @ 5.50)", records[1][4])
			assert.Equal(t, "5.50", records[2][5])
		})
	}
}

func TestErrorResult(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantErr  bool
	}{
		{
			name:     "库存不足",
			err:      fmt.Errorf("预留库存: %w", &domain.InsufficientStockError{ProductID: 1, Name: "T-Shirt", Requested: 3}),
			wantCode: errs.InsufficientStock.Code,
			wantMsg:  errs.InsufficientStock.Msg,
		},
		{
			name:     "优惠券不可用",
			err:      &domain.CouponInvalidError{Code: "SAVE10", Reason: "优惠券已过期"},
			wantCode: errs.CouponInvalid.Code,
			wantMsg:  "优惠券已过期",
		},
		{
			name:     "订单不存在",
			err:      &domain.NotFoundError{Resource: "order", ID: 1},
			wantCode: errs.OrderNotFound.Code,
			wantMsg:  errs.OrderNotFound.Msg,
		},
		{
			name:     "商品不存在",
			err:      &domain.NotFoundError{Resource: "variant", ID: 12},
			wantCode: errs.ProductNotFound.Code,
			wantMsg:  errs.ProductNotFound.Msg,
		},
		{
			name:     "非法状态流转",
			err:      domain.ErrInvalidTransition,
			wantCode: errs.IllegalTransition.Code,
			wantMsg:  errs.IllegalTransition.Msg,
		},
		{
			name:     "参数错误",
			err:      domain.ErrEmptyOrder,
			wantCode: errs.InvalidInput.Code,
			wantMsg:  errs.InvalidInput.Msg,
		},
		{
			name:     "无权操作",
			err:      domain.ErrUnauthorized,
			wantCode: errs.Unauthorized.Code,
			wantMsg:  errs.Unauthorized.Msg,
		},
		{
			name:     "并发冲突",
			err:      domain.ErrConflict,
			wantCode: errs.Conflict.Code,
			wantMsg:  errs.Conflict.Msg,
		},
		{
			name:     "系统错误",
			err:      errors.New("mock db error"),
			wantCode: errs.SystemError.Code,
			wantMsg:  errs.SystemError.Msg,
			wantErr:  true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := errorResult(tc.err)
			assert.Equal(t, tc.wantErr, err != nil)
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, tc.wantMsg, res.Msg)
		})
	}
}

func TestCreateOrderReq_toService(t *testing.T) {
	req := CreateOrderReq{
		Items:      []ItemReq{{ProductID: 1, VariantID: 11, Quantity: 2}},
		ItemsPrice: "24.00",
		TaxPrice:   "1.5",
		TotalPrice: "25.50",
	}
	r, err := req.toService(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), r.BuyerID)
	assert.Equal(t, defaultPaymentMethod, r.PaymentMethod)
	assert.True(t, r.Pricing.ShippingPrice.IsZero())
	assert.Equal(t, "25.50", r.Pricing.TotalPrice.StringFixed(2))

	req.TaxPrice = "abc"
	_, err = req.toService(42)
	assert.Error(t, err)
}
