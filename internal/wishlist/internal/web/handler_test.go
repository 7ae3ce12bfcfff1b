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
	"errors"
	"net/http"
	"testing"

	"github.com/ecodeclub/ekit/iox"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/test"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/errs"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/service"
	wishlistmocks "github.com/ecodeclub/webmall/internal/wishlist/mocks"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServer(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(test.SessionMiddleware(100, middleware.RoleCustomer))
	hdl := NewHandler(svc)
	hdl.PublicRoutes(server)
	hdl.PrivateRoutes(server)
	return server
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := wishlistmocks.NewMockService(ctrl)
	server := newTestServer(svc)
	svc.EXPECT().List(gomock.Any(), int64(100)).Return([]product.Product{
		{
			ID:       3,
			Name:     "蓝牙耳机",
			Category: "audio",
			Price:    decimal.RequireFromString("99.9"),
			Stock:    5,
			Ratings:  product.Ratings{Average: 4.5, Count: 2},
			IsActive: true,
		},
	}, nil)

	req, err := http.NewRequest(http.MethodPost, "/wishlist/list", nil)
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[Wishlist]()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, Wishlist{
		Count: 1,
		Products: []Product{{
			ID:            3,
			Name:          "蓝牙耳机",
			Price:         "99.90",
			Category:      "audio",
			RatingAverage: 4.5,
			RatingCount:   2,
			Stock:         5,
		}},
	}, recorder.MustScan().Data)
}

func TestHandler_Add(t *testing.T) {
	testCases := []struct {
		name     string
		req      ProductReq
		mock     func(svc *wishlistmocks.MockService)
		wantHTTP int
		wantCode int
		wantIDs  []int64
	}{
		{
			name: "收藏成功",
			req:  ProductReq{ProductID: 3},
			mock: func(svc *wishlistmocks.MockService) {
				svc.EXPECT().Add(gomock.Any(), int64(100), int64(3)).Return([]int64{3, 8}, nil)
			},
			wantHTTP: http.StatusOK,
			wantIDs:  []int64{3, 8},
		},
		{
			name:     "商品ID非法",
			req:      ProductReq{},
			mock:     func(svc *wishlistmocks.MockService) {},
			wantHTTP: http.StatusOK,
			wantCode: errs.InvalidInput.Code,
		},
		{
			name: "商品不存在",
			req:  ProductReq{ProductID: 3},
			mock: func(svc *wishlistmocks.MockService) {
				svc.EXPECT().Add(gomock.Any(), int64(100), int64(3)).Return(nil, service.ErrProductNotFound)
			},
			wantHTTP: http.StatusOK,
			wantCode: errs.ProductNotFound.Code,
		},
		{
			name: "商品已下架",
			req:  ProductReq{ProductID: 3},
			mock: func(svc *wishlistmocks.MockService) {
				svc.EXPECT().Add(gomock.Any(), int64(100), int64(3)).Return(nil, service.ErrProductUnavailable)
			},
			wantHTTP: http.StatusOK,
			wantCode: errs.ProductUnavailable.Code,
		},
		{
			name: "重复收藏",
			req:  ProductReq{ProductID: 3},
			mock: func(svc *wishlistmocks.MockService) {
				svc.EXPECT().Add(gomock.Any(), int64(100), int64(3)).Return(nil, service.ErrAlreadyInWishlist)
			},
			wantHTTP: http.StatusOK,
			wantCode: errs.AlreadyInWishlist.Code,
		},
		{
			name: "系统错误",
			req:  ProductReq{ProductID: 3},
			mock: func(svc *wishlistmocks.MockService) {
				svc.EXPECT().Add(gomock.Any(), int64(100), int64(3)).Return(nil, errors.New("mock db error"))
			},
			wantHTTP: http.StatusInternalServerError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := wishlistmocks.NewMockService(ctrl)
			tc.mock(svc)
			server := newTestServer(svc)

			req, err := http.NewRequest(http.MethodPost, "/wishlist/add", iox.NewJSONReader(tc.req))
			require.NoError(t, err)
			req.Header.Set("content-type", "application/json")
			recorder := test.NewJSONResponseRecorder[[]int64]()
			server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantHTTP, recorder.Code)
			if tc.wantHTTP != http.StatusOK {
				return
			}
			res := recorder.MustScan()
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, tc.wantIDs, res.Data)
		})
	}
}

func TestHandler_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := wishlistmocks.NewMockService(ctrl)
	server := newTestServer(svc)
	svc.EXPECT().Remove(gomock.Any(), int64(100), int64(3)).Return(nil, service.ErrNotInWishlist)

	req, err := http.NewRequest(http.MethodPost, "/wishlist/remove", iox.NewJSONReader(ProductReq{ProductID: 3}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder := test.NewJSONResponseRecorder[[]int64]()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, errs.NotInWishlist.Code, recorder.MustScan().Code)
}

func TestHandler_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := wishlistmocks.NewMockService(ctrl)
	server := newTestServer(svc)
	svc.EXPECT().Clear(gomock.Any(), int64(100)).Return(nil)

	req, err := http.NewRequest(http.MethodPost, "/wishlist/clear", nil)
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[[]int64]()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []int64{}, recorder.MustScan().Data)
}
