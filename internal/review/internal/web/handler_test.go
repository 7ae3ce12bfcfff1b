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
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	"github.com/ecodeclub/webmall/internal/review/internal/errs"
	"github.com/ecodeclub/webmall/internal/review/internal/service"
	reviewmocks "github.com/ecodeclub/webmall/internal/review/mocks"
	"github.com/ecodeclub/webmall/internal/test"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServer(svc service.ReviewSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(test.SessionMiddleware(100, middleware.RoleCustomer))
	hdl := NewHandler(svc)
	hdl.PublicRoutes(server)
	hdl.PrivateRoutes(server)
	return server
}

func TestHandler_Save(t *testing.T) {
	testCases := []struct {
		name     string
		mock     func(svc *reviewmocks.MockReviewSvc)
		wantHTTP int
		wantCode int
	}{
		{
			name: "保存成功",
			mock: func(svc *reviewmocks.MockReviewSvc) {
				svc.EXPECT().Save(gomock.Any(), domain.Review{
					ProductID: 1, Uid: 100, Rating: 5, Comment: "很好",
				}).Return(int64(3), nil)
			},
			wantHTTP: http.StatusOK,
			wantCode: 0,
		},
		{
			name: "没有购买",
			mock: func(svc *reviewmocks.MockReviewSvc) {
				svc.EXPECT().Save(gomock.Any(), gomock.Any()).Return(int64(0), service.ErrNotPurchased)
			},
			wantHTTP: http.StatusOK,
			wantCode: errs.NotPurchased.Code,
		},
		{
			name: "重复评价",
			mock: func(svc *reviewmocks.MockReviewSvc) {
				svc.EXPECT().Save(gomock.Any(), gomock.Any()).Return(int64(0), service.ErrDuplicateReview)
			},
			wantHTTP: http.StatusOK,
			wantCode: errs.Duplicate.Code,
		},
		{
			name: "系统错误",
			mock: func(svc *reviewmocks.MockReviewSvc) {
				svc.EXPECT().Save(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("mock db error"))
			},
			wantHTTP: http.StatusInternalServerError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := reviewmocks.NewMockReviewSvc(ctrl)
			tc.mock(svc)
			server := newTestServer(svc)

			req, err := http.NewRequest(http.MethodPost, "/review/save",
				iox.NewJSONReader(SaveReq{ProductID: 1, Rating: 5, Comment: "很好"}))
			require.NoError(t, err)
			req.Header.Set("content-type", "application/json")
			recorder := test.NewJSONResponseRecorder[int64]()
			server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantHTTP, recorder.Code)
			if tc.wantHTTP != http.StatusOK {
				return
			}
			assert.Equal(t, tc.wantCode, recorder.MustScan().Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := reviewmocks.NewMockReviewSvc(ctrl)
	server := newTestServer(svc)
	svc.EXPECT().List(gomock.Any(), int64(1), 0, 0, defaultPageSize).Return(int64(1), []domain.Review{
		{ID: 5, ProductID: 1, Uid: 9, Rating: 4, Comment: "不错", Verified: true},
	}, nil)

	req, err := http.NewRequest(http.MethodPost, "/review/list", iox.NewJSONReader(ListReq{ProductID: 1}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder := test.NewJSONResponseRecorder[ReviewListResp]()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	res := recorder.MustScan()
	assert.Equal(t, ReviewListResp{
		Total: 1,
		List:  []Review{{ID: 5, ProductID: 1, Uid: 9, Rating: 4, Comment: "不错", Verified: true}},
	}, res.Data)

	// 评分过滤超出范围直接拒绝
	req, err = http.NewRequest(http.MethodPost, "/review/list", iox.NewJSONReader(ListReq{ProductID: 1, Rating: 6}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder = test.NewJSONResponseRecorder[ReviewListResp]()
	server.ServeHTTP(recorder, req)
	assert.Equal(t, errs.InvalidInput.Code, recorder.MustScan().Code)
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, defaultPageSize, pageSize(0))
	assert.Equal(t, 20, pageSize(20))
	assert.Equal(t, maxPageSize, pageSize(500))
}
