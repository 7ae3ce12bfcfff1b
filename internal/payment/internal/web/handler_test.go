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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	paymentmocks "github.com/ecodeclub/webmall/internal/payment/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_StripeWebhook(t *testing.T) {
	testCases := []struct {
		name     string
		mock     func(svc *paymentmocks.MockService)
		wantCode int
	}{
		{
			name: "处理成功",
			mock: func(svc *paymentmocks.MockService) {
				svc.EXPECT().HandleNotification(gomock.Any(), []byte(`{"id":"evt_1"}`), "t=1,v1=abc").Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "验签失败",
			mock: func(svc *paymentmocks.MockService) {
				svc.EXPECT().HandleNotification(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrInvalidSignature)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "处理失败",
			mock: func(svc *paymentmocks.MockService) {
				svc.EXPECT().HandleNotification(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("mock mq error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}
	gin.SetMode(gin.TestMode)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := paymentmocks.NewMockService(ctrl)
			tc.mock(svc)
			server := gin.New()
			NewHandler(svc).PublicRoutes(server)

			req, err := http.NewRequest(http.MethodPost, "/pay/stripe/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
			assert.NoError(t, err)
			req.Header.Set("Stripe-Signature", "t=1,v1=abc")
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)
			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}
