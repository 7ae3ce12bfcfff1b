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
package job

import (
	"context"
	"errors"
	"testing"
	"time"

	paymentmocks "github.com/ecodeclub/webmall/internal/payment/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestSyncPaymentIntentJob_Run(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(svc *paymentmocks.MockService)
		wantErr bool
	}{
		{
			name: "同步成功",
			mock: func(svc *paymentmocks.MockService) {
				svc.EXPECT().SyncPending(gomock.Any(), gomock.Any(), 50).
					DoAndReturn(func(ctx context.Context, ctime int64, limit int) (int, error) {
						// 只同步 10 分钟之前创建的记录
						assert.Less(t, ctime, time.Now().Add(-9*time.Minute).UnixMilli())
						return 2, nil
					})
			},
		},
		{
			name: "同步失败",
			mock: func(svc *paymentmocks.MockService) {
				svc.EXPECT().SyncPending(gomock.Any(), gomock.Any(), 50).Return(0, errors.New("mock db error"))
			},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := paymentmocks.NewMockService(ctrl)
			tc.mock(svc)
			err := NewSyncPaymentIntentJob(svc, 10, 50).Run(context.Background())
			assert.Equal(t, tc.wantErr, err != nil)
		})
	}
}
