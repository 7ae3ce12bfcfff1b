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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/webmall/internal/email"
	emailmocks "github.com/ecodeclub/webmall/internal/email/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func fixedInterval(interval time.Duration, max int32) func() retry.Strategy {
	return func() retry.Strategy {
		s, err := retry.NewFixedIntervalRetryStrategy(interval, max)
		if err != nil {
			panic(err)
		}
		return s
	}
}

func TestService_SendMail(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      func() (context.Context, context.CancelFunc)
		mock     func(svc *emailmocks.MockService)
		interval time.Duration
		wantErr  error
	}{
		{
			name: "首次发送成功",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), time.Second)
			},
			mock: func(svc *emailmocks.MockService) {
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "重试后成功",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), time.Second)
			},
			mock: func(svc *emailmocks.MockService) {
				first := svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(errors.New("smtp 421")).Times(2)
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(nil).After(first)
			},
		},
		{
			name: "超时不重试",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), time.Second)
			},
			mock: func(svc *emailmocks.MockService) {
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)
			},
			wantErr: context.DeadlineExceeded,
		},
		{
			name: "重试次数耗尽",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), time.Second)
			},
			mock: func(svc *emailmocks.MockService) {
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(errors.New("smtp 421")).Times(4)
			},
			wantErr: ErrOverRetryTimes,
		},
		{
			name: "等待重试时被取消",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
			mock: func(svc *emailmocks.MockService) {
				svc.EXPECT().SendMail(gomock.Any(), gomock.Any()).Return(errors.New("smtp 421"))
			},
			interval: time.Second,
			wantErr:  context.DeadlineExceeded,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSvc := emailmocks.NewMockService(ctrl)
			tc.mock(mockSvc)
			interval := tc.interval
			if interval == 0 {
				interval = 10 * time.Millisecond
			}
			svc := NewService(mockSvc, fixedInterval(interval, 3))
			ctx, cancel := tc.ctx()
			defer cancel()
			err := svc.SendMail(ctx, email.Mail{To: "a@b.com", Subject: "hi"})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
