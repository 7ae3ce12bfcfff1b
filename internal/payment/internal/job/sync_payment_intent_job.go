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
	"fmt"
	"time"

	"github.com/ecodeclub/webmall/internal/payment/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*SyncPaymentIntentJob)(nil)

// SyncPaymentIntentJob 兜底丢失的 webhook，主动查询渠道侧的支付状态
type SyncPaymentIntentJob struct {
	svc     service.Service
	minutes int64
	limit   int
	l       *elog.Component
}

func NewSyncPaymentIntentJob(svc service.Service, minutes int64, limit int) *SyncPaymentIntentJob {
	return &SyncPaymentIntentJob{
		svc:     svc,
		minutes: minutes,
		limit:   limit,
		l:       elog.DefaultLogger}
}

func (s *SyncPaymentIntentJob) Name() string {
	return "sync_payment_intent_job"
}

func (s *SyncPaymentIntentJob) Run(ctx context.Context) error {
	ctime := time.Now().Add(time.Duration(-s.minutes) * time.Minute).UnixMilli()
	confirmed, err := s.svc.SyncPending(ctx, ctime, s.limit)
	if confirmed > 0 {
		s.l.Info("同步到支付成功的记录", elog.Int("count", confirmed))
	}
	if err != nil {
		return fmt.Errorf("同步支付状态失败: %w", err)
	}
	return nil
}
