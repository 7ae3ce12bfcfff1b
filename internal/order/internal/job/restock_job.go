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

	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*RestockJob)(nil)

// RestockJob 继续执行回补失败的库存
type RestockJob struct {
	svc     service.Service
	limit   int
	timeout time.Duration
	logger  *elog.Component
}

func NewRestockJob(svc service.Service, limit int, timeout time.Duration) *RestockJob {
	return &RestockJob{
		svc:     svc,
		limit:   limit,
		timeout: timeout,
		logger:  elog.DefaultLogger,
	}
}

func (r *RestockJob) Name() string {
	return "RestockJob"
}

func (r *RestockJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	restored, err := r.svc.RetryRestock(ctx, r.limit)
	if restored > 0 {
		r.logger.Info("回补库存", elog.Int("count", restored))
	}
	if err != nil {
		return fmt.Errorf("执行回补任务失败: %w", err)
	}
	return nil
}
