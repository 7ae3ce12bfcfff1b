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

	"github.com/ecodeclub/webmall/internal/order/internal/domain"
)

// Notifier 订单创建和状态变化时通知外部，失败只记录日志
type Notifier interface {
	OrderCreated(ctx context.Context, o domain.Order) error
	StatusChanged(ctx context.Context, o domain.Order, from domain.Status) error
}

type NopNotifier struct{}

func (NopNotifier) OrderCreated(ctx context.Context, o domain.Order) error {
	return nil
}

func (NopNotifier) StatusChanged(ctx context.Context, o domain.Order, from domain.Status) error {
	return nil
}

// SNGenerator 生成订单号，冲突由存储层唯一索引发现
type SNGenerator interface {
	Generate() string
}
