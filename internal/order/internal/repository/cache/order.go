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
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/pkg/errors"
)

const detailExpiration = 10 * time.Minute

var ErrOrderNotFound = errors.New("订单缓存不存在")

type OrderCache interface {
	Get(ctx context.Context, id int64) (domain.Order, error)
	Set(ctx context.Context, o domain.Order) error
	Delete(ctx context.Context, id int64) error
}

type orderCache struct {
	ec ecache.Cache
}

func NewOrderCache(ec ecache.Cache) OrderCache {
	return &orderCache{
		ec: &ecache.NamespaceCache{
			C:         ec,
			Namespace: "order:",
		},
	}
}

func (c *orderCache) Get(ctx context.Context, id int64) (domain.Order, error) {
	val := c.ec.Get(ctx, c.detailKey(id))
	if val.KeyNotFound() {
		return domain.Order{}, ErrOrderNotFound
	}
	if val.Err != nil {
		return domain.Order{}, errors.Wrap(val.Err, "查询缓存出错")
	}
	var o domain.Order
	err := json.Unmarshal([]byte(val.Val.(string)), &o)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "反序列化订单失败")
	}
	return o, nil
}

func (c *orderCache) Set(ctx context.Context, o domain.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "序列化订单失败")
	}
	return c.ec.Set(ctx, c.detailKey(o.ID), string(data), detailExpiration)
}

func (c *orderCache) Delete(ctx context.Context, id int64) error {
	_, err := c.ec.Delete(ctx, c.detailKey(id))
	return err
}

// detailKey 会被 order:*:<id> 模式一并失效
func (c *orderCache) detailKey(id int64) string {
	return fmt.Sprintf("detail:%d", id)
}
