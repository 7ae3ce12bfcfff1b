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
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/pkg/errors"
)

const detailExpiration = 30 * time.Minute

var ErrProductNotFound = errors.New("商品缓存不存在")

type ProductCache interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	Set(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, ids ...int64) error
}

type productCache struct {
	ec ecache.Cache
}

func NewProductCache(ec ecache.Cache) ProductCache {
	return &productCache{
		ec: &ecache.NamespaceCache{
			C:         ec,
			Namespace: "product:",
		},
	}
}

func (c *productCache) Get(ctx context.Context, id int64) (domain.Product, error) {
	val := c.ec.Get(ctx, c.detailKey(id))
	if val.KeyNotFound() {
		return domain.Product{}, ErrProductNotFound
	}
	if val.Err != nil {
		return domain.Product{}, errors.Wrap(val.Err, "查询缓存出错")
	}
	var p domain.Product
	err := json.Unmarshal([]byte(val.Val.(string)), &p)
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "反序列化商品失败")
	}
	return p, nil
}

func (c *productCache) Set(ctx context.Context, p domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "序列化商品失败")
	}
	return c.ec.Set(ctx, c.detailKey(p.ID), string(data), detailExpiration)
}

func (c *productCache) Delete(ctx context.Context, ids ...int64) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.detailKey(id))
	}
	_, err := c.ec.Delete(ctx, keys...)
	return err
}

// detailKey 订单模块按 product:detail:<id> 失效该缓存
func (c *productCache) detailKey(id int64) string {
	return fmt.Sprintf("detail:%d", id)
}
