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
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	"github.com/pkg/errors"
)

const (
	// FirstPageSize 商品详情页默认展示的评价条数
	FirstPageSize    = 10
	reviewExpiration = 24 * time.Hour
)

var ErrFirstPageNotFound = errors.New("评价首页缓存不存在")

type FirstPage struct {
	Total   int64
	Reviews []domain.Review
}

// ReviewCache 只缓存商品评价的第一页，任何评价变更都直接删除
type ReviewCache interface {
	SetFirstPage(ctx context.Context, productID int64, page FirstPage) error
	GetFirstPage(ctx context.Context, productID int64) (FirstPage, error)
	DelFirstPage(ctx context.Context, productID int64) error
}

type reviewCache struct {
	ec ecache.Cache
}

func NewReviewCache(ec ecache.Cache) ReviewCache {
	return &reviewCache{
		ec: &ecache.NamespaceCache{
			C:         ec,
			Namespace: "review:",
		},
	}
}

func (r *reviewCache) SetFirstPage(ctx context.Context, productID int64, page FirstPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return errors.Wrap(err, "序列化评价失败")
	}
	return r.ec.Set(ctx, r.firstPageKey(productID), string(data), reviewExpiration)
}

func (r *reviewCache) GetFirstPage(ctx context.Context, productID int64) (FirstPage, error) {
	val := r.ec.Get(ctx, r.firstPageKey(productID))
	if val.KeyNotFound() {
		return FirstPage{}, ErrFirstPageNotFound
	}
	if val.Err != nil {
		return FirstPage{}, errors.Wrap(val.Err, "查询缓存出错")
	}
	var page FirstPage
	err := json.Unmarshal([]byte(val.Val.(string)), &page)
	if err != nil {
		return FirstPage{}, errors.Wrap(err, "反序列化评价失败")
	}
	return page, nil
}

func (r *reviewCache) DelFirstPage(ctx context.Context, productID int64) error {
	_, err := r.ec.Delete(ctx, r.firstPageKey(productID))
	return err
}

func (r *reviewCache) firstPageKey(productID int64) string {
	return fmt.Sprintf("product:%d:first", productID)
}
