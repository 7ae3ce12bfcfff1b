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
	"testing"

	"github.com/alicebob/miniredis/v2"
	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCache_FirstPage(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewReviewCache(eredis.NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	ctx := context.Background()

	_, err := c.GetFirstPage(ctx, 1)
	assert.ErrorIs(t, err, ErrFirstPageNotFound)

	page := FirstPage{
		Total: 2,
		Reviews: []domain.Review{
			{ID: 2, ProductID: 1, Uid: 11, Rating: 5, Comment: "很好", Verified: true, Ctime: 2},
			{ID: 1, ProductID: 1, Uid: 10, Rating: 3, Comment: "一般", Verified: true, Ctime: 1},
		},
	}
	require.NoError(t, c.SetFirstPage(ctx, 1, page))
	assert.True(t, mr.Exists("review:product:1:first"))

	got, err := c.GetFirstPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, page, got)

	require.NoError(t, c.DelFirstPage(ctx, 1))
	_, err = c.GetFirstPage(ctx, 1)
	assert.ErrorIs(t, err, ErrFirstPageNotFound)
	// 删除不存在的 key 不报错
	assert.NoError(t, c.DelFirstPage(ctx, 2))
}
