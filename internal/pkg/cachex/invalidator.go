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

package cachex

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	scanCount = 200
	delBatch  = 500
)

// Invalidator 按 key 或 glob 模式失效缓存
//
//go:generate mockgen -source=./invalidator.go -package=cachexmocks -destination=./mocks/invalidator.mock.go Invalidator
type Invalidator interface {
	Invalidate(ctx context.Context, patterns ...string) error
}

// RedisInvalidator 模式中的通配符通过 SCAN 展开，普通 key 直接删除。
// namespace 与 ecache.NamespaceCache 的前缀保持一致。
type RedisInvalidator struct {
	cmd       redis.Cmdable
	namespace string
}

func NewRedisInvalidator(cmd redis.Cmdable, namespace string) *RedisInvalidator {
	return &RedisInvalidator{cmd: cmd, namespace: namespace}
}

func (r *RedisInvalidator) Invalidate(ctx context.Context, patterns ...string) error {
	keys := make([]string, 0, len(patterns))
	for _, p := range patterns {
		full := r.namespace + p
		if !strings.ContainsAny(p, "*?[") {
			keys = append(keys, full)
			continue
		}
		iter := r.cmd.Scan(ctx, 0, full, scanCount).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("扫描缓存 key 失败 pattern=%s: %w", full, err)
		}
	}
	for start := 0; start < len(keys); start += delBatch {
		end := min(start+delBatch, len(keys))
		if err := r.cmd.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("删除缓存失败: %w", err)
		}
	}
	return nil
}
