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

package testioc

import (
	"sync"

	"github.com/ecodeclub/ecache"
	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/ecodeclub/webmall/internal/pkg/cachex"
	"github.com/redis/go-redis/v9"
)

const Namespace = "webmall:"

var (
	cmd           redis.Cmdable
	redisInitOnce sync.Once
)

func InitRedis() redis.Cmdable {
	redisInitOnce.Do(func() {
		cmd = redis.NewClient(&redis.Options{
			Addr: "localhost:6379",
		})
	})
	return cmd
}

func InitCache() ecache.Cache {
	return &ecache.NamespaceCache{
		C:         eredis.NewCache(InitRedis()),
		Namespace: Namespace,
	}
}

func InitInvalidator() cachex.Invalidator {
	return cachex.NewRedisInvalidator(InitRedis(), Namespace)
}
