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

package sequencenumber

import (
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

const suffixLength = 8

type TimeFunc func() time.Time

type ShortUUIDGenerateFunc func() string

// Generator 生成形如 ORD-202610-7KQ2MZ4X 的订单号
// 唯一性由存储层唯一索引保证，调用方冲突后重新生成即可
type Generator struct {
	prefix           string
	nowFunc          TimeFunc
	shortUUIDGenFunc ShortUUIDGenerateFunc
}

func NewGeneratorWith(prefix string, now TimeFunc, uuidGen ShortUUIDGenerateFunc) *Generator {
	return &Generator{
		prefix:           prefix,
		nowFunc:          now,
		shortUUIDGenFunc: uuidGen,
	}
}

func NewGenerator(prefix string) *Generator {
	return NewGeneratorWith(prefix, time.Now, func() string { return shortuuid.New() })
}

func (s *Generator) Generate() string {
	month := s.nowFunc().Format("200601")
	suffix := s.shortUUIDGenFunc()
	for len(suffix) < suffixLength {
		suffix += s.shortUUIDGenFunc()
	}
	return fmt.Sprintf("%s-%s-%s", s.prefix, month, strings.ToUpper(suffix[:suffixLength]))
}
