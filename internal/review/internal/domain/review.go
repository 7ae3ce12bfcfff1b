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

package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrInvalidReview = errors.New("评价信息不合法")

// Review 每个用户对同一个商品只有一条评价
type Review struct {
	ID        int64
	ProductID int64
	Uid       int64
	Rating    int
	Comment   string
	// 只有购买过的用户能评价，所以目前都是 true
	Verified bool
	Ctime    int64
	Utime    int64
}

func (r Review) Validate() error {
	if r.ProductID <= 0 || r.Uid <= 0 {
		return ErrInvalidReview
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidReview
	}
	if strings.TrimSpace(r.Comment) == "" {
		return ErrInvalidReview
	}
	return nil
}

type Summary struct {
	Average float64
	Count   int64
}

// Summarize 平均分四舍五入保留一位小数，没有评价时为 0
func Summarize(ratings []int) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	cnt := int64(len(ratings))
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(cnt)).Round(1)
	return Summary{
		Average: avg.InexactFloat64(),
		Count:   cnt,
	}
}
