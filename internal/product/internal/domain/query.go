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

import "github.com/shopspring/decimal"

type SortBy uint8

const (
	// SortNewest 默认排序，按上架时间倒序
	SortNewest SortBy = iota
	SortPriceAsc
	SortPriceDesc
	SortRating
	SortSales
	// SortRelevance 只在关键字搜索时有意义，否则退化为 SortNewest
	SortRelevance
)

var sortNames = map[string]SortBy{
	"newest":     SortNewest,
	"price_asc":  SortPriceAsc,
	"price_desc": SortPriceDesc,
	"rating":     SortRating,
	"sales":      SortSales,
	"relevance":  SortRelevance,
}

// ParseSortBy 空字符串使用默认排序
func ParseSortBy(s string) (SortBy, bool) {
	if s == "" {
		return SortNewest, true
	}
	res, ok := sortNames[s]
	return res, ok
}

// Query 商品列表的筛选条件，零值表示不过滤
type Query struct {
	Keyword   string
	Category  string
	VendorID  int64
	MinPrice  decimal.NullDecimal
	MaxPrice  decimal.NullDecimal
	MinRating float64
	Sort      SortBy
	Offset    int
	Limit     int
}

func (q Query) HasKeyword() bool {
	return q.Keyword != ""
}
