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

package web

import (
	"errors"
	"strings"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/shopspring/decimal"
)

type IDReq struct {
	ID int64 `json:"id"`
}

type Page struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

// ListReq 价格使用字符串，避免浮点误差
type ListReq struct {
	Keyword   string  `json:"keyword,omitempty"`
	Category  string  `json:"category,omitempty"`
	VendorID  int64   `json:"vendorId,omitempty"`
	MinPrice  string  `json:"minPrice,omitempty"`
	MaxPrice  string  `json:"maxPrice,omitempty"`
	MinRating float64 `json:"rating,omitempty"`
	Sort      string  `json:"sort,omitempty"`
	Offset    int     `json:"offset,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

var errInvalidQuery = errors.New("查询条件不合法")

func (r ListReq) toQuery() (domain.Query, error) {
	q := domain.Query{
		Keyword:   strings.TrimSpace(r.Keyword),
		Category:  r.Category,
		VendorID:  r.VendorID,
		MinRating: r.MinRating,
		Offset:    r.Offset,
		Limit:     pageSize(r.Limit),
	}
	if r.Offset < 0 || r.MinRating < 0 || r.MinRating > 5 {
		return domain.Query{}, errInvalidQuery
	}
	var err error
	if q.MinPrice, err = parsePrice(r.MinPrice); err != nil {
		return domain.Query{}, err
	}
	if q.MaxPrice, err = parsePrice(r.MaxPrice); err != nil {
		return domain.Query{}, err
	}
	if q.MinPrice.Valid && q.MaxPrice.Valid && q.MinPrice.Decimal.GreaterThan(q.MaxPrice.Decimal) {
		return domain.Query{}, errInvalidQuery
	}
	sort, ok := domain.ParseSortBy(r.Sort)
	if !ok {
		return domain.Query{}, errInvalidQuery
	}
	// 搜索时默认按相关度排序
	if r.Sort == "" && q.HasKeyword() {
		sort = domain.SortRelevance
	}
	q.Sort = sort
	return q, nil
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, errInvalidQuery
	}
	return decimal.NewNullDecimal(d), nil
}

type Product struct {
	ID                int64     `json:"id,omitempty"`
	VendorID          int64     `json:"vendorId,omitempty"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ShortDescription  string    `json:"shortDescription,omitempty"`
	Category          string    `json:"category,omitempty"`
	Images            []string  `json:"images,omitempty"`
	Price             string    `json:"price"`
	CompareAtPrice    string    `json:"compareAtPrice,omitempty"`
	Stock             int64     `json:"stock"`
	TotalStock        int64     `json:"totalStock,omitempty"`
	HasVariants       bool      `json:"hasVariants,omitempty"`
	LowStockThreshold int64     `json:"lowStockThreshold,omitempty"`
	Sales             int64     `json:"sales,omitempty"`
	Variants          []Variant `json:"variants,omitempty"`
	Rating            float64   `json:"rating,omitempty"`
	RatingCount       int64     `json:"ratingCount,omitempty"`
	IsActive          bool      `json:"isActive,omitempty"`
	Utime             int64     `json:"utime,omitempty"`
}

type Variant struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	SKU      string `json:"sku,omitempty"`
	Price    string `json:"price"`
	Stock    int64  `json:"stock"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
}

type ProductList struct {
	Total    int64     `json:"total"`
	Products []Product `json:"products"`
}

func newProduct(p domain.Product) Product {
	return Product{
		ID:                p.ID,
		VendorID:          p.VendorID,
		Name:              p.Name,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		Category:          p.Category,
		Images:            p.Images,
		Price:             p.Price.StringFixed(2),
		CompareAtPrice:    p.CompareAtPrice.StringFixed(2),
		Stock:             p.Stock,
		TotalStock:        p.TotalStock(),
		HasVariants:       p.HasVariants(),
		LowStockThreshold: p.LowStockThreshold,
		Sales:             p.Sales,
		Variants: slice.Map(p.Variants, func(idx int, src domain.Variant) Variant {
			return Variant{
				ID:       src.ID,
				Name:     src.Name,
				SKU:      src.SKU,
				Price:    src.Price.StringFixed(2),
				Stock:    src.Stock,
				Size:     src.Attributes.Size,
				Color:    src.Attributes.Color,
				Material: src.Attributes.Material,
			}
		}),
		Rating:      p.Ratings.Average,
		RatingCount: p.Ratings.Count,
		IsActive:    p.IsActive,
		Utime:       p.Utime,
	}
}

func (p Product) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return domain.Product{}, err
	}
	compareAt := decimal.Zero
	if p.CompareAtPrice != "" {
		compareAt, err = decimal.NewFromString(p.CompareAtPrice)
		if err != nil {
			return domain.Product{}, err
		}
	}
	variants := make([]domain.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		vp, er := decimal.NewFromString(v.Price)
		if er != nil {
			return domain.Product{}, er
		}
		variants = append(variants, domain.Variant{
			ID:    v.ID,
			Name:  v.Name,
			SKU:   v.SKU,
			Price: vp,
			Stock: v.Stock,
			Attributes: domain.Attributes{
				Size:     v.Size,
				Color:    v.Color,
				Material: v.Material,
			},
		})
	}
	return domain.Product{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		Category:          p.Category,
		Images:            p.Images,
		Price:             price,
		CompareAtPrice:    compareAt,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Variants:          variants,
	}, nil
}
