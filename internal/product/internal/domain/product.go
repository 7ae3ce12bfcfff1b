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
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64
	VendorID         int64
	Name             string
	Description      string
	ShortDescription string
	Category         string
	Images           []string
	Price            decimal.Decimal
	// 划线价，仅用于展示
	CompareAtPrice    decimal.Decimal
	Stock             int64
	LowStockThreshold int64
	Sales             int64
	Variants          []Variant
	Ratings           Ratings
	IsActive          bool
	Ctime             int64
	Utime             int64
}

// HasVariants 有规格的商品库存以规格为准
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

func (p Product) TotalStock() int64 {
	if !p.HasVariants() {
		return p.Stock
	}
	var total int64
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

func (p Product) IsLowStock() bool {
	return p.TotalStock() <= p.LowStockThreshold
}

func (p Product) Variant(id int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

type Variant struct {
	ID         int64
	ProductID  int64
	Name       string
	SKU        string
	Price      decimal.Decimal
	Stock      int64
	Attributes Attributes
	IsActive   bool
}

type Attributes struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
}

// Ratings 由评价汇总得出，不允许直接编辑
type Ratings struct {
	Average float64
	Count   int64
}

type LocationKind uint8

const (
	LocationBase LocationKind = iota + 1
	LocationVariant
)

// StockLocation 库存扣减的位置：商品本身或者商品下的某个规格
type StockLocation struct {
	kind      LocationKind
	ProductID int64
	VariantID int64
}

func BaseLocation(productID int64) StockLocation {
	return StockLocation{kind: LocationBase, ProductID: productID}
}

func VariantLocation(productID, variantID int64) StockLocation {
	return StockLocation{kind: LocationVariant, ProductID: productID, VariantID: variantID}
}

func (l StockLocation) Kind() LocationKind {
	return l.kind
}

func (l StockLocation) String() string {
	if l.kind == LocationVariant {
		return fmt.Sprintf("product:%d/variant:%d", l.ProductID, l.VariantID)
	}
	return fmt.Sprintf("product:%d", l.ProductID)
}
