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
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/product"
)

type ProductReq struct {
	ProductID int64 `json:"productId"`
}

type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         string   `json:"price"`
	Images        []string `json:"images,omitempty"`
	Category      string   `json:"category,omitempty"`
	RatingAverage float64  `json:"ratingAverage"`
	RatingCount   int64    `json:"ratingCount"`
	Stock         int64    `json:"stock"`
}

type Wishlist struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

func newWishlist(ps []product.Product) Wishlist {
	return Wishlist{
		Count: len(ps),
		Products: slice.Map(ps, func(idx int, src product.Product) Product {
			return Product{
				ID:            src.ID,
				Name:          src.Name,
				Price:         src.Price.StringFixed(2),
				Images:        src.Images,
				Category:      src.Category,
				RatingAverage: src.Ratings.Average,
				RatingCount:   src.Ratings.Count,
				Stock:         src.TotalStock(),
			}
		}),
	}
}
