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
package dao

import (
	"context"
	_ "embed"
	"strconv"
	"time"

	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/olivere/elastic/v7"
)

const ProductIndexName = "product_index"

//go:embed product_index.json
var productIndex string

// InitES 创建商品索引
func InitES(client *elastic.Client) error {
	const timeout = time.Second * 10
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return tryCreateIndex(ctx, client, ProductIndexName, productIndex)
}

func tryCreateIndex(ctx context.Context,
	client *elastic.Client,
	idxName, idxCfg string,
) error {
	// 索引可能已经建好了
	ok, err := client.IndexExists(idxName).Do(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	_, err = client.CreateIndex(idxName).Body(idxCfg).Do(ctx)
	return err
}

type ProductDocument struct {
	ID               int64   `json:"id"`
	VendorID         int64   `json:"vendor_id"`
	Name             string  `json:"name"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	RatingAverage    float64 `json:"rating_average"`
	RatingCount      int64   `json:"rating_count"`
	Sales            int64   `json:"sales"`
	IsActive         bool    `json:"is_active"`
	Ctime            int64   `json:"ctime"`
	Utime            int64   `json:"utime"`
}

type ProductSearchDAO interface {
	InputProduct(ctx context.Context, doc ProductDocument) error
	// SearchProduct 只返回命中的商品 ID 和总数，商品详情以 MySQL 为准
	SearchProduct(ctx context.Context, q domain.Query) ([]int64, int64, error)
}

type productElasticDAO struct {
	client *elastic.Client
	index  string
}

func NewProductElasticDAO(client *elastic.Client) ProductSearchDAO {
	return &productElasticDAO{
		client: client,
		index:  ProductIndexName,
	}
}

func (d *productElasticDAO) InputProduct(ctx context.Context, doc ProductDocument) error {
	_, err := d.client.Index().
		Index(d.index).
		Id(strconv.FormatInt(doc.ID, 10)).
		BodyJson(doc).
		Do(ctx)
	return err
}

func (d *productElasticDAO) SearchProduct(ctx context.Context, q domain.Query) ([]int64, int64, error) {
	query := elastic.NewBoolQuery().
		Must(elastic.NewMultiMatchQuery(q.Keyword,
			"name^3", "short_description^2", "description", "category")).
		Filter(d.filters(q)...)
	resp, err := d.client.Search(d.index).
		From(q.Offset).
		Size(q.Limit).
		Query(query).
		FetchSource(false).
		SortBy(sorters(q.Sort)...).
		Do(ctx)
	if err != nil {
		return nil, 0, err
	}
	if resp.Hits == nil {
		return []int64{}, 0, nil
	}
	ids := make([]int64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		id, err := strconv.ParseInt(hit.Id, 10, 64)
		if err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	return ids, resp.TotalHits(), nil
}

func (d *productElasticDAO) filters(q domain.Query) []elastic.Query {
	res := []elastic.Query{elastic.NewTermQuery("is_active", true)}
	if q.Category != "" {
		res = append(res, elastic.NewTermQuery("category", q.Category))
	}
	if q.VendorID > 0 {
		res = append(res, elastic.NewTermQuery("vendor_id", q.VendorID))
	}
	if q.MinPrice.Valid || q.MaxPrice.Valid {
		price := elastic.NewRangeQuery("price")
		if q.MinPrice.Valid {
			price = price.Gte(q.MinPrice.Decimal.InexactFloat64())
		}
		if q.MaxPrice.Valid {
			price = price.Lte(q.MaxPrice.Decimal.InexactFloat64())
		}
		res = append(res, price)
	}
	if q.MinRating > 0 {
		res = append(res, elastic.NewRangeQuery("rating_average").Gte(q.MinRating))
	}
	return res
}

// sorters 相同得分或相同字段值时按 id 倒序，翻页结果稳定
func sorters(s domain.SortBy) []elastic.Sorter {
	var first elastic.Sorter
	switch s {
	case domain.SortPriceAsc:
		first = elastic.NewFieldSort("price").Asc()
	case domain.SortPriceDesc:
		first = elastic.NewFieldSort("price").Desc()
	case domain.SortRating:
		first = elastic.NewFieldSort("rating_average").Desc()
	case domain.SortSales:
		first = elastic.NewFieldSort("sales").Desc()
	case domain.SortNewest:
		first = elastic.NewFieldSort("ctime").Desc()
	default:
		first = elastic.NewScoreSort()
	}
	return []elastic.Sorter{first, elastic.NewFieldSort("id").Desc()}
}
