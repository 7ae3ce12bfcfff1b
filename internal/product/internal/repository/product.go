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

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ecodeclub/webmall/internal/product/internal/repository/cache"
	"github.com/ecodeclub/webmall/internal/product/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrProductNotFound   = dao.ErrProductNotFound
	ErrVariantNotFound   = dao.ErrVariantNotFound
	ErrInsufficientStock = dao.ErrInsufficientStock
)

//go:generate mockgen -source=./product.go -package=repomocks -destination=./mocks/product.mock.go ProductRepository
type ProductRepository interface {
	Save(ctx context.Context, p domain.Product) (int64, error)
	Deactivate(ctx context.Context, vendorID, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, q domain.Query) ([]domain.Product, error)
	Count(ctx context.Context, q domain.Query) (int64, error)
	// Search 关键字搜索走 ES，返回的商品顺序与 ES 排序一致
	Search(ctx context.Context, q domain.Query) ([]domain.Product, int64, error)
	ListByVendor(ctx context.Context, vendorID int64, offset, limit int) ([]domain.Product, error)
	CountByVendor(ctx context.Context, vendorID int64) (int64, error)
	FindActiveByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error)
	DecreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error
	IncreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error
	UpdateRatings(ctx context.Context, id int64, r domain.Ratings) error
}

type productRepository struct {
	dao       dao.ProductDAO
	searchDAO dao.ProductSearchDAO
	cache     cache.ProductCache
	logger    *elog.Component
}

func NewProductRepository(d dao.ProductDAO, sd dao.ProductSearchDAO, c cache.ProductCache) ProductRepository {
	return &productRepository{
		dao:       d,
		searchDAO: sd,
		cache:     c,
		logger:    elog.DefaultLogger,
	}
}

func (r *productRepository) Save(ctx context.Context, p domain.Product) (int64, error) {
	id, err := r.dao.Save(ctx, r.toEntity(p), slice.Map(p.Variants, func(idx int, src domain.Variant) dao.Variant {
		return r.toVariantEntity(src)
	}))
	if err != nil {
		return 0, err
	}
	r.evict(ctx, id)
	r.syncIndex(ctx, id)
	return id, nil
}

func (r *productRepository) Deactivate(ctx context.Context, vendorID, id int64) error {
	err := r.dao.Deactivate(ctx, vendorID, id)
	if err != nil {
		return err
	}
	r.evict(ctx, id)
	r.syncIndex(ctx, id)
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	p, err := r.cache.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	entity, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	res, err := r.withVariants(ctx, []dao.Product{entity})
	if err != nil {
		return domain.Product{}, err
	}
	p = res[0]
	if er := r.cache.Set(ctx, p); er != nil {
		r.logger.Error("回写商品缓存失败", elog.FieldErr(er), elog.Int64("pid", id))
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, q domain.Query) ([]domain.Product, error) {
	ps, err := r.dao.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return r.withVariants(ctx, ps)
}

func (r *productRepository) Count(ctx context.Context, q domain.Query) (int64, error) {
	return r.dao.Count(ctx, q)
}

func (r *productRepository) Search(ctx context.Context, q domain.Query) ([]domain.Product, int64, error) {
	ids, total, err := r.searchDAO.SearchProduct(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]dao.Product, len(found))
	for _, p := range found {
		byID[p.Id] = p
	}
	// 索引落后于 MySQL 时，已下架或已删除的商品直接跳过
	ps := make([]dao.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ps = append(ps, p)
		}
	}
	res, err := r.withVariants(ctx, ps)
	return res, total, err
}

func (r *productRepository) ListByVendor(ctx context.Context, vendorID int64, offset, limit int) ([]domain.Product, error) {
	ps, err := r.dao.ListByVendor(ctx, vendorID, offset, limit)
	if err != nil {
		return nil, err
	}
	return r.withVariants(ctx, ps)
}

func (r *productRepository) CountByVendor(ctx context.Context, vendorID int64) (int64, error) {
	return r.dao.CountByVendor(ctx, vendorID)
}

func (r *productRepository) FindActiveByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	ps, err := r.dao.FindActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return r.withVariants(ctx, ps)
}

func (r *productRepository) DecreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error {
	var err error
	switch loc.Kind() {
	case domain.LocationBase:
		err = r.dao.DecreaseBaseStock(ctx, loc.ProductID, qty)
	case domain.LocationVariant:
		err = r.dao.DecreaseVariantStock(ctx, loc.ProductID, loc.VariantID, qty)
	default:
		return fmt.Errorf("未知的库存位置 %s", loc)
	}
	if err != nil {
		return err
	}
	r.evict(ctx, loc.ProductID)
	r.syncIndex(ctx, loc.ProductID)
	return nil
}

func (r *productRepository) IncreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error {
	var err error
	switch loc.Kind() {
	case domain.LocationBase:
		err = r.dao.IncreaseBaseStock(ctx, loc.ProductID, qty)
	case domain.LocationVariant:
		err = r.dao.IncreaseVariantStock(ctx, loc.ProductID, loc.VariantID, qty)
	default:
		return fmt.Errorf("未知的库存位置 %s", loc)
	}
	if err != nil {
		return err
	}
	r.evict(ctx, loc.ProductID)
	r.syncIndex(ctx, loc.ProductID)
	return nil
}

func (r *productRepository) UpdateRatings(ctx context.Context, id int64, ratings domain.Ratings) error {
	err := r.dao.UpdateRatings(ctx, id, ratings.Average, ratings.Count)
	if err != nil {
		return err
	}
	r.evict(ctx, id)
	r.syncIndex(ctx, id)
	return nil
}

// evict 缓存删除失败只记录日志，缓存有过期时间兜底
func (r *productRepository) evict(ctx context.Context, ids ...int64) {
	if err := r.cache.Delete(ctx, ids...); err != nil {
		r.logger.Error("删除商品缓存失败", elog.FieldErr(err), elog.Any("pids", ids))
	}
}

// syncIndex MySQL 已经修改成功，索引同步失败只记录日志，下次修改时会再次覆盖
func (r *productRepository) syncIndex(ctx context.Context, id int64) {
	p, err := r.dao.FindByID(ctx, id)
	if err != nil {
		r.logger.Error("查询待同步索引的商品失败", elog.FieldErr(err), elog.Int64("pid", id))
		return
	}
	if err = r.searchDAO.InputProduct(ctx, r.toDocument(p)); err != nil {
		r.logger.Error("同步商品索引失败", elog.FieldErr(err), elog.Int64("pid", id))
	}
}

func (r *productRepository) toDocument(p dao.Product) dao.ProductDocument {
	return dao.ProductDocument{
		ID:               p.Id,
		VendorID:         p.VendorId,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Category:         p.Category,
		Price:            p.Price.InexactFloat64(),
		RatingAverage:    p.RatingAverage,
		RatingCount:      p.RatingCount,
		Sales:            p.Sales,
		IsActive:         p.IsActive,
		Ctime:            p.Ctime,
		Utime:            p.Utime,
	}
}

func (r *productRepository) withVariants(ctx context.Context, ps []dao.Product) ([]domain.Product, error) {
	if len(ps) == 0 {
		return []domain.Product{}, nil
	}
	ids := slice.Map(ps, func(idx int, src dao.Product) int64 {
		return src.Id
	})
	vs, err := r.dao.FindVariantsByProductIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	grouped := make(map[int64][]domain.Variant, len(ps))
	for _, v := range vs {
		grouped[v.ProductId] = append(grouped[v.ProductId], r.toVariantDomain(v))
	}
	return slice.Map(ps, func(idx int, src dao.Product) domain.Product {
		return r.toDomain(src, grouped[src.Id])
	}), nil
}

func (r *productRepository) toEntity(p domain.Product) dao.Product {
	return dao.Product{
		Id:               p.ID,
		VendorId:         p.VendorID,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Category:         p.Category,
		Images: sqlx.JsonColumn[[]string]{
			Val:   p.Images,
			Valid: len(p.Images) > 0,
		},
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		IsActive:          p.IsActive,
	}
}

func (r *productRepository) toVariantEntity(v domain.Variant) dao.Variant {
	return dao.Variant{
		Id:   v.ID,
		Name: v.Name,
		SKU: sql.NullString{
			String: v.SKU,
			Valid:  v.SKU != "",
		},
		Price: v.Price,
		Stock: v.Stock,
		Attributes: sqlx.JsonColumn[dao.Attributes]{
			Val: dao.Attributes{
				Size:     v.Attributes.Size,
				Color:    v.Attributes.Color,
				Material: v.Attributes.Material,
			},
			Valid: true,
		},
	}
}

func (r *productRepository) toDomain(p dao.Product, variants []domain.Variant) domain.Product {
	return domain.Product{
		ID:                p.Id,
		VendorID:          p.VendorId,
		Name:              p.Name,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		Category:          p.Category,
		Images:            p.Images.Val,
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Sales:             p.Sales,
		Variants:          variants,
		Ratings: domain.Ratings{
			Average: p.RatingAverage,
			Count:   p.RatingCount,
		},
		IsActive: p.IsActive,
		Ctime:    p.Ctime,
		Utime:    p.Utime,
	}
}

func (r *productRepository) toVariantDomain(v dao.Variant) domain.Variant {
	return domain.Variant{
		ID:        v.Id,
		ProductID: v.ProductId,
		Name:      v.Name,
		SKU:       v.SKU.String,
		Price:     v.Price,
		Stock:     v.Stock,
		Attributes: domain.Attributes{
			Size:     v.Attributes.Val.Size,
			Color:    v.Attributes.Val.Color,
			Material: v.Attributes.Val.Material,
		},
		IsActive: v.IsActive,
	}
}
