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
	"database/sql"
	"errors"
	"time"

	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ego-component/egorm"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("商品不存在")
	ErrVariantNotFound   = errors.New("商品规格不存在")
	ErrInsufficientStock = errors.New("库存不足")
)

type ProductDAO interface {
	Save(ctx context.Context, p Product, variants []Variant) (int64, error)
	Deactivate(ctx context.Context, vendorID, id int64) error
	FindByID(ctx context.Context, id int64) (Product, error)
	FindVariantsByProductIDs(ctx context.Context, ids []int64) ([]Variant, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
	List(ctx context.Context, q domain.Query) ([]Product, error)
	Count(ctx context.Context, q domain.Query) (int64, error)
	ListByVendor(ctx context.Context, vendorID int64, offset, limit int) ([]Product, error)
	CountByVendor(ctx context.Context, vendorID int64) (int64, error)
	FindActiveByVendor(ctx context.Context, vendorID int64) ([]Product, error)

	DecreaseBaseStock(ctx context.Context, productID, qty int64) error
	DecreaseVariantStock(ctx context.Context, productID, variantID, qty int64) error
	IncreaseBaseStock(ctx context.Context, productID, qty int64) error
	IncreaseVariantStock(ctx context.Context, productID, variantID, qty int64) error

	UpdateRatings(ctx context.Context, id int64, average float64, count int64) error
}

type ProductGORMDAO struct {
	db *egorm.Component
}

func NewProductGORMDAO(db *egorm.Component) ProductDAO {
	return &ProductGORMDAO{db: db}
}

func (d *ProductGORMDAO) Save(ctx context.Context, p Product, variants []Variant) (int64, error) {
	now := time.Now().UnixMilli()
	p.Utime = now
	p.HasVariants = len(variants) > 0
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Id == 0 {
			p.Ctime = now
			p.IsActive = true
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&Product{}).
				Where("id = ? AND vendor_id = ?", p.Id, p.VendorId).
				Updates(map[string]any{
					"name":                p.Name,
					"description":         p.Description,
					"short_description":   p.ShortDescription,
					"category":            p.Category,
					"images":              p.Images,
					"price":               p.Price,
					"compare_at_price":    p.CompareAtPrice,
					"stock":               p.Stock,
					"has_variants":        p.HasVariants,
					"low_stock_threshold": p.LowStockThreshold,
					"utime":               p.Utime,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrProductNotFound
			}
		}
		return d.saveVariants(tx, p.Id, variants, now)
	})
	return p.Id, err
}

// saveVariants 未出现在本次提交中的规格只做下架，已下单的规格仍需支持回补库存
func (d *ProductGORMDAO) saveVariants(tx *gorm.DB, productID int64, variants []Variant, now int64) error {
	keep := make([]int64, 0, len(variants))
	for i := range variants {
		v := variants[i]
		v.ProductId = productID
		v.Utime = now
		v.IsActive = true
		if v.Id == 0 {
			v.Ctime = now
			if err := tx.Create(&v).Error; err != nil {
				return err
			}
		} else {
			err := tx.Model(&Variant{}).
				Where("id = ? AND product_id = ?", v.Id, productID).
				Updates(map[string]any{
					"name":       v.Name,
					"sku":        v.SKU,
					"price":      v.Price,
					"stock":      v.Stock,
					"attributes": v.Attributes,
					"is_active":  true,
					"utime":      now,
				}).Error
			if err != nil {
				return err
			}
		}
		keep = append(keep, v.Id)
	}
	q := tx.Model(&Variant{}).Where("product_id = ?", productID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Updates(map[string]any{"is_active": false, "utime": now}).Error
}

func (d *ProductGORMDAO) Deactivate(ctx context.Context, vendorID, id int64) error {
	res := d.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(map[string]any{"is_active": false, "utime": time.Now().UnixMilli()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (d *ProductGORMDAO) FindByID(ctx context.Context, id int64) (Product, error) {
	var res Product
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrProductNotFound
	}
	return res, err
}

func (d *ProductGORMDAO) FindVariantsByProductIDs(ctx context.Context, ids []int64) ([]Variant, error) {
	var res []Variant
	err := d.db.WithContext(ctx).
		Where("product_id IN ? AND is_active = ?", ids, true).
		Order("id ASC").
		Find(&res).Error
	return res, err
}

// FindByIDs 不保证顺序
func (d *ProductGORMDAO) FindByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	var res []Product
	if len(ids) == 0 {
		return res, nil
	}
	err := d.db.WithContext(ctx).Where("id IN ? AND is_active = ?", ids, true).Find(&res).Error
	return res, err
}

func (d *ProductGORMDAO) List(ctx context.Context, q domain.Query) ([]Product, error) {
	var res []Product
	err := d.filter(d.db.WithContext(ctx), q).
		Offset(q.Offset).Limit(q.Limit).
		Order(orderBy(q.Sort)).
		Find(&res).Error
	return res, err
}

func (d *ProductGORMDAO) Count(ctx context.Context, q domain.Query) (int64, error) {
	var res int64
	err := d.filter(d.db.WithContext(ctx).Model(&Product{}), q).Count(&res).Error
	return res, err
}

// filter 关键字在 MySQL 里只做 name 和 short_description 的模糊匹配
func (d *ProductGORMDAO) filter(db *gorm.DB, q domain.Query) *gorm.DB {
	db = db.Where("is_active = ?", true)
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.VendorID > 0 {
		db = db.Where("vendor_id = ?", q.VendorID)
	}
	if q.MinPrice.Valid {
		db = db.Where("price >= ?", q.MinPrice.Decimal)
	}
	if q.MaxPrice.Valid {
		db = db.Where("price <= ?", q.MaxPrice.Decimal)
	}
	if q.MinRating > 0 {
		db = db.Where("rating_average >= ?", q.MinRating)
	}
	if q.HasKeyword() {
		kw := "%" + q.Keyword + "%"
		db = db.Where("name LIKE ? OR short_description LIKE ?", kw, kw)
	}
	return db
}

func orderBy(s domain.SortBy) string {
	switch s {
	case domain.SortPriceAsc:
		return "price ASC, id DESC"
	case domain.SortPriceDesc:
		return "price DESC, id DESC"
	case domain.SortRating:
		return "rating_average DESC, rating_count DESC, id DESC"
	case domain.SortSales:
		return "sales DESC, id DESC"
	default:
		return "id DESC"
	}
}

func (d *ProductGORMDAO) ListByVendor(ctx context.Context, vendorID int64, offset, limit int) ([]Product, error) {
	var res []Product
	err := d.db.WithContext(ctx).Where("vendor_id = ?", vendorID).
		Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&res).Error
	return res, err
}

func (d *ProductGORMDAO) CountByVendor(ctx context.Context, vendorID int64) (int64, error) {
	var res int64
	err := d.db.WithContext(ctx).Model(&Product{}).Where("vendor_id = ?", vendorID).Count(&res).Error
	return res, err
}

func (d *ProductGORMDAO) FindActiveByVendor(ctx context.Context, vendorID int64) ([]Product, error) {
	var res []Product
	err := d.db.WithContext(ctx).Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Order("id ASC").
		Find(&res).Error
	return res, err
}

func (d *ProductGORMDAO) DecreaseBaseStock(ctx context.Context, productID, qty int64) error {
	db := d.db.WithContext(ctx)
	res := db.Model(&Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", productID, true, qty).
		Updates(map[string]any{
			"stock": gorm.Expr("stock - ?", qty),
			"sales": gorm.Expr("sales + ?", qty),
			"utime": time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return d.productMissReason(db, productID)
	}
	return nil
}

func (d *ProductGORMDAO) DecreaseVariantStock(ctx context.Context, productID, variantID, qty int64) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Variant{}).
			Where("id = ? AND product_id = ? AND is_active = ? AND stock >= ?", variantID, productID, true, qty).
			Updates(map[string]any{
				"stock": gorm.Expr("stock - ?", qty),
				"utime": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return d.variantMissReason(tx, productID, variantID)
		}
		res = tx.Model(&Product{}).
			Where("id = ? AND is_active = ?", productID, true).
			Updates(map[string]any{
				"sales": gorm.Expr("sales + ?", qty),
				"utime": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (d *ProductGORMDAO) IncreaseBaseStock(ctx context.Context, productID, qty int64) error {
	res := d.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock": gorm.Expr("stock + ?", qty),
			"sales": gorm.Expr("GREATEST(sales - ?, 0)", qty),
			"utime": time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (d *ProductGORMDAO) IncreaseVariantStock(ctx context.Context, productID, variantID, qty int64) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Variant{}).
			Where("id = ? AND product_id = ?", variantID, productID).
			Updates(map[string]any{
				"stock": gorm.Expr("stock + ?", qty),
				"utime": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVariantNotFound
		}
		res = tx.Model(&Product{}).
			Where("id = ?", productID).
			Updates(map[string]any{
				"sales": gorm.Expr("GREATEST(sales - ?, 0)", qty),
				"utime": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (d *ProductGORMDAO) UpdateRatings(ctx context.Context, id int64, average float64, count int64) error {
	res := d.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_average": average,
			"rating_count":   count,
			"utime":          time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// productMissReason 条件更新没有命中时区分商品不存在和库存不足
func (d *ProductGORMDAO) productMissReason(db *gorm.DB, productID int64) error {
	var p Product
	err := db.Select("id", "is_active").Where("id = ?", productID).First(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrProductNotFound
	case err != nil:
		return err
	case !p.IsActive:
		return ErrProductNotFound
	default:
		return ErrInsufficientStock
	}
}

func (d *ProductGORMDAO) variantMissReason(tx *gorm.DB, productID, variantID int64) error {
	var v Variant
	err := tx.Select("id", "is_active").
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&v).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrVariantNotFound
	case err != nil:
		return err
	case !v.IsActive:
		return ErrVariantNotFound
	default:
		return ErrInsufficientStock
	}
}

type Product struct {
	Id                int64                     `gorm:"primaryKey;autoIncrement;comment:商品自增ID"`
	VendorId          int64                     `gorm:"not null;index:idx_vendor_id;comment:商家ID"`
	Name              string                    `gorm:"type:varchar(200);not null;comment:商品名称"`
	Description       string                    `gorm:"type:varchar(2000);not null;comment:商品描述"`
	ShortDescription  string                    `gorm:"type:varchar(500);not null;default:'';comment:商品简介"`
	Category          string                    `gorm:"type:varchar(64);not null;default:'';index:idx_category;comment:分类"`
	Images            sqlx.JsonColumn[[]string] `gorm:"type:json;comment:商品图片,CDN绝对路径"`
	Price             decimal.Decimal           `gorm:"type:decimal(10,2);not null;comment:价格"`
	CompareAtPrice    decimal.Decimal           `gorm:"type:decimal(10,2);not null;default:0;comment:划线价"`
	Stock             int64                     `gorm:"not null;default:0;comment:无规格时的库存"`
	HasVariants       bool                      `gorm:"not null;default:false;comment:是否有规格"`
	LowStockThreshold int64                     `gorm:"not null;default:10;comment:低库存预警阈值"`
	Sales             int64                     `gorm:"not null;default:0;comment:累计销量"`
	RatingAverage     float64                   `gorm:"type:decimal(2,1);not null;default:0;comment:平均评分"`
	RatingCount       int64                     `gorm:"not null;default:0;comment:评价数量"`
	IsActive          bool                      `gorm:"not null;default:true;comment:是否上架,false 表示软删除"`
	Ctime             int64
	Utime             int64
}

type Variant struct {
	Id         int64                      `gorm:"primaryKey;autoIncrement;comment:规格自增ID"`
	ProductId  int64                      `gorm:"not null;index:idx_product_id;comment:所属商品ID"`
	Name       string                     `gorm:"type:varchar(200);not null;comment:规格名称"`
	SKU        sql.NullString             `gorm:"column:sku;type:varchar(128);uniqueIndex:uniq_sku;comment:SKU,可为空"`
	Price      decimal.Decimal            `gorm:"type:decimal(10,2);not null;comment:价格"`
	Stock      int64                      `gorm:"not null;default:0;comment:库存"`
	Attributes sqlx.JsonColumn[Attributes] `gorm:"type:json;comment:尺码颜色材质"`
	IsActive   bool                       `gorm:"not null;default:true;comment:是否可售"`
	Ctime      int64
	Utime      int64
}

func (Variant) TableName() string {
	return "product_variants"
}

type Attributes struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
}
