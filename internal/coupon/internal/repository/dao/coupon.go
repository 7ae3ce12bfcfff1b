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
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const uniqueIndexErrNo uint16 = 1062

var (
	ErrCouponNotFound    = errors.New("优惠券不存在")
	ErrDuplicateCode     = errors.New("优惠券码已存在")
	ErrUsageLimitReached = errors.New("优惠券已达使用上限")
	ErrNoUsageToRelease  = errors.New("没有可以归还的使用记录")
)

type CouponDAO interface {
	Save(ctx context.Context, c Coupon) (int64, error)
	FindByID(ctx context.Context, id int64) (Coupon, error)
	FindByCode(ctx context.Context, code string) (Coupon, error)
	List(ctx context.Context, offset, limit int) ([]Coupon, error)
	Count(ctx context.Context) (int64, error)
	ListActive(ctx context.Context, now int64, offset, limit int) ([]Coupon, error)
	Delete(ctx context.Context, id int64) error

	FindUsage(ctx context.Context, couponID, uid int64) (CouponUsage, error)
	RecordUsage(ctx context.Context, couponID, uid int64) error
	ReleaseUsage(ctx context.Context, couponID, uid int64) error
}

type CouponGORMDAO struct {
	db *egorm.Component
}

func NewCouponGORMDAO(db *egorm.Component) CouponDAO {
	return &CouponGORMDAO{db: db}
}

func (d *CouponGORMDAO) Save(ctx context.Context, c Coupon) (int64, error) {
	now := time.Now().UnixMilli()
	c.Utime = now
	var err error
	if c.Id == 0 {
		c.Ctime = now
		err = d.db.WithContext(ctx).Create(&c).Error
	} else {
		res := d.db.WithContext(ctx).Model(&Coupon{}).
			Where("id = ?", c.Id).
			Updates(map[string]any{
				"code":                c.Code,
				"description":         c.Description,
				"discount_type":       c.DiscountType,
				"discount_value":      c.DiscountValue,
				"max_discount_amount": c.MaxDiscountAmount,
				"min_purchase_amount": c.MinPurchaseAmount,
				"usage_limit":         c.UsageLimit,
				"per_user_limit":      c.PerUserLimit,
				"start_date":          c.StartDate,
				"end_date":            c.EndDate,
				"is_active":           c.IsActive,
				"utime":               c.Utime,
			})
		err = res.Error
		if err == nil && res.RowsAffected == 0 {
			err = ErrCouponNotFound
		}
	}
	if isDuplicate(err) {
		return 0, ErrDuplicateCode
	}
	return c.Id, err
}

func (d *CouponGORMDAO) FindByID(ctx context.Context, id int64) (Coupon, error) {
	var res Coupon
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Coupon{}, ErrCouponNotFound
	}
	return res, err
}

func (d *CouponGORMDAO) FindByCode(ctx context.Context, code string) (Coupon, error) {
	var res Coupon
	err := d.db.WithContext(ctx).Where("code = ?", code).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Coupon{}, ErrCouponNotFound
	}
	return res, err
}

func (d *CouponGORMDAO) List(ctx context.Context, offset, limit int) ([]Coupon, error) {
	var res []Coupon
	err := d.db.WithContext(ctx).
		Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&res).Error
	return res, err
}

func (d *CouponGORMDAO) Count(ctx context.Context) (int64, error) {
	var res int64
	err := d.db.WithContext(ctx).Model(&Coupon{}).Count(&res).Error
	return res, err
}

func (d *CouponGORMDAO) ListActive(ctx context.Context, now int64, offset, limit int) ([]Coupon, error) {
	var res []Coupon
	err := d.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Where("usage_limit = 0 OR used_count < usage_limit").
		Offset(offset).Limit(limit).
		Order("end_date ASC").
		Find(&res).Error
	return res, err
}

func (d *CouponGORMDAO) Delete(ctx context.Context, id int64) error {
	res := d.db.WithContext(ctx).Where("id = ?", id).Delete(&Coupon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// FindUsage 用户没有用过这张券时返回零值
func (d *CouponGORMDAO) FindUsage(ctx context.Context, couponID, uid int64) (CouponUsage, error) {
	var res CouponUsage
	err := d.db.WithContext(ctx).
		Where("coupon_id = ? AND uid = ?", couponID, uid).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CouponUsage{CouponId: couponID, Uid: uid}, nil
	}
	return res, err
}

// RecordUsage 总次数和个人次数都用条件更新保护，任何一个不满足都整体回滚
func (d *CouponGORMDAO) RecordUsage(ctx context.Context, couponID, uid int64) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Coupon{}).
			Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", couponID).
			Updates(map[string]any{
				"used_count": gorm.Expr("used_count + 1"),
				"utime":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUsageLimitReached
		}

		var c Coupon
		err := tx.Select("id", "per_user_limit").Where("id = ?", couponID).First(&c).Error
		if err != nil {
			return err
		}

		res = tx.Model(&CouponUsage{}).
			Where("coupon_id = ? AND uid = ? AND used_count < ?", couponID, uid, c.PerUserLimit).
			Updates(map[string]any{
				"used_count": gorm.Expr("used_count + 1"),
				"last_used":  now,
				"utime":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if c.PerUserLimit < 1 {
			return ErrUsageLimitReached
		}
		// 第一次使用，唯一索引冲突说明已有记录且次数用完
		err = tx.Create(&CouponUsage{
			CouponId:  couponID,
			Uid:       uid,
			UsedCount: 1,
			LastUsed:  now,
			Ctime:     now,
			Utime:     now,
		}).Error
		if isDuplicate(err) {
			return ErrUsageLimitReached
		}
		return err
	})
}

func (d *CouponGORMDAO) ReleaseUsage(ctx context.Context, couponID, uid int64) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Coupon{}).
			Where("id = ? AND used_count > 0", couponID).
			Updates(map[string]any{
				"used_count": gorm.Expr("used_count - 1"),
				"utime":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoUsageToRelease
		}
		res = tx.Model(&CouponUsage{}).
			Where("coupon_id = ? AND uid = ? AND used_count > 0", couponID, uid).
			Updates(map[string]any{
				"used_count": gorm.Expr("used_count - 1"),
				"utime":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoUsageToRelease
		}
		return nil
	})
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == uniqueIndexErrNo
}

type Coupon struct {
	Id                int64               `gorm:"primaryKey;autoIncrement;comment:优惠券自增ID"`
	Code              string              `gorm:"type:varchar(64);not null;uniqueIndex:uniq_code;comment:券码,统一大写"`
	Description       string              `gorm:"type:varchar(512);not null;default:'';comment:描述"`
	DiscountType      uint8               `gorm:"type:tinyint unsigned;not null;comment:折扣类型 1=百分比 2=固定金额"`
	DiscountValue     decimal.Decimal     `gorm:"type:decimal(10,2);not null;comment:折扣值"`
	MaxDiscountAmount decimal.NullDecimal `gorm:"type:decimal(10,2);comment:百分比折扣的封顶金额,NULL表示不封顶"`
	MinPurchaseAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0;comment:使用门槛"`
	UsageLimit        int64               `gorm:"not null;default:0;comment:总使用次数上限,0表示不限"`
	UsedCount         int64               `gorm:"not null;default:0;comment:已使用次数"`
	PerUserLimit      int64               `gorm:"not null;default:1;comment:每人可用次数"`
	StartDate         int64               `gorm:"not null;comment:生效时间"`
	EndDate           int64               `gorm:"not null;index:idx_end_date;comment:失效时间"`
	IsActive          bool                `gorm:"not null;comment:是否启用"`
	Ctime             int64
	Utime             int64
}

type CouponUsage struct {
	Id        int64 `gorm:"primaryKey;autoIncrement"`
	CouponId  int64 `gorm:"not null;uniqueIndex:uniq_coupon_uid;comment:优惠券ID"`
	Uid       int64 `gorm:"not null;uniqueIndex:uniq_coupon_uid;index:idx_uid;comment:用户ID"`
	UsedCount int64 `gorm:"not null;default:0;comment:该用户已使用次数"`
	LastUsed  int64 `gorm:"not null;default:0;comment:最后一次使用时间"`
	Ctime     int64
	Utime     int64
}
