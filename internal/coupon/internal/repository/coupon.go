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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/coupon/internal/domain"
	"github.com/ecodeclub/webmall/internal/coupon/internal/repository/dao"
)

var (
	ErrCouponNotFound    = dao.ErrCouponNotFound
	ErrDuplicateCode     = dao.ErrDuplicateCode
	ErrUsageLimitReached = dao.ErrUsageLimitReached
)

//go:generate mockgen -source=./coupon.go -package=repomocks -destination=./mocks/coupon.mock.go CouponRepository
type CouponRepository interface {
	Save(ctx context.Context, c domain.Coupon) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
	List(ctx context.Context, offset, limit int) ([]domain.Coupon, error)
	Count(ctx context.Context) (int64, error)
	ListActive(ctx context.Context, now int64, offset, limit int) ([]domain.Coupon, error)
	Delete(ctx context.Context, id int64) error
	FindUsage(ctx context.Context, couponID, uid int64) (domain.UserUsage, error)
	RecordUsage(ctx context.Context, couponID, uid int64) error
	ReleaseUsage(ctx context.Context, couponID, uid int64) error
}

type couponRepository struct {
	dao dao.CouponDAO
}

func NewCouponRepository(d dao.CouponDAO) CouponRepository {
	return &couponRepository{dao: d}
}

func (r *couponRepository) Save(ctx context.Context, c domain.Coupon) (int64, error) {
	return r.dao.Save(ctx, r.toEntity(c))
}

func (r *couponRepository) FindByID(ctx context.Context, id int64) (domain.Coupon, error) {
	c, err := r.dao.FindByID(ctx, id)
	return r.toDomain(c), err
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	c, err := r.dao.FindByCode(ctx, code)
	return r.toDomain(c), err
}

func (r *couponRepository) List(ctx context.Context, offset, limit int) ([]domain.Coupon, error) {
	cs, err := r.dao.List(ctx, offset, limit)
	return slice.Map(cs, func(idx int, src dao.Coupon) domain.Coupon {
		return r.toDomain(src)
	}), err
}

func (r *couponRepository) Count(ctx context.Context) (int64, error) {
	return r.dao.Count(ctx)
}

func (r *couponRepository) ListActive(ctx context.Context, now int64, offset, limit int) ([]domain.Coupon, error) {
	cs, err := r.dao.ListActive(ctx, now, offset, limit)
	return slice.Map(cs, func(idx int, src dao.Coupon) domain.Coupon {
		return r.toDomain(src)
	}), err
}

func (r *couponRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.Delete(ctx, id)
}

func (r *couponRepository) FindUsage(ctx context.Context, couponID, uid int64) (domain.UserUsage, error) {
	u, err := r.dao.FindUsage(ctx, couponID, uid)
	return domain.UserUsage{
		CouponID:  u.CouponId,
		UID:       u.Uid,
		UsedCount: u.UsedCount,
		LastUsed:  u.LastUsed,
	}, err
}

func (r *couponRepository) RecordUsage(ctx context.Context, couponID, uid int64) error {
	return r.dao.RecordUsage(ctx, couponID, uid)
}

func (r *couponRepository) ReleaseUsage(ctx context.Context, couponID, uid int64) error {
	return r.dao.ReleaseUsage(ctx, couponID, uid)
}

func (r *couponRepository) toEntity(c domain.Coupon) dao.Coupon {
	return dao.Coupon{
		Id:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      c.DiscountType.ToUint8(),
		DiscountValue:     c.DiscountValue,
		MaxDiscountAmount: c.MaxDiscountAmount,
		MinPurchaseAmount: c.MinPurchaseAmount,
		UsageLimit:        c.UsageLimit,
		PerUserLimit:      c.PerUserLimit,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		IsActive:          c.IsActive,
	}
}

func (r *couponRepository) toDomain(c dao.Coupon) domain.Coupon {
	return domain.Coupon{
		ID:                c.Id,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      domain.DiscountType(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MaxDiscountAmount: c.MaxDiscountAmount,
		MinPurchaseAmount: c.MinPurchaseAmount,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		PerUserLimit:      c.PerUserLimit,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		IsActive:          c.IsActive,
		Ctime:             c.Ctime,
		Utime:             c.Utime,
	}
}
