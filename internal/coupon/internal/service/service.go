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

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/webmall/internal/coupon/internal/domain"
	"github.com/ecodeclub/webmall/internal/coupon/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCouponNotFound    = repository.ErrCouponNotFound
	ErrDuplicateCode     = repository.ErrDuplicateCode
	ErrUsageLimitReached = repository.ErrUsageLimitReached
	ErrInvalidCoupon     = errors.New("优惠券信息不合法")
)

//go:generate mockgen -source=./service.go -package=couponmocks -destination=../../mocks/coupon.mock.go Service
type Service interface {
	Save(ctx context.Context, c domain.Coupon) (int64, error)
	Detail(ctx context.Context, id int64) (domain.Coupon, error)
	List(ctx context.Context, offset, limit int) ([]domain.Coupon, int64, error)
	Delete(ctx context.Context, id int64) error
	ActiveList(ctx context.Context, offset, limit int) ([]domain.Coupon, error)
	// Evaluate 券码不存在时返回 ErrCouponNotFound，其他不可用原因放在 Validation 里
	Evaluate(ctx context.Context, code string, uid int64, subtotal decimal.Decimal) (domain.Evaluation, error)
	// RecordUsage 每个成功的订单最多调用一次
	RecordUsage(ctx context.Context, couponID, uid int64) error
	// ReleaseUsage 只用于订单落库失败时归还已经记录的使用次数
	ReleaseUsage(ctx context.Context, couponID, uid int64) error
}

type service struct {
	repo    repository.CouponRepository
	nowFunc func() time.Time
}

func NewService(repo repository.CouponRepository) Service {
	return &service{repo: repo, nowFunc: time.Now}
}

func (s *service) Save(ctx context.Context, c domain.Coupon) (int64, error) {
	c.Code = domain.NormalizeCode(c.Code)
	if c.PerUserLimit == 0 {
		c.PerUserLimit = 1
	}
	if err := s.validate(c); err != nil {
		return 0, err
	}
	return s.repo.Save(ctx, c)
}

func (s *service) validate(c domain.Coupon) error {
	switch {
	case c.Code == "":
		return fmt.Errorf("%w: 券码为空", ErrInvalidCoupon)
	case !c.DiscountType.IsValid():
		return fmt.Errorf("%w: 未知的折扣类型 %d", ErrInvalidCoupon, c.DiscountType)
	case c.DiscountValue.IsNegative():
		return fmt.Errorf("%w: 折扣值为负", ErrInvalidCoupon)
	case c.DiscountType == domain.DiscountTypePercentage && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)):
		return fmt.Errorf("%w: 百分比折扣超过 100", ErrInvalidCoupon)
	case c.MaxDiscountAmount.Valid && c.MaxDiscountAmount.Decimal.IsNegative():
		return fmt.Errorf("%w: 封顶金额为负", ErrInvalidCoupon)
	case c.MinPurchaseAmount.IsNegative():
		return fmt.Errorf("%w: 使用门槛为负", ErrInvalidCoupon)
	case c.UsageLimit < 0 || c.PerUserLimit < 1:
		return fmt.Errorf("%w: 使用次数非法", ErrInvalidCoupon)
	case c.StartDate >= c.EndDate:
		return fmt.Errorf("%w: 生效时间晚于失效时间", ErrInvalidCoupon)
	}
	return nil
}

func (s *service) Detail(ctx context.Context, id int64) (domain.Coupon, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, offset, limit int) ([]domain.Coupon, int64, error) {
	var (
		eg    errgroup.Group
		cs    []domain.Coupon
		total int64
	)
	eg.Go(func() error {
		var err error
		cs, err = s.repo.List(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.Count(ctx)
		return err
	})
	return cs, total, eg.Wait()
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ActiveList(ctx context.Context, offset, limit int) ([]domain.Coupon, error) {
	return s.repo.ListActive(ctx, s.nowFunc().UnixMilli(), offset, limit)
}

func (s *service) Evaluate(ctx context.Context, code string, uid int64, subtotal decimal.Decimal) (domain.Evaluation, error) {
	c, err := s.repo.FindByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		return domain.Evaluation{}, err
	}
	usage, err := s.repo.FindUsage(ctx, c.ID, uid)
	if err != nil {
		return domain.Evaluation{}, err
	}
	res := domain.Evaluation{
		Coupon:     c,
		Validation: c.Validate(s.nowFunc(), usage, subtotal),
		Discount:   decimal.Zero,
	}
	if res.Validation.Valid {
		res.Discount = c.ComputeDiscount(subtotal)
	}
	return res, nil
}

func (s *service) RecordUsage(ctx context.Context, couponID, uid int64) error {
	return s.repo.RecordUsage(ctx, couponID, uid)
}

func (s *service) ReleaseUsage(ctx context.Context, couponID, uid int64) error {
	return s.repo.ReleaseUsage(ctx, couponID, uid)
}
