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

	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	"github.com/ecodeclub/webmall/internal/review/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidReview   = domain.ErrInvalidReview
	ErrReviewNotFound  = repository.ErrReviewNotFound
	ErrDuplicateReview = repository.ErrDuplicateReview
	ErrNotPurchased    = errors.New("购买过该商品才能评价")
)

//go:generate mockgen -source=./review.go -package=reviewmocks -destination=../../mocks/review.mock.go ReviewSvc
type ReviewSvc interface {
	// Save 用户第一次评价时要求已购买，之后再提交视为修改
	Save(ctx context.Context, re domain.Review) (int64, error)
	// Delete 删除用户自己对该商品的评价
	Delete(ctx context.Context, uid, productID int64) error
	// AdminDelete 管理员按 ID 删除任意评价
	AdminDelete(ctx context.Context, id int64) error
	List(ctx context.Context, productID int64, rating, offset, limit int) (int64, []domain.Review, error)
	// Recompute 全量重算商品评分并写回商品
	Recompute(ctx context.Context, productID int64) (domain.Summary, error)
}

type reviewSvc struct {
	repo       repository.ReviewRepo
	orderSvc   order.Service
	productSvc product.Service
}

func NewReviewSvc(repo repository.ReviewRepo, orderSvc order.Service, productSvc product.Service) ReviewSvc {
	return &reviewSvc{
		repo:       repo,
		orderSvc:   orderSvc,
		productSvc: productSvc,
	}
}

func (r *reviewSvc) Save(ctx context.Context, re domain.Review) (int64, error) {
	if err := re.Validate(); err != nil {
		return 0, err
	}
	old, err := r.repo.FindByUser(ctx, re.ProductID, re.Uid)
	switch {
	case err == nil:
		re.ID = old.ID
		if err = r.repo.Update(ctx, re); err != nil {
			return 0, err
		}
	case errors.Is(err, ErrReviewNotFound):
		re.ID, err = r.create(ctx, re)
		if err != nil {
			return 0, err
		}
	default:
		return 0, err
	}
	if _, err = r.Recompute(ctx, re.ProductID); err != nil {
		return re.ID, err
	}
	return re.ID, nil
}

func (r *reviewSvc) create(ctx context.Context, re domain.Review) (int64, error) {
	ok, err := r.orderSvc.HasPurchased(ctx, re.Uid, re.ProductID)
	if err != nil {
		return 0, fmt.Errorf("查询购买记录失败: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: uid=%d, pid=%d", ErrNotPurchased, re.Uid, re.ProductID)
	}
	re.Verified = true
	return r.repo.Create(ctx, re)
}

func (r *reviewSvc) Delete(ctx context.Context, uid, productID int64) error {
	re, err := r.repo.FindByUser(ctx, productID, uid)
	if err != nil {
		return err
	}
	return r.delete(ctx, re)
}

func (r *reviewSvc) AdminDelete(ctx context.Context, id int64) error {
	re, err := r.repo.Info(ctx, id)
	if err != nil {
		return err
	}
	return r.delete(ctx, re)
}

func (r *reviewSvc) delete(ctx context.Context, re domain.Review) error {
	if err := r.repo.Delete(ctx, re); err != nil {
		return err
	}
	_, err := r.Recompute(ctx, re.ProductID)
	return err
}

func (r *reviewSvc) List(ctx context.Context, productID int64, rating, offset, limit int) (int64, []domain.Review, error) {
	var eg errgroup.Group
	var count int64
	var reviews []domain.Review
	eg.Go(func() error {
		var eerr error
		reviews, eerr = r.repo.List(ctx, productID, rating, offset, limit)
		return eerr
	})
	eg.Go(func() error {
		var eerr error
		count, eerr = r.repo.Count(ctx, productID, rating)
		return eerr
	})
	err := eg.Wait()
	return count, reviews, err
}

func (r *reviewSvc) Recompute(ctx context.Context, productID int64) (domain.Summary, error) {
	ratings, err := r.repo.Ratings(ctx, productID)
	if err != nil {
		return domain.Summary{}, err
	}
	s := domain.Summarize(ratings)
	err = r.productSvc.UpdateRatings(ctx, productID, product.Ratings{
		Average: s.Average,
		Count:   s.Count,
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("更新商品评分失败 pid=%d: %w", productID, err)
	}
	return s, nil
}
