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
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	"github.com/ecodeclub/webmall/internal/review/internal/repository/cache"
	"github.com/ecodeclub/webmall/internal/review/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrReviewNotFound  = dao.ErrReviewNotFound
	ErrDuplicateReview = dao.ErrDuplicateReview
)

//go:generate mockgen -source=./review.go -package=repomocks -destination=./mocks/review.mock.go ReviewRepo
type ReviewRepo interface {
	Create(ctx context.Context, re domain.Review) (int64, error)
	Update(ctx context.Context, re domain.Review) error
	Delete(ctx context.Context, re domain.Review) error
	Info(ctx context.Context, id int64) (domain.Review, error)
	FindByUser(ctx context.Context, productID, uid int64) (domain.Review, error)
	List(ctx context.Context, productID int64, rating, offset, limit int) ([]domain.Review, error)
	Count(ctx context.Context, productID int64, rating int) (int64, error)
	Ratings(ctx context.Context, productID int64) ([]int, error)
}

type reviewRepo struct {
	reviewDao dao.ReviewDAO
	cache     cache.ReviewCache
	logger    *elog.Component
}

func NewReviewRepo(reviewDao dao.ReviewDAO, c cache.ReviewCache) ReviewRepo {
	return &reviewRepo{
		reviewDao: reviewDao,
		cache:     c,
		logger:    elog.DefaultLogger,
	}
}

func (r *reviewRepo) Create(ctx context.Context, re domain.Review) (int64, error) {
	id, err := r.reviewDao.Create(ctx, toDaoReview(re))
	if err != nil {
		return 0, err
	}
	r.evict(ctx, re.ProductID)
	return id, nil
}

func (r *reviewRepo) Update(ctx context.Context, re domain.Review) error {
	err := r.reviewDao.Update(ctx, toDaoReview(re))
	if err != nil {
		return err
	}
	r.evict(ctx, re.ProductID)
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, re domain.Review) error {
	err := r.reviewDao.Delete(ctx, re.ID)
	if err != nil {
		return err
	}
	r.evict(ctx, re.ProductID)
	return nil
}

func (r *reviewRepo) evict(ctx context.Context, productID int64) {
	if err := r.cache.DelFirstPage(ctx, productID); err != nil {
		r.logger.Error("删除评价缓存失败",
			elog.Int64("productID", productID),
			elog.FieldErr(err))
	}
}

func (r *reviewRepo) Info(ctx context.Context, id int64) (domain.Review, error) {
	review, err := r.reviewDao.Get(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	return toDomainReview(review), nil
}

func (r *reviewRepo) FindByUser(ctx context.Context, productID, uid int64) (domain.Review, error) {
	review, err := r.reviewDao.GetByUser(ctx, productID, uid)
	if err != nil {
		return domain.Review{}, err
	}
	return toDomainReview(review), nil
}

func (r *reviewRepo) List(ctx context.Context, productID int64, rating, offset, limit int) ([]domain.Review, error) {
	if r.firstPage(rating, offset, limit) {
		page, err := r.cache.GetFirstPage(ctx, productID)
		if err == nil {
			return page.Reviews[:min(limit, len(page.Reviews))], nil
		}
	}
	reviews, err := r.reviewDao.List(ctx, productID, rating, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(reviews, func(idx int, src dao.Review) domain.Review {
		return toDomainReview(src)
	}), nil
}

func (r *reviewRepo) Count(ctx context.Context, productID int64, rating int) (int64, error) {
	if rating == 0 {
		page, err := r.cache.GetFirstPage(ctx, productID)
		if err == nil {
			return page.Total, nil
		}
		return r.refreshFirstPage(ctx, productID)
	}
	return r.reviewDao.Count(ctx, productID, rating)
}

// refreshFirstPage 回写第一页缓存并返回总数
func (r *reviewRepo) refreshFirstPage(ctx context.Context, productID int64) (int64, error) {
	total, err := r.reviewDao.Count(ctx, productID, 0)
	if err != nil {
		return 0, err
	}
	reviews, err := r.reviewDao.List(ctx, productID, 0, 0, cache.FirstPageSize)
	if err != nil {
		return 0, err
	}
	err = r.cache.SetFirstPage(ctx, productID, cache.FirstPage{
		Total: total,
		Reviews: slice.Map(reviews, func(idx int, src dao.Review) domain.Review {
			return toDomainReview(src)
		}),
	})
	if err != nil {
		r.logger.Error("回写评价缓存失败",
			elog.Int64("productID", productID),
			elog.FieldErr(err))
	}
	return total, nil
}

func (r *reviewRepo) firstPage(rating, offset, limit int) bool {
	return rating == 0 && offset == 0 && limit <= cache.FirstPageSize
}

func (r *reviewRepo) Ratings(ctx context.Context, productID int64) ([]int, error) {
	return r.reviewDao.Ratings(ctx, productID)
}

func toDaoReview(review domain.Review) dao.Review {
	return dao.Review{
		ID:        review.ID,
		ProductID: review.ProductID,
		Uid:       review.Uid,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Verified:  review.Verified,
	}
}

func toDomainReview(review dao.Review) domain.Review {
	return domain.Review{
		ID:        review.ID,
		ProductID: review.ProductID,
		Uid:       review.Uid,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Verified:  review.Verified,
		Ctime:     review.Ctime,
		Utime:     review.Utime,
	}
}
