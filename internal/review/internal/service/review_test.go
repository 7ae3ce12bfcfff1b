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
	"testing"

	ordermocks "github.com/ecodeclub/webmall/internal/order/mocks"
	"github.com/ecodeclub/webmall/internal/product"
	productmocks "github.com/ecodeclub/webmall/internal/product/mocks"
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	repomocks "github.com/ecodeclub/webmall/internal/review/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	repo    *repomocks.MockReviewRepo
	order   *ordermocks.MockService
	product *productmocks.MockService
}

func newTestService(ctrl *gomock.Controller) (ReviewSvc, testMocks) {
	m := testMocks{
		repo:    repomocks.NewMockReviewRepo(ctrl),
		order:   ordermocks.NewMockService(ctrl),
		product: productmocks.NewMockService(ctrl),
	}
	return NewReviewSvc(m.repo, m.order, m.product), m
}

func expectRecompute(m testMocks, pid int64, ratings []int, want product.Ratings) {
	m.repo.EXPECT().Ratings(gomock.Any(), pid).Return(ratings, nil)
	m.product.EXPECT().UpdateRatings(gomock.Any(), pid, want).Return(nil)
}

func TestReviewSvc_Save(t *testing.T) {
	newReview := func() domain.Review {
		return domain.Review{ProductID: 1, Uid: 100, Rating: 4, Comment: "质量不错"}
	}
	testCases := []struct {
		name   string
		review func() domain.Review
		mock   func(m testMocks)

		wantID  int64
		wantErr error
	}{
		{
			name:   "首次评价",
			review: newReview,
			mock: func(m testMocks) {
				m.repo.EXPECT().FindByUser(gomock.Any(), int64(1), int64(100)).
					Return(domain.Review{}, ErrReviewNotFound)
				m.order.EXPECT().HasPurchased(gomock.Any(), int64(100), int64(1)).Return(true, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, re domain.Review) (int64, error) {
						assert.True(t, re.Verified)
						assert.Equal(t, 4, re.Rating)
						return 9, nil
					})
				expectRecompute(m, 1, []int{4, 5}, product.Ratings{Average: 4.5, Count: 2})
			},
			wantID: 9,
		},
		{
			name:   "修改已有评价不再检查购买记录",
			review: newReview,
			mock: func(m testMocks) {
				m.repo.EXPECT().FindByUser(gomock.Any(), int64(1), int64(100)).
					Return(domain.Review{ID: 7, ProductID: 1, Uid: 100, Rating: 1, Comment: "差"}, nil)
				m.repo.EXPECT().Update(gomock.Any(), domain.Review{
					ID: 7, ProductID: 1, Uid: 100, Rating: 4, Comment: "质量不错",
				}).Return(nil)
				expectRecompute(m, 1, []int{4}, product.Ratings{Average: 4, Count: 1})
			},
			wantID: 7,
		},
		{
			name:   "没有购买",
			review: newReview,
			mock: func(m testMocks) {
				m.repo.EXPECT().FindByUser(gomock.Any(), int64(1), int64(100)).
					Return(domain.Review{}, ErrReviewNotFound)
				m.order.EXPECT().HasPurchased(gomock.Any(), int64(100), int64(1)).Return(false, nil)
			},
			wantErr: ErrNotPurchased,
		},
		{
			name: "评分超出范围",
			review: func() domain.Review {
				re := newReview()
				re.Rating = 6
				return re
			},
			mock:    func(m testMocks) {},
			wantErr: ErrInvalidReview,
		},
		{
			name:   "并发重复创建",
			review: newReview,
			mock: func(m testMocks) {
				m.repo.EXPECT().FindByUser(gomock.Any(), int64(1), int64(100)).
					Return(domain.Review{}, ErrReviewNotFound)
				m.order.EXPECT().HasPurchased(gomock.Any(), int64(100), int64(1)).Return(true, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(0), ErrDuplicateReview)
			},
			wantErr: ErrDuplicateReview,
		},
		{
			name:   "更新商品评分失败",
			review: newReview,
			mock: func(m testMocks) {
				m.repo.EXPECT().FindByUser(gomock.Any(), int64(1), int64(100)).
					Return(domain.Review{}, ErrReviewNotFound)
				m.order.EXPECT().HasPurchased(gomock.Any(), int64(100), int64(1)).Return(true, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(9), nil)
				m.repo.EXPECT().Ratings(gomock.Any(), int64(1)).Return([]int{4}, nil)
				m.product.EXPECT().UpdateRatings(gomock.Any(), int64(1), gomock.Any()).
					Return(product.ErrProductNotFound)
			},
			wantID:  9,
			wantErr: product.ErrProductNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newTestService(ctrl)
			tc.mock(m)
			id, err := svc.Save(context.Background(), tc.review())
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestReviewSvc_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestService(ctrl)
	re := domain.Review{ID: 7, ProductID: 1, Uid: 100, Rating: 1}

	m.repo.EXPECT().FindByUser(gomock.Any(), int64(1), int64(100)).Return(re, nil)
	m.repo.EXPECT().Delete(gomock.Any(), re).Return(nil)
	// 删除最后一条评价后评分归零
	expectRecompute(m, 1, nil, product.Ratings{})
	require.NoError(t, svc.Delete(context.Background(), 100, 1))

	m.repo.EXPECT().FindByUser(gomock.Any(), int64(2), int64(100)).Return(domain.Review{}, ErrReviewNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 100, 2), ErrReviewNotFound)
}

func TestReviewSvc_AdminDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestService(ctrl)
	re := domain.Review{ID: 7, ProductID: 3, Uid: 100, Rating: 2}

	m.repo.EXPECT().Info(gomock.Any(), int64(7)).Return(re, nil)
	m.repo.EXPECT().Delete(gomock.Any(), re).Return(nil)
	expectRecompute(m, 3, []int{5, 4, 4}, product.Ratings{Average: 4.3, Count: 3})
	require.NoError(t, svc.AdminDelete(context.Background(), 7))
}

func TestReviewSvc_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestService(ctrl)
	reviews := []domain.Review{{ID: 2, ProductID: 1}, {ID: 1, ProductID: 1}}
	m.repo.EXPECT().List(gomock.Any(), int64(1), 5, 0, 10).Return(reviews, nil)
	m.repo.EXPECT().Count(gomock.Any(), int64(1), 5).Return(int64(12), nil)

	total, got, err := svc.List(context.Background(), 1, 5, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, reviews, got)

	m.repo.EXPECT().List(gomock.Any(), int64(2), 0, 0, 10).Return(nil, errors.New("mock db error"))
	m.repo.EXPECT().Count(gomock.Any(), int64(2), 0).Return(int64(0), nil)
	_, _, err = svc.List(context.Background(), 2, 0, 0, 10)
	assert.Error(t, err)
}
