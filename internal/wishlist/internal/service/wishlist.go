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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/domain"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

// maxItems 心愿单最多展示的商品数
const maxItems = 200

var (
	ErrProductNotFound    = product.ErrProductNotFound
	ErrProductUnavailable = errors.New("商品已下架")
	ErrAlreadyInWishlist  = repository.ErrDuplicateItem
	ErrNotInWishlist      = repository.ErrItemNotFound
)

//go:generate mockgen -source=./wishlist.go -package=wishlistmocks -destination=../../mocks/wishlist.mock.go Service
type Service interface {
	// List 已下架或已删除的商品不返回
	List(ctx context.Context, uid int64) ([]product.Product, error)
	// Add 返回收藏后的商品 ID 列表
	Add(ctx context.Context, uid, productID int64) ([]int64, error)
	Remove(ctx context.Context, uid, productID int64) ([]int64, error)
	Clear(ctx context.Context, uid int64) error
}

type service struct {
	repo       repository.WishlistRepository
	productSvc product.Service
	logger     *elog.Component
}

func NewService(repo repository.WishlistRepository, productSvc product.Service) Service {
	return &service{
		repo:       repo,
		productSvc: productSvc,
		logger:     elog.DefaultLogger,
	}
}

func (s *service) List(ctx context.Context, uid int64) ([]product.Product, error) {
	items, err := s.repo.List(ctx, uid, maxItems)
	if err != nil {
		return nil, err
	}
	res := make([]product.Product, 0, len(items))
	for _, item := range items {
		p, err := s.productSvc.FindByID(ctx, item.ProductID)
		if errors.Is(err, product.ErrProductNotFound) {
			s.logger.Warn("心愿单中的商品已删除",
				elog.Int64("uid", uid),
				elog.Int64("pid", item.ProductID))
			continue
		}
		if err != nil {
			return nil, err
		}
		if p.IsActive {
			res = append(res, p)
		}
	}
	return res, nil
}

func (s *service) Add(ctx context.Context, uid, productID int64) ([]int64, error) {
	p, err := s.productSvc.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: pid=%d", ErrProductUnavailable, productID)
	}
	err = s.repo.Add(ctx, domain.Item{Uid: uid, ProductID: productID})
	if err != nil {
		return nil, err
	}
	return s.productIDs(ctx, uid)
}

func (s *service) Remove(ctx context.Context, uid, productID int64) ([]int64, error) {
	if err := s.repo.Remove(ctx, uid, productID); err != nil {
		return nil, err
	}
	return s.productIDs(ctx, uid)
}

func (s *service) Clear(ctx context.Context, uid int64) error {
	return s.repo.Clear(ctx, uid)
}

func (s *service) productIDs(ctx context.Context, uid int64) ([]int64, error) {
	items, err := s.repo.List(ctx, uid, maxItems)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src domain.Item) int64 {
		return src.ProductID
	}), nil
}
