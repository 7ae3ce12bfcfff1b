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
	"github.com/ecodeclub/webmall/internal/wishlist/internal/domain"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/repository/dao"
)

var (
	ErrDuplicateItem = dao.ErrDuplicateItem
	ErrItemNotFound  = dao.ErrItemNotFound
)

//go:generate mockgen -source=./wishlist.go -package=repomocks -destination=./mocks/wishlist.mock.go WishlistRepository
type WishlistRepository interface {
	Add(ctx context.Context, item domain.Item) error
	Remove(ctx context.Context, uid, productID int64) error
	Clear(ctx context.Context, uid int64) error
	List(ctx context.Context, uid int64, limit int) ([]domain.Item, error)
}

type wishlistRepository struct {
	dao dao.WishlistDAO
}

func NewWishlistRepository(d dao.WishlistDAO) WishlistRepository {
	return &wishlistRepository{dao: d}
}

func (r *wishlistRepository) Add(ctx context.Context, item domain.Item) error {
	return r.dao.Insert(ctx, dao.WishlistItem{
		Uid:       item.Uid,
		ProductId: item.ProductID,
	})
}

func (r *wishlistRepository) Remove(ctx context.Context, uid, productID int64) error {
	return r.dao.Delete(ctx, uid, productID)
}

func (r *wishlistRepository) Clear(ctx context.Context, uid int64) error {
	return r.dao.DeleteAll(ctx, uid)
}

func (r *wishlistRepository) List(ctx context.Context, uid int64, limit int) ([]domain.Item, error) {
	items, err := r.dao.List(ctx, uid, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.WishlistItem) domain.Item {
		return domain.Item{
			Uid:       src.Uid,
			ProductID: src.ProductId,
			Ctime:     src.Ctime,
		}
	}), nil
}
