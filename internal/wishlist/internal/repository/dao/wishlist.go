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
)

const uniqueIndexErrNo uint16 = 1062

var (
	ErrDuplicateItem = errors.New("商品已在心愿单中")
	ErrItemNotFound  = errors.New("商品不在心愿单中")
)

type WishlistDAO interface {
	// Insert 重复收藏返回 ErrDuplicateItem
	Insert(ctx context.Context, item WishlistItem) error
	Delete(ctx context.Context, uid, productID int64) error
	DeleteAll(ctx context.Context, uid int64) error
	// List 按收藏时间倒序
	List(ctx context.Context, uid int64, limit int) ([]WishlistItem, error)
}

type wishlistDAO struct {
	db *egorm.Component
}

func NewWishlistDAO(db *egorm.Component) WishlistDAO {
	return &wishlistDAO{db: db}
}

func (d *wishlistDAO) Insert(ctx context.Context, item WishlistItem) error {
	item.Ctime = time.Now().UnixMilli()
	err := d.db.WithContext(ctx).Create(&item).Error
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == uniqueIndexErrNo {
		return ErrDuplicateItem
	}
	return err
}

func (d *wishlistDAO) Delete(ctx context.Context, uid, productID int64) error {
	res := d.db.WithContext(ctx).
		Where("uid = ? AND product_id = ?", uid, productID).
		Delete(&WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (d *wishlistDAO) DeleteAll(ctx context.Context, uid int64) error {
	return d.db.WithContext(ctx).Where("uid = ?", uid).Delete(&WishlistItem{}).Error
}

func (d *wishlistDAO) List(ctx context.Context, uid int64, limit int) ([]WishlistItem, error) {
	var res []WishlistItem
	err := d.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("ctime DESC, id DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

type WishlistItem struct {
	Id        int64 `gorm:"primaryKey;autoIncrement"`
	Uid       int64 `gorm:"not null;uniqueIndex:uniq_uid_product,priority:1;comment:用户ID"`
	ProductId int64 `gorm:"not null;uniqueIndex:uniq_uid_product,priority:2;comment:商品ID"`
	Ctime     int64
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
