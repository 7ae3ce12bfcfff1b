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
	"gorm.io/gorm"
)

const uniqueIndexErrNo uint16 = 1062

var (
	ErrReviewNotFound  = gorm.ErrRecordNotFound
	ErrDuplicateReview = errors.New("已经评价过该商品")
)

type ReviewDAO interface {
	// Create 同一个用户对同一个商品重复创建返回 ErrDuplicateReview
	Create(ctx context.Context, review Review) (int64, error)
	// Update 只修改评分和内容
	Update(ctx context.Context, review Review) error
	Delete(ctx context.Context, id int64) error

	Get(ctx context.Context, id int64) (Review, error)
	GetByUser(ctx context.Context, productID, uid int64) (Review, error)

	// List 按时间倒序分页，rating 为 0 时不过滤
	List(ctx context.Context, productID int64, rating, offset, limit int) ([]Review, error)
	Count(ctx context.Context, productID int64, rating int) (int64, error)

	// Ratings 商品全部评价的评分
	Ratings(ctx context.Context, productID int64) ([]int, error)
}

type reviewDao struct {
	db *egorm.Component
}

func NewReviewDAO(db *egorm.Component) ReviewDAO {
	return &reviewDao{
		db: db,
	}
}

func (r *reviewDao) Create(ctx context.Context, review Review) (int64, error) {
	now := time.Now().UnixMilli()
	review.Utime = now
	review.Ctime = now
	err := r.db.WithContext(ctx).Create(&review).Error
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == uniqueIndexErrNo {
		return 0, ErrDuplicateReview
	}
	return review.ID, err
}

func (r *reviewDao) Update(ctx context.Context, review Review) error {
	return r.db.WithContext(ctx).Model(&Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
			"utime":   time.Now().UnixMilli(),
		}).Error
}

func (r *reviewDao) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *reviewDao) Get(ctx context.Context, id int64) (Review, error) {
	var review Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	return review, err
}

func (r *reviewDao) GetByUser(ctx context.Context, productID, uid int64) (Review, error) {
	var review Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND uid = ?", productID, uid).
		First(&review).Error
	return review, err
}

func (r *reviewDao) List(ctx context.Context, productID int64, rating, offset, limit int) ([]Review, error) {
	var reviews []Review
	err := r.filter(r.db.WithContext(ctx), productID, rating).
		Order("ctime DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewDao) Count(ctx context.Context, productID int64, rating int) (int64, error) {
	var count int64
	err := r.filter(r.db.WithContext(ctx).Model(&Review{}), productID, rating).Count(&count).Error
	return count, err
}

func (r *reviewDao) filter(db *gorm.DB, productID int64, rating int) *gorm.DB {
	db = db.Where("product_id = ?", productID)
	if rating > 0 {
		db = db.Where("rating = ?", rating)
	}
	return db
}

func (r *reviewDao) Ratings(ctx context.Context, productID int64) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).Model(&Review{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

type Review struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID int64  `gorm:"column:product_id;not null;uniqueIndex:uniq_product_uid,priority:1;index:idx_product_ctime,priority:1"`
	Uid       int64  `gorm:"column:uid;not null;uniqueIndex:uniq_product_uid,priority:2"`
	Rating    int    `gorm:"column:rating;type:tinyint;not null;comment:1-5 分"`
	Comment   string `gorm:"column:comment;type:varchar(1024);not null"`
	Verified  bool   `gorm:"column:verified;not null;default:false;comment:是否购买后评价"`
	Ctime     int64  `gorm:"column:ctime;index:idx_product_ctime,priority:2"`
	Utime     int64  `gorm:"column:utime"`
}
