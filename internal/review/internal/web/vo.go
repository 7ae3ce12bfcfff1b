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

package web

import (
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
)

type Review struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Uid       int64  `json:"uid"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Verified  bool   `json:"verified"`
	Ctime     int64  `json:"ctime"`
	Utime     int64  `json:"utime"`
}

func newReview(re domain.Review) Review {
	return Review{
		ID:        re.ID,
		ProductID: re.ProductID,
		Uid:       re.Uid,
		Rating:    re.Rating,
		Comment:   re.Comment,
		Verified:  re.Verified,
		Ctime:     re.Ctime,
		Utime:     re.Utime,
	}
}

type ReviewListResp struct {
	Total int64    `json:"total"`
	List  []Review `json:"list"`
}

func newReviewListResp(total int64, reviews []domain.Review) ReviewListResp {
	return ReviewListResp{
		Total: total,
		List: slice.Map(reviews, func(idx int, src domain.Review) Review {
			return newReview(src)
		}),
	}
}

type ListReq struct {
	ProductID int64 `json:"productId"`
	// Rating 为 0 时返回全部评分
	Rating int `json:"rating,omitempty"`
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type SaveReq struct {
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (r SaveReq) toDomain(uid int64) domain.Review {
	return domain.Review{
		ProductID: r.ProductID,
		Uid:       uid,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
}

type DeleteReq struct {
	ProductID int64 `json:"productId"`
}

type DetailReq struct {
	ID int64 `json:"id,omitempty"`
}
