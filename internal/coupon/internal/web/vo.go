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
	"time"

	"github.com/ecodeclub/webmall/internal/coupon/internal/domain"
	"github.com/shopspring/decimal"
)

type Page struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type IDReq struct {
	ID int64 `json:"id"`
}

type ValidateReq struct {
	Code     string `json:"code"`
	Subtotal string `json:"subtotal"`
}

type ValidateResp struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Discount string `json:"discount"`
	Coupon   Coupon `json:"coupon"`
}

type Coupon struct {
	ID                int64  `json:"id,omitempty"`
	Code              string `json:"code"`
	Description       string `json:"description,omitempty"`
	DiscountType      uint8  `json:"discountType"`
	DiscountValue     string `json:"discountValue"`
	MaxDiscountAmount string `json:"maxDiscountAmount,omitempty"`
	MinPurchaseAmount string `json:"minPurchaseAmount,omitempty"`
	UsageLimit        int64  `json:"usageLimit,omitempty"`
	UsedCount         int64  `json:"usedCount,omitempty"`
	PerUserLimit      int64  `json:"perUserLimit,omitempty"`
	StartDate         int64  `json:"startDate"`
	EndDate           int64  `json:"endDate"`
	IsActive          bool   `json:"isActive"`
	Utime             int64  `json:"utime,omitempty"`
}

type CouponList struct {
	Total   int64    `json:"total,omitempty"`
	Coupons []Coupon `json:"coupons"`
}

func newCoupon(c domain.Coupon) Coupon {
	res := Coupon{
		ID:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      c.DiscountType.ToUint8(),
		DiscountValue:     c.DiscountValue.StringFixed(2),
		MinPurchaseAmount: c.MinPurchaseAmount.StringFixed(2),
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		PerUserLimit:      c.PerUserLimit,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		IsActive:          c.IsActive,
		Utime:             c.Utime,
	}
	if c.MaxDiscountAmount.Valid {
		res.MaxDiscountAmount = c.MaxDiscountAmount.Decimal.StringFixed(2)
	}
	return res
}

// newPublicCoupon 顾客只能看到折扣规则，看不到使用统计
func newPublicCoupon(c domain.Coupon) Coupon {
	res := newCoupon(c)
	res.ID = 0
	res.UsageLimit = 0
	res.UsedCount = 0
	res.Utime = 0
	return res
}

func (c Coupon) toDomain() (domain.Coupon, error) {
	value, err := decimal.NewFromString(c.DiscountValue)
	if err != nil {
		return domain.Coupon{}, err
	}
	minPurchase := decimal.Zero
	if c.MinPurchaseAmount != "" {
		minPurchase, err = decimal.NewFromString(c.MinPurchaseAmount)
		if err != nil {
			return domain.Coupon{}, err
		}
	}
	var maxDiscount decimal.NullDecimal
	if c.MaxDiscountAmount != "" {
		maxDiscount.Decimal, err = decimal.NewFromString(c.MaxDiscountAmount)
		if err != nil {
			return domain.Coupon{}, err
		}
		maxDiscount.Valid = true
	}
	end := c.EndDate
	if end == 0 {
		end = time.Now().AddDate(1, 0, 0).UnixMilli()
	}
	return domain.Coupon{
		ID:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      domain.DiscountType(c.DiscountType),
		DiscountValue:     value,
		MaxDiscountAmount: maxDiscount,
		MinPurchaseAmount: minPurchase,
		UsageLimit:        c.UsageLimit,
		PerUserLimit:      c.PerUserLimit,
		StartDate:         c.StartDate,
		EndDate:           end,
		IsActive:          c.IsActive,
	}, nil
}
