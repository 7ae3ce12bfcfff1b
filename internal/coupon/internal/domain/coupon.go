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

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType uint8

func (t DiscountType) ToUint8() uint8 {
	return uint8(t)
}

func (t DiscountType) String() string {
	switch t {
	case DiscountTypePercentage:
		return "percentage"
	case DiscountTypeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

const (
	DiscountTypePercentage DiscountType = 1
	DiscountTypeFixed      DiscountType = 2
)

var hundred = decimal.NewFromInt(100)

type Coupon struct {
	ID            int64
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	// MaxDiscountAmount 只对百分比折扣生效
	MaxDiscountAmount decimal.NullDecimal
	MinPurchaseAmount decimal.Decimal
	// UsageLimit 为 0 表示不限制总次数
	UsageLimit   int64
	UsedCount    int64
	PerUserLimit int64
	StartDate    int64
	EndDate      int64
	IsActive     bool
	Ctime        int64
	Utime        int64
}

// UserUsage 某个用户对某张券的使用记录，没有用过时 UsedCount 为 0
type UserUsage struct {
	CouponID  int64
	UID       int64
	UsedCount int64
	LastUsed  int64
}

type Validation struct {
	Valid  bool
	Reason string
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate 按顺序检查，返回第一个不满足的原因
func (c Coupon) Validate(now time.Time, usage UserUsage, subtotal decimal.Decimal) Validation {
	ms := now.UnixMilli()
	switch {
	case !c.IsActive:
		return Validation{Reason: "优惠券未启用"}
	case ms < c.StartDate:
		return Validation{Reason: "优惠券尚未生效"}
	case ms > c.EndDate:
		return Validation{Reason: "优惠券已过期"}
	case c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit:
		return Validation{Reason: "优惠券已达使用上限"}
	case subtotal.LessThan(c.MinPurchaseAmount):
		return Validation{Reason: fmt.Sprintf("订单金额需满 %s 才可使用", c.MinPurchaseAmount.StringFixed(2))}
	case usage.UsedCount >= c.PerUserLimit:
		return Validation{Reason: "您已使用过该优惠券"}
	}
	return Validation{Valid: true}
}

// ComputeDiscount 折扣金额四舍五入到分，且不会超过 subtotal
func (c Coupon) ComputeDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscountAmount.Valid && discount.GreaterThan(c.MaxDiscountAmount.Decimal) {
			discount = c.MaxDiscountAmount.Decimal
		}
	case DiscountTypeFixed:
		discount = decimal.Min(c.DiscountValue, subtotal)
	default:
		return decimal.Zero
	}
	discount = decimal.Min(discount, subtotal)
	return discount.Round(2)
}

// Snapshot 下单时冻结的优惠券信息，之后券本身如何变化都不影响订单
func (c Coupon) Snapshot() Snapshot {
	return Snapshot{
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
	}
}

type Snapshot struct {
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// Evaluation 对某个用户某笔订单试算的结果
type Evaluation struct {
	Coupon     Coupon
	Validation Validation
	Discount   decimal.Decimal
}
