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

	"github.com/shopspring/decimal"
)

type Status uint8

const (
	StatusPending Status = iota + 1
	StatusConfirmed
	StatusProcessing
	StatusReadyForDelivery
	StatusShipped
	StatusOutForDelivery
	StatusDelivered
	StatusCancelled
	StatusRefunded
)

var statusNames = map[Status]string{
	StatusPending:          "pending",
	StatusConfirmed:        "confirmed",
	StatusProcessing:       "processing",
	StatusReadyForDelivery: "ready_for_delivery",
	StatusShipped:          "shipped",
	StatusOutForDelivery:   "out_for_delivery",
	StatusDelivered:        "delivered",
	StatusCancelled:        "cancelled",
	StatusRefunded:         "refunded",
}

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus 空字符串或者无法识别的状态返回 false
func ParseStatus(str string) (Status, bool) {
	str = strings.ToLower(strings.TrimSpace(str))
	for s, name := range statusNames {
		if name == str {
			return s, true
		}
	}
	return 0, false
}

// IsTerminal 已送达、已取消、已退款之后不再流转
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// IsClientTarget 客户端请求只允许流转到这几个状态，其余状态由支付回调等内部流程驱动
func (s Status) IsClientTarget() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo 履约链上只能向后走，取消和退款在送达之前的任意状态都可以
func (s Status) CanTransitionTo(target Status) bool {
	if !s.IsValid() || !target.IsValid() || s.IsTerminal() {
		return false
	}
	if target == StatusCancelled || target == StatusRefunded {
		return true
	}
	return target > s && target <= StatusDelivered
}

type Order struct {
	ID              int64
	SN              string
	BuyerID         int64
	ContactEmail    string
	Items           []Item
	ShippingAddress Address
	PaymentMethod   string
	Pricing         Pricing
	// 没有使用优惠券时 Coupon.Code 为空
	Coupon         CouponSnapshot
	Status         Status
	IsPaid         bool
	PaidAt         int64
	PaymentResult  PaymentResult
	IsDelivered    bool
	DeliveredAt    int64
	TrackingNumber string
	Carrier        string
	CancelReason   string
	CancelledAt    int64
	CancelledBy    int64
	Ctime          int64
	Utime          int64
}

func (o Order) HasCoupon() bool {
	return o.Coupon.Code != ""
}

// HasVendor 订单中至少有一个商品属于该商家
func (o Order) HasVendor(vendorID int64) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

// VendorIDs 去重，保持订单项中的先后顺序
func (o Order) VendorIDs() []int64 {
	return distinct(o.Items, func(item Item) int64 { return item.VendorID })
}

func (o Order) ProductIDs() []int64 {
	return distinct(o.Items, func(item Item) int64 { return item.ProductID })
}

func distinct(items []Item, key func(item Item) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	res := make([]int64, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, k)
	}
	return res
}

// Item 下单时的商品快照，之后商品如何修改都不影响订单
type Item struct {
	ProductID   int64
	VariantID   int64
	VendorID    int64
	Name        string
	VariantName string
	Image       string
	Quantity    int64
	Price       decimal.Decimal
}

func (i Item) HasVariant() bool {
	return i.VariantID > 0
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

type Address struct {
	FullName string
	Phone    string
	Street   string
	City     string
	State    string
	ZipCode  string
	Country  string
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}

// Pricing TotalPrice 是扣除优惠之后的实付金额
type Pricing struct {
	ItemsPrice     decimal.Decimal
	TaxPrice       decimal.Decimal
	ShippingPrice  decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalPrice     decimal.Decimal
}

type CouponSnapshot struct {
	ID            int64
	Code          string
	DiscountType  uint8
	DiscountValue decimal.Decimal
}

// PaymentResult 支付渠道回调的结果
type PaymentResult struct {
	Provider  string
	Reference string
	Status    string
	Amount    decimal.Decimal
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Actor 发起操作的人
type Actor struct {
	UID  int64
	Role Role
}
