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
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/shopspring/decimal"
)

// CreateOrderReq 金额使用字符串，避免浮点误差
type CreateOrderReq struct {
	// RequestID 请求去重，防止订单重复提交
	RequestID       string    `json:"requestID"`
	Items           []ItemReq `json:"items"`
	ShippingAddress Address   `json:"shippingAddress"`
	PaymentMethod   string    `json:"paymentMethod"`
	ContactEmail    string    `json:"contactEmail"`
	ItemsPrice      string    `json:"itemsPrice"`
	TaxPrice        string    `json:"taxPrice"`
	ShippingPrice   string    `json:"shippingPrice"`
	TotalPrice      string    `json:"totalPrice"`
	CouponCode      string    `json:"couponCode,omitempty"`
	RequireCoupon   bool      `json:"requireCoupon,omitempty"`
}

func (r CreateOrderReq) toService(buyerID int64) (service.CreateOrderReq, error) {
	prices := make([]decimal.Decimal, 0, 4)
	for _, s := range []string{r.ItemsPrice, r.TaxPrice, r.ShippingPrice, r.TotalPrice} {
		if s == "" {
			prices = append(prices, decimal.Zero)
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return service.CreateOrderReq{}, fmt.Errorf("金额格式错误 %q: %w", s, err)
		}
		prices = append(prices, d)
	}
	method := r.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}
	return service.CreateOrderReq{
		BuyerID:      buyerID,
		ContactEmail: r.ContactEmail,
		Items: slice.Map(r.Items, func(idx int, src ItemReq) service.ItemReq {
			return service.ItemReq{ProductID: src.ProductID, VariantID: src.VariantID, Quantity: src.Quantity}
		}),
		ShippingAddress: r.ShippingAddress.toDomain(),
		PaymentMethod:   method,
		Pricing: domain.Pricing{
			ItemsPrice:    prices[0],
			TaxPrice:      prices[1],
			ShippingPrice: prices[2],
			TotalPrice:    prices[3],
		},
		CouponCode:    r.CouponCode,
		RequireCoupon: r.RequireCoupon,
	}, nil
}

type ItemReq struct {
	ProductID int64 `json:"productId"`
	VariantID int64 `json:"variantId,omitempty"`
	Quantity  int64 `json:"quantity"`
}

type Address struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

func (a Address) toDomain() domain.Address {
	return domain.Address{
		FullName: a.FullName,
		Phone:    a.Phone,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
}

func newAddress(a domain.Address) Address {
	return Address{
		FullName: a.FullName,
		Phone:    a.Phone,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
}

type IDReq struct {
	ID int64 `json:"id"`
}

// ListOrdersReq Status 为空表示全部状态
type ListOrdersReq struct {
	Status string `json:"status,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total,omitempty"`
	Orders []Order `json:"orders,omitempty"`
}

type UpdateStatusReq struct {
	ID             int64  `json:"id"`
	Status         string `json:"status"`
	CancelReason   string `json:"cancelReason,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
}

type ExportReq struct {
	Status string `json:"status,omitempty"`
}

// StockShortage 库存不足时告诉前端是哪一个商品
type StockShortage struct {
	ProductID int64  `json:"productId"`
	VariantID int64  `json:"variantId,omitempty"`
	Name      string `json:"name"`
	Requested int64  `json:"requested"`
}

type Order struct {
	ID              int64          `json:"id"`
	SN              string         `json:"sn"`
	BuyerID         int64          `json:"buyerId"`
	Items           []OrderItem    `json:"items"`
	ShippingAddress Address        `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	ItemsPrice      string         `json:"itemsPrice"`
	TaxPrice        string         `json:"taxPrice"`
	ShippingPrice   string         `json:"shippingPrice"`
	DiscountAmount  string         `json:"discountAmount"`
	TotalPrice      string         `json:"totalPrice"`
	CouponApplied   *CouponApplied `json:"couponApplied,omitempty"`
	Status          string         `json:"status"`
	IsPaid          bool           `json:"isPaid"`
	PaidAt          int64          `json:"paidAt,omitempty"`
	IsDelivered     bool           `json:"isDelivered"`
	DeliveredAt     int64          `json:"deliveredAt,omitempty"`
	TrackingNumber  string         `json:"trackingNumber,omitempty"`
	Carrier         string         `json:"carrier,omitempty"`
	CancelReason    string         `json:"cancelReason,omitempty"`
	CancelledAt     int64          `json:"cancelledAt,omitempty"`
	CancelledBy     int64          `json:"cancelledBy,omitempty"`
	Ctime           int64          `json:"ctime"`
	Utime           int64          `json:"utime"`
}

type OrderItem struct {
	ProductID   int64  `json:"productId"`
	VariantID   int64  `json:"variantId,omitempty"`
	VendorID    int64  `json:"vendorId"`
	Name        string `json:"name"`
	VariantName string `json:"variantName,omitempty"`
	Image       string `json:"image,omitempty"`
	Quantity    int64  `json:"quantity"`
	Price       string `json:"price"`
}

type CouponApplied struct {
	Code          string `json:"code"`
	DiscountType  uint8  `json:"discountType"`
	DiscountValue string `json:"discountValue"`
}

func newOrder(o domain.Order) Order {
	res := Order{
		ID:      o.ID,
		SN:      o.SN,
		BuyerID: o.BuyerID,
		Items: slice.Map(o.Items, func(idx int, src domain.Item) OrderItem {
			return OrderItem{
				ProductID:   src.ProductID,
				VariantID:   src.VariantID,
				VendorID:    src.VendorID,
				Name:        src.Name,
				VariantName: src.VariantName,
				Image:       src.Image,
				Quantity:    src.Quantity,
				Price:       src.Price.StringFixed(2),
			}
		}),
		ShippingAddress: newAddress(o.ShippingAddress),
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.Pricing.ItemsPrice.StringFixed(2),
		TaxPrice:        o.Pricing.TaxPrice.StringFixed(2),
		ShippingPrice:   o.Pricing.ShippingPrice.StringFixed(2),
		DiscountAmount:  o.Pricing.DiscountAmount.StringFixed(2),
		TotalPrice:      o.Pricing.TotalPrice.StringFixed(2),
		Status:          o.Status.String(),
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
		CancelReason:    o.CancelReason,
		CancelledAt:     o.CancelledAt,
		CancelledBy:     o.CancelledBy,
		Ctime:           o.Ctime,
		Utime:           o.Utime,
	}
	if o.HasCoupon() {
		res.CouponApplied = &CouponApplied{
			Code:          o.Coupon.Code,
			DiscountType:  o.Coupon.DiscountType,
			DiscountValue: o.Coupon.DiscountValue.StringFixed(2),
		}
	}
	return res
}

func newOrderList(os []domain.Order, total int64) ListOrdersResp {
	return ListOrdersResp{
		Total: total,
		Orders: slice.Map(os, func(idx int, src domain.Order) Order {
			return newOrder(src)
		}),
	}
}
