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

	"github.com/ecodeclub/ekit/mapx"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/repository/cache"
	"github.com/ecodeclub/webmall/internal/order/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = dao.ErrOrderNotFound
	ErrDuplicateSN   = dao.ErrDuplicateSN
)

//go:generate mockgen -source=./repository.go -package=repomocks -destination=./mocks/order.mock.go OrderRepository
type OrderRepository interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, id int64) (domain.Order, error)
	// UpdateStatus 以 from 作为期望的当前状态做 CAS 更新
	UpdateStatus(ctx context.Context, o domain.Order, from domain.Status) (bool, error)
	MarkPaid(ctx context.Context, id int64, paidAt int64, result domain.PaymentResult) (bool, error)
	ListByBuyer(ctx context.Context, buyerID int64, status domain.Status, offset, limit int) ([]domain.Order, error)
	CountByBuyer(ctx context.Context, buyerID int64, status domain.Status) (int64, error)
	ListByVendor(ctx context.Context, vendorID int64, status domain.Status, offset, limit int) ([]domain.Order, error)
	CountByVendor(ctx context.Context, vendorID int64, status domain.Status) (int64, error)
	List(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Order, error)
	Count(ctx context.Context, status domain.Status) (int64, error)
	HasPurchased(ctx context.Context, buyerID, productID int64) (bool, error)
	FindTimeoutOrders(ctx context.Context, ctime int64, limit int) ([]domain.Order, error)

	CreateRestockTasks(ctx context.Context, tasks []domain.RestockTask) error
	FindPendingRestockTasks(ctx context.Context, limit int) ([]domain.RestockTask, error)
	CompleteRestockTask(ctx context.Context, id int64) (bool, error)
	ReopenRestockTask(ctx context.Context, id int64) error
}

type orderRepository struct {
	dao    dao.OrderDAO
	cache  cache.OrderCache
	logger *elog.Component
}

func NewOrderRepository(d dao.OrderDAO, c cache.OrderCache) OrderRepository {
	return &orderRepository{
		dao:    d,
		cache:  c,
		logger: elog.DefaultLogger,
	}
}

func (o *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	id, err := o.dao.Create(ctx, o.toOrderEntity(order), o.toOrderItemEntities(order.Items))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = id
	return order, nil
}

func (o *orderRepository) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	res, err := o.cache.Get(ctx, id)
	if err == nil {
		return res, nil
	}
	entity, err := o.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	orders, err := o.withItems(ctx, []dao.Order{entity})
	if err != nil {
		return domain.Order{}, err
	}
	res = orders[0]
	if er := o.cache.Set(ctx, res); er != nil {
		o.logger.Error("回写订单缓存失败", elog.FieldErr(er), elog.Int64("oid", id))
	}
	return res, nil
}

func (o *orderRepository) UpdateStatus(ctx context.Context, order domain.Order, from domain.Status) (bool, error) {
	ok, err := o.dao.CompareAndSwapStatus(ctx, o.toOrderEntity(order), from.ToUint8())
	if err != nil {
		return false, err
	}
	o.evict(ctx, order.ID)
	return ok, nil
}

func (o *orderRepository) MarkPaid(ctx context.Context, id int64, paidAt int64, result domain.PaymentResult) (bool, error) {
	ok, err := o.dao.MarkPaid(ctx, id, paidAt, dao.PaymentResult{
		Provider:  result.Provider,
		Reference: result.Reference,
		Status:    result.Status,
		Amount:    result.Amount.StringFixed(2),
	})
	if err != nil {
		return false, err
	}
	o.evict(ctx, id)
	return ok, nil
}

func (o *orderRepository) evict(ctx context.Context, id int64) {
	if err := o.cache.Delete(ctx, id); err != nil {
		o.logger.Error("删除订单缓存失败", elog.FieldErr(err), elog.Int64("oid", id))
	}
}

func (o *orderRepository) ListByBuyer(ctx context.Context, buyerID int64, status domain.Status, offset, limit int) ([]domain.Order, error) {
	os, err := o.dao.ListByBuyer(ctx, buyerID, status.ToUint8(), offset, limit)
	if err != nil {
		return nil, err
	}
	return o.withItems(ctx, os)
}

func (o *orderRepository) CountByBuyer(ctx context.Context, buyerID int64, status domain.Status) (int64, error) {
	return o.dao.CountByBuyer(ctx, buyerID, status.ToUint8())
}

func (o *orderRepository) ListByVendor(ctx context.Context, vendorID int64, status domain.Status, offset, limit int) ([]domain.Order, error) {
	os, err := o.dao.ListByVendor(ctx, vendorID, status.ToUint8(), offset, limit)
	if err != nil {
		return nil, err
	}
	return o.withItems(ctx, os)
}

func (o *orderRepository) CountByVendor(ctx context.Context, vendorID int64, status domain.Status) (int64, error) {
	return o.dao.CountByVendor(ctx, vendorID, status.ToUint8())
}

func (o *orderRepository) List(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Order, error) {
	os, err := o.dao.List(ctx, status.ToUint8(), offset, limit)
	if err != nil {
		return nil, err
	}
	return o.withItems(ctx, os)
}

func (o *orderRepository) Count(ctx context.Context, status domain.Status) (int64, error) {
	return o.dao.Count(ctx, status.ToUint8())
}

func (o *orderRepository) HasPurchased(ctx context.Context, buyerID, productID int64) (bool, error) {
	return o.dao.HasPurchased(ctx, buyerID, productID)
}

func (o *orderRepository) FindTimeoutOrders(ctx context.Context, ctime int64, limit int) ([]domain.Order, error) {
	os, err := o.dao.FindTimeoutOrders(ctx, ctime, limit)
	if err != nil {
		return nil, err
	}
	return o.withItems(ctx, os)
}

func (o *orderRepository) CreateRestockTasks(ctx context.Context, tasks []domain.RestockTask) error {
	return o.dao.CreateRestockTasks(ctx, slice.Map(tasks, func(idx int, src domain.RestockTask) dao.RestockTask {
		return dao.RestockTask{
			OrderId:   src.OrderID,
			ProductId: src.ProductID,
			VariantId: src.VariantID,
			Quantity:  src.Quantity,
		}
	}))
}

func (o *orderRepository) FindPendingRestockTasks(ctx context.Context, limit int) ([]domain.RestockTask, error) {
	tasks, err := o.dao.FindPendingRestockTasks(ctx, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(tasks, func(idx int, src dao.RestockTask) domain.RestockTask {
		return domain.RestockTask{
			ID:        src.Id,
			OrderID:   src.OrderId,
			ProductID: src.ProductId,
			VariantID: src.VariantId,
			Quantity:  src.Quantity,
			Attempts:  src.Attempts,
			Ctime:     src.Ctime,
		}
	}), nil
}

func (o *orderRepository) CompleteRestockTask(ctx context.Context, id int64) (bool, error) {
	return o.dao.CompleteRestockTask(ctx, id)
}

func (o *orderRepository) ReopenRestockTask(ctx context.Context, id int64) error {
	return o.dao.ReopenRestockTask(ctx, id)
}

// withItems 一次查询出所有订单的订单项，再按订单分组
func (o *orderRepository) withItems(ctx context.Context, os []dao.Order) ([]domain.Order, error) {
	items, err := o.dao.FindItemsByOrderIDs(ctx, slice.Map(os, func(idx int, src dao.Order) int64 {
		return src.Id
	}))
	if err != nil {
		return nil, err
	}
	grouped := mapx.NewMultiBuiltinMap[int64, dao.OrderItem](len(os))
	for _, item := range items {
		_ = grouped.Put(item.OrderId, item)
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		orderItems, _ := grouped.Get(src.Id)
		return o.toOrderDomain(src, orderItems)
	}), nil
}

func (o *orderRepository) toOrderEntity(order domain.Order) dao.Order {
	addr := order.ShippingAddress
	return dao.Order{
		Id:           order.ID,
		SN:           order.SN,
		BuyerId:      order.BuyerID,
		ContactEmail: order.ContactEmail,
		ShippingAddress: sqlx.JsonColumn[dao.Address]{
			Val: dao.Address{
				FullName: addr.FullName,
				Phone:    addr.Phone,
				Street:   addr.Street,
				City:     addr.City,
				State:    addr.State,
				ZipCode:  addr.ZipCode,
				Country:  addr.Country,
			},
			Valid: true,
		},
		PaymentMethod:       order.PaymentMethod,
		ItemsPrice:          order.Pricing.ItemsPrice,
		TaxPrice:            order.Pricing.TaxPrice,
		ShippingPrice:       order.Pricing.ShippingPrice,
		DiscountAmount:      order.Pricing.DiscountAmount,
		TotalPrice:          order.Pricing.TotalPrice,
		CouponId:            order.Coupon.ID,
		CouponCode:          order.Coupon.Code,
		CouponDiscountType:  order.Coupon.DiscountType,
		CouponDiscountValue: order.Coupon.DiscountValue,
		Status:              order.Status.ToUint8(),
		IsDelivered:         order.IsDelivered,
		DeliveredAt:         order.DeliveredAt,
		TrackingNumber:      order.TrackingNumber,
		Carrier:             order.Carrier,
		CancelReason:        order.CancelReason,
		CancelledAt:         order.CancelledAt,
		CancelledBy:         order.CancelledBy,
	}
}

func (o *orderRepository) toOrderItemEntities(items []domain.Item) []dao.OrderItem {
	return slice.Map(items, func(idx int, src domain.Item) dao.OrderItem {
		return dao.OrderItem{
			ProductId:   src.ProductID,
			VariantId:   src.VariantID,
			VendorId:    src.VendorID,
			Name:        src.Name,
			VariantName: src.VariantName,
			Image:       src.Image,
			Quantity:    src.Quantity,
			Price:       src.Price,
		}
	})
}

func (o *orderRepository) toOrderDomain(order dao.Order, items []dao.OrderItem) domain.Order {
	addr := order.ShippingAddress.Val
	pr := order.PaymentResult.Val
	amount, _ := decimal.NewFromString(pr.Amount)
	return domain.Order{
		ID:           order.Id,
		SN:           order.SN,
		BuyerID:      order.BuyerId,
		ContactEmail: order.ContactEmail,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.Item {
			return domain.Item{
				ProductID:   src.ProductId,
				VariantID:   src.VariantId,
				VendorID:    src.VendorId,
				Name:        src.Name,
				VariantName: src.VariantName,
				Image:       src.Image,
				Quantity:    src.Quantity,
				Price:       src.Price,
			}
		}),
		ShippingAddress: domain.Address{
			FullName: addr.FullName,
			Phone:    addr.Phone,
			Street:   addr.Street,
			City:     addr.City,
			State:    addr.State,
			ZipCode:  addr.ZipCode,
			Country:  addr.Country,
		},
		PaymentMethod: order.PaymentMethod,
		Pricing: domain.Pricing{
			ItemsPrice:     order.ItemsPrice,
			TaxPrice:       order.TaxPrice,
			ShippingPrice:  order.ShippingPrice,
			DiscountAmount: order.DiscountAmount,
			TotalPrice:     order.TotalPrice,
		},
		Coupon: domain.CouponSnapshot{
			ID:            order.CouponId,
			Code:          order.CouponCode,
			DiscountType:  order.CouponDiscountType,
			DiscountValue: order.CouponDiscountValue,
		},
		Status:  domain.Status(order.Status),
		IsPaid:  order.IsPaid,
		PaidAt:  order.PaidAt,
		PaymentResult: domain.PaymentResult{
			Provider:  pr.Provider,
			Reference: pr.Reference,
			Status:    pr.Status,
			Amount:    amount,
		},
		IsDelivered:    order.IsDelivered,
		DeliveredAt:    order.DeliveredAt,
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
		CancelReason:   order.CancelReason,
		CancelledAt:    order.CancelledAt,
		CancelledBy:    order.CancelledBy,
		Ctime:          order.Ctime,
		Utime:          order.Utime,
	}
}
