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

	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const uniqueIndexErrNo uint16 = 1062

// 与 domain.StatusPending、domain.StatusProcessing 保持一致
const (
	statusPending    uint8 = 1
	statusProcessing uint8 = 3
)

const (
	restockTaskPending uint8 = 1
	restockTaskDone    uint8 = 2
)

var (
	ErrOrderNotFound = errors.New("订单不存在")
	ErrDuplicateSN   = errors.New("订单号重复")
)

type OrderDAO interface {
	// Create 订单和订单项在同一个事务中写入
	Create(ctx context.Context, o Order, items []OrderItem) (int64, error)
	FindByID(ctx context.Context, id int64) (Order, error)
	FindItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]OrderItem, error)
	// CompareAndSwapStatus 只有当前状态仍然是 from 时才会更新，返回是否更新成功
	CompareAndSwapStatus(ctx context.Context, o Order, from uint8) (bool, error)
	// MarkPaid 只更新待支付且未付款的订单
	MarkPaid(ctx context.Context, id int64, paidAt int64, result PaymentResult) (bool, error)

	ListByBuyer(ctx context.Context, buyerID int64, status uint8, offset, limit int) ([]Order, error)
	CountByBuyer(ctx context.Context, buyerID int64, status uint8) (int64, error)
	ListByVendor(ctx context.Context, vendorID int64, status uint8, offset, limit int) ([]Order, error)
	CountByVendor(ctx context.Context, vendorID int64, status uint8) (int64, error)
	List(ctx context.Context, status uint8, offset, limit int) ([]Order, error)
	Count(ctx context.Context, status uint8) (int64, error)

	HasPurchased(ctx context.Context, buyerID, productID int64) (bool, error)
	FindTimeoutOrders(ctx context.Context, ctime int64, limit int) ([]Order, error)

	CreateRestockTasks(ctx context.Context, tasks []RestockTask) error
	FindPendingRestockTasks(ctx context.Context, limit int) ([]RestockTask, error)
	// CompleteRestockTask 只有待处理的任务才会被标记为完成，多个实例同时执行时只有一个能抢到
	CompleteRestockTask(ctx context.Context, id int64) (bool, error)
	// ReopenRestockTask 回补失败后把任务放回待处理
	ReopenRestockTask(ctx context.Context, id int64) error
}

type OrderGORMDAO struct {
	db *egorm.Component
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &OrderGORMDAO{db: db}
}

func (d *OrderGORMDAO) Create(ctx context.Context, o Order, items []OrderItem) (int64, error) {
	now := time.Now().UnixMilli()
	o.Ctime, o.Utime = now, now
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderId = o.Id
			items[i].Ctime, items[i].Utime = now, now
		}
		return tx.Create(&items).Error
	})
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == uniqueIndexErrNo {
		return 0, ErrDuplicateSN
	}
	return o.Id, err
}

func (d *OrderGORMDAO) FindByID(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (d *OrderGORMDAO) FindItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]OrderItem, error) {
	var items []OrderItem
	if len(orderIDs) == 0 {
		return items, nil
	}
	err := d.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (d *OrderGORMDAO) CompareAndSwapStatus(ctx context.Context, o Order, from uint8) (bool, error) {
	o.Utime = time.Now().UnixMilli()
	res := d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", o.Id, from).
		Select("status", "is_delivered", "delivered_at", "tracking_number", "carrier",
			"cancel_reason", "cancelled_at", "cancelled_by", "utime").
		Updates(&o)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *OrderGORMDAO) MarkPaid(ctx context.Context, id int64, paidAt int64, result PaymentResult) (bool, error) {
	res := d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ? AND is_paid = ?", id, statusPending, false).
		Updates(map[string]any{
			"status":         statusProcessing,
			"is_paid":        true,
			"paid_at":        paidAt,
			"payment_result": sqlx.JsonColumn[PaymentResult]{Val: result, Valid: true},
			"utime":          time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *OrderGORMDAO) ListByBuyer(ctx context.Context, buyerID int64, status uint8, offset, limit int) ([]Order, error) {
	var os []Order
	err := d.withStatus(d.db.WithContext(ctx).Where("buyer_id = ?", buyerID), status).
		Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&os).Error
	return os, err
}

func (d *OrderGORMDAO) CountByBuyer(ctx context.Context, buyerID int64, status uint8) (int64, error) {
	var res int64
	err := d.withStatus(d.db.WithContext(ctx).Model(&Order{}).Where("buyer_id = ?", buyerID), status).
		Count(&res).Error
	return res, err
}

func (d *OrderGORMDAO) ListByVendor(ctx context.Context, vendorID int64, status uint8, offset, limit int) ([]Order, error) {
	var os []Order
	err := d.withStatus(d.vendorScope(ctx, vendorID), status).
		Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&os).Error
	return os, err
}

func (d *OrderGORMDAO) CountByVendor(ctx context.Context, vendorID int64, status uint8) (int64, error) {
	var res int64
	err := d.withStatus(d.vendorScope(ctx, vendorID).Model(&Order{}), status).
		Count(&res).Error
	return res, err
}

func (d *OrderGORMDAO) vendorScope(ctx context.Context, vendorID int64) *gorm.DB {
	db := d.db.WithContext(ctx)
	sub := db.Model(&OrderItem{}).Select("order_id").Where("vendor_id = ?", vendorID)
	return db.Where("id IN (?)", sub)
}

func (d *OrderGORMDAO) List(ctx context.Context, status uint8, offset, limit int) ([]Order, error) {
	var os []Order
	err := d.withStatus(d.db.WithContext(ctx), status).
		Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&os).Error
	return os, err
}

func (d *OrderGORMDAO) Count(ctx context.Context, status uint8) (int64, error) {
	var res int64
	err := d.withStatus(d.db.WithContext(ctx).Model(&Order{}), status).Count(&res).Error
	return res, err
}

// withStatus status 为 0 表示不过滤
func (d *OrderGORMDAO) withStatus(db *gorm.DB, status uint8) *gorm.DB {
	if status == 0 {
		return db
	}
	return db.Where("status = ?", status)
}

func (d *OrderGORMDAO) HasPurchased(ctx context.Context, buyerID, productID int64) (bool, error) {
	db := d.db.WithContext(ctx)
	sub := db.Model(&OrderItem{}).Select("order_id").Where("product_id = ?", productID)
	var res int64
	err := db.Model(&Order{}).
		Where("buyer_id = ? AND is_paid = ? AND id IN (?)", buyerID, true, sub).
		Count(&res).Error
	return res > 0, err
}

func (d *OrderGORMDAO) FindTimeoutOrders(ctx context.Context, ctime int64, limit int) ([]Order, error) {
	var os []Order
	err := d.db.WithContext(ctx).
		Where("status = ? AND is_paid = ? AND ctime < ?", statusPending, false, ctime).
		Order("id ASC").
		Limit(limit).
		Find(&os).Error
	return os, err
}

func (d *OrderGORMDAO) CreateRestockTasks(ctx context.Context, tasks []RestockTask) error {
	if len(tasks) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()
	for i := range tasks {
		tasks[i].Status = restockTaskPending
		tasks[i].Ctime = now
		tasks[i].Utime = now
	}
	return d.db.WithContext(ctx).Create(&tasks).Error
}

func (d *OrderGORMDAO) FindPendingRestockTasks(ctx context.Context, limit int) ([]RestockTask, error) {
	var res []RestockTask
	err := d.db.WithContext(ctx).
		Where("status = ?", restockTaskPending).
		Order("utime ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *OrderGORMDAO) CompleteRestockTask(ctx context.Context, id int64) (bool, error) {
	res := d.db.WithContext(ctx).Model(&RestockTask{}).
		Where("id = ? AND status = ?", id, restockTaskPending).
		Updates(map[string]any{
			"status": restockTaskDone,
			"utime":  time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (d *OrderGORMDAO) ReopenRestockTask(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Model(&RestockTask{}).
		Where("id = ? AND status = ?", id, restockTaskDone).
		Updates(map[string]any{
			"status":   restockTaskPending,
			"attempts": gorm.Expr("attempts + 1"),
			"utime":    time.Now().UnixMilli(),
		}).Error
}

type Order struct {
	Id                  int64                          `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN                  string                         `gorm:"type:varchar(32);not null;uniqueIndex:uniq_order_sn;comment:订单号"`
	BuyerId             int64                          `gorm:"not null;index:idx_buyer_id;comment:购买者ID"`
	ContactEmail        string                         `gorm:"type:varchar(255);not null;default:'';comment:通知邮箱"`
	ShippingAddress     sqlx.JsonColumn[Address]       `gorm:"type:json;comment:收货地址"`
	PaymentMethod       string                         `gorm:"type:varchar(32);not null;comment:支付方式"`
	ItemsPrice          decimal.Decimal                `gorm:"type:decimal(10,2);not null;comment:商品总价"`
	TaxPrice            decimal.Decimal                `gorm:"type:decimal(10,2);not null;comment:税费"`
	ShippingPrice       decimal.Decimal                `gorm:"type:decimal(10,2);not null;comment:运费"`
	DiscountAmount      decimal.Decimal                `gorm:"type:decimal(10,2);not null;default:0;comment:优惠金额"`
	TotalPrice          decimal.Decimal                `gorm:"type:decimal(10,2);not null;comment:实付总价"`
	CouponId            int64                          `gorm:"not null;default:0;comment:优惠券ID"`
	CouponCode          string                         `gorm:"type:varchar(64);not null;default:'';comment:优惠券码快照"`
	CouponDiscountType  uint8                          `gorm:"type:tinyint unsigned;not null;default:0;comment:优惠类型快照"`
	CouponDiscountValue decimal.Decimal                `gorm:"type:decimal(10,2);not null;default:0;comment:优惠值快照"`
	Status              uint8                          `gorm:"type:tinyint unsigned;not null;default:1;index:idx_status_ctime,priority:1;comment:订单状态 1=待支付 2=已确认 3=处理中 4=待配送 5=已发货 6=配送中 7=已送达 8=已取消 9=已退款"`
	IsPaid              bool                           `gorm:"not null;default:false;comment:是否已支付"`
	PaidAt              int64                          `gorm:"not null;default:0;comment:支付时间"`
	PaymentResult       sqlx.JsonColumn[PaymentResult] `gorm:"type:json;comment:支付结果"`
	IsDelivered         bool                           `gorm:"not null;default:false;comment:是否已送达"`
	DeliveredAt         int64                          `gorm:"not null;default:0;comment:送达时间"`
	TrackingNumber      string                         `gorm:"type:varchar(64);not null;default:'';comment:物流单号"`
	Carrier             string                         `gorm:"type:varchar(64);not null;default:'';comment:承运商"`
	CancelReason        string                         `gorm:"type:varchar(512);not null;default:'';comment:取消原因"`
	CancelledAt         int64                          `gorm:"not null;default:0;comment:取消时间"`
	CancelledBy         int64                          `gorm:"not null;default:0;comment:取消人,0表示系统"`
	Ctime               int64                          `gorm:"index:idx_status_ctime,priority:2"`
	Utime               int64
}

type OrderItem struct {
	Id          int64           `gorm:"primaryKey;autoIncrement;comment:订单项自增ID"`
	OrderId     int64           `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	ProductId   int64           `gorm:"not null;index:idx_product_id;comment:商品ID"`
	VariantId   int64           `gorm:"not null;default:0;comment:规格ID,0表示扣减商品本身库存"`
	VendorId    int64           `gorm:"not null;index:idx_vendor_id;comment:商家ID"`
	Name        string          `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	VariantName string          `gorm:"type:varchar(255);not null;default:'';comment:规格名称快照"`
	Image       string          `gorm:"type:varchar(512);not null;default:'';comment:商品图片快照"`
	Quantity    int64           `gorm:"not null;comment:购买数量"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:下单时单价"`
	Ctime       int64
	Utime       int64
}

type Address struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

type PaymentResult struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
}

type RestockTask struct {
	Id        int64 `gorm:"primaryKey;autoIncrement;comment:回补任务自增ID"`
	OrderId   int64 `gorm:"not null;default:0;index:idx_order_id;comment:订单ID,0表示下单失败时的补偿"`
	ProductId int64 `gorm:"not null;comment:商品ID"`
	VariantId int64 `gorm:"not null;default:0;comment:规格ID,0表示商品本身库存"`
	Quantity  int64 `gorm:"not null;comment:待回补数量"`
	Status    uint8 `gorm:"type:tinyint unsigned;not null;default:1;index:idx_status_utime,priority:1;comment:1=待回补 2=已完成"`
	Attempts  int   `gorm:"not null;default:0;comment:定时任务重试次数"`
	Ctime     int64
	Utime     int64 `gorm:"index:idx_status_utime,priority:2"`
}
