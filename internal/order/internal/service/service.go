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
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/coupon"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/repository"
	"github.com/ecodeclub/webmall/internal/pkg/cachex"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/gotomicro/ego/core/elog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	maxSNAttempts     = 3
	compensateTimeout = 5 * time.Second

	restockRetryInterval = 100 * time.Millisecond
	restockMaxRetries    = 3

	TimeoutCancelReason = "支付超时"
)

type ItemReq struct {
	ProductID int64
	// 为 0 时扣减商品本身的库存
	VariantID int64
	Quantity  int64
}

type CreateOrderReq struct {
	BuyerID         int64
	ContactEmail    string
	Items           []ItemReq
	ShippingAddress domain.Address
	PaymentMethod   string
	// TotalPrice 是商品、税费、运费之和，优惠由服务端计算
	Pricing    domain.Pricing
	CouponCode string
	// RequireCoupon 为 true 时优惠券不可用直接拒绝下单，否则按原价下单
	RequireCoupon bool
}

type UpdateStatusReq struct {
	OrderID        int64
	Status         domain.Status
	Actor          domain.Actor
	CancelReason   string
	TrackingNumber string
	Carrier        string
}

//go:generate mockgen -source=./service.go -package=ordermocks -destination=../../mocks/order.mock.go Service
type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderReq) (domain.Order, error)
	UpdateStatus(ctx context.Context, req UpdateStatusReq) (domain.Order, error)
	// MarkPaid 返回本次调用是否真正把订单从待支付流转到处理中
	MarkPaid(ctx context.Context, orderID int64, result domain.PaymentResult) (bool, error)
	Detail(ctx context.Context, orderID int64, actor domain.Actor) (domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64, status domain.Status, offset, limit int) ([]domain.Order, int64, error)
	ListByVendor(ctx context.Context, vendorID int64, status domain.Status, offset, limit int) ([]domain.Order, int64, error)
	List(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Order, int64, error)
	HasPurchased(ctx context.Context, buyerID, productID int64) (bool, error)
	// CloseTimeoutOrders 取消超时未支付的订单并回补库存，返回关闭的数量
	CloseTimeoutOrders(ctx context.Context, timeout time.Duration, limit int) (int, error)
	// RetryRestock 执行之前回补失败的任务，返回成功回补的数量
	RetryRestock(ctx context.Context, limit int) (int, error)
}

type service struct {
	repo        repository.OrderRepository
	productSvc  product.Service
	couponSvc   coupon.Service
	invalidator cachex.Invalidator
	notifier    Notifier
	snGen       SNGenerator
	logger      *elog.Component
	nowFunc     func() time.Time
	// 每次回补都使用新的重试策略
	restockRetry func() retry.Strategy
}

func NewService(repo repository.OrderRepository,
	productSvc product.Service,
	couponSvc coupon.Service,
	invalidator cachex.Invalidator,
	notifier Notifier,
	snGen SNGenerator) Service {
	return &service{
		repo:        repo,
		productSvc:  productSvc,
		couponSvc:   couponSvc,
		invalidator: invalidator,
		notifier:    notifier,
		snGen:       snGen,
		logger:      elog.DefaultLogger,
		nowFunc:     time.Now,
		restockRetry: func() retry.Strategy {
			strategy, _ := retry.NewFixedIntervalRetryStrategy(restockRetryInterval, restockMaxRetries)
			return strategy
		},
	}
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderReq) (domain.Order, error) {
	if err := s.validate(req); err != nil {
		return domain.Order{}, err
	}
	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return domain.Order{}, err
	}
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.Subtotal())
	}
	if !itemsPrice.Equal(req.Pricing.ItemsPrice) {
		return domain.Order{}, fmt.Errorf("%w: 商品总价 %s 与实际价格 %s 不一致",
			domain.ErrValidation, req.Pricing.ItemsPrice.StringFixed(2), itemsPrice.StringFixed(2))
	}

	ev, applied, err := s.evaluateCoupon(ctx, req, itemsPrice)
	if err != nil {
		return domain.Order{}, err
	}
	now := s.nowFunc().UnixMilli()
	order := domain.Order{
		BuyerID:         req.BuyerID,
		ContactEmail:    req.ContactEmail,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Pricing:         req.Pricing,
		Status:          domain.StatusPending,
		Ctime:           now,
		Utime:           now,
	}
	order.Pricing.DiscountAmount = decimal.Zero
	if applied {
		snapshot := ev.Coupon.Snapshot()
		order.Coupon = domain.CouponSnapshot{
			ID:            ev.Coupon.ID,
			Code:          snapshot.Code,
			DiscountType:  snapshot.DiscountType.ToUint8(),
			DiscountValue: snapshot.DiscountValue,
		}
		order.Pricing.DiscountAmount = ev.Discount
	}
	order.Pricing.TotalPrice = req.Pricing.TotalPrice.Sub(order.Pricing.DiscountAmount)

	if err = s.reserve(ctx, items); err != nil {
		return domain.Order{}, err
	}
	if applied {
		err = s.couponSvc.RecordUsage(ctx, ev.Coupon.ID, req.BuyerID)
		if err != nil {
			s.restock(ctx, 0, items)
			if errors.Is(err, coupon.ErrUsageLimitReached) {
				return domain.Order{}, fmt.Errorf("%w: 优惠券 %s 已达使用上限", domain.ErrConflict, ev.Coupon.Code)
			}
			return domain.Order{}, fmt.Errorf("记录优惠券使用失败: %w", err)
		}
	}
	created, err := s.persist(ctx, order)
	if err != nil {
		s.restock(ctx, 0, items)
		if applied {
			s.releaseUsage(ctx, ev.Coupon.ID, req.BuyerID)
		}
		return domain.Order{}, err
	}

	s.invalidate(ctx, created, true)
	if er := s.notifier.OrderCreated(ctx, created); er != nil {
		s.logger.Error("发送订单创建通知失败", elog.FieldErr(er), elog.Int64("oid", created.ID))
	}
	return created, nil
}

func (s *service) validate(req CreateOrderReq) error {
	if len(req.Items) == 0 {
		return domain.ErrEmptyOrder
	}
	if req.BuyerID <= 0 || req.PaymentMethod == "" {
		return domain.ErrValidation
	}
	addr := req.ShippingAddress
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.ZipCode == "" || addr.Country == "" {
		return fmt.Errorf("%w: 收货地址不完整", domain.ErrValidation)
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 || item.VariantID < 0 || item.Quantity < 1 {
			return fmt.Errorf("%w: 订单项不合法 pid=%d, quantity=%d", domain.ErrValidation, item.ProductID, item.Quantity)
		}
	}
	p := req.Pricing
	if p.ItemsPrice.IsNegative() || p.TaxPrice.IsNegative() || p.ShippingPrice.IsNegative() || p.TotalPrice.IsNegative() {
		return fmt.Errorf("%w: 金额不能为负数", domain.ErrValidation)
	}
	if !p.TotalPrice.Equal(p.ItemsPrice.Add(p.TaxPrice).Add(p.ShippingPrice)) {
		return fmt.Errorf("%w: 订单总价必须等于商品总价、税费、运费之和", domain.ErrValidation)
	}
	return nil
}

// resolveItems 在修改任何库存之前确认所有商品和规格都存在，并冻结下单时的价格
func (s *service) resolveItems(ctx context.Context, reqs []ItemReq) ([]domain.Item, error) {
	products := make(map[int64]product.Product, len(reqs))
	items := make([]domain.Item, 0, len(reqs))
	for _, r := range reqs {
		p, ok := products[r.ProductID]
		if !ok {
			var err error
			p, err = s.productSvc.FindByID(ctx, r.ProductID)
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, &domain.NotFoundError{Resource: "product", ID: r.ProductID}
			}
			if err != nil {
				return nil, fmt.Errorf("查询商品失败: %w", err)
			}
			products[r.ProductID] = p
		}
		if !p.IsActive {
			return nil, &domain.NotFoundError{Resource: "product", ID: r.ProductID}
		}
		item := domain.Item{
			ProductID: p.ID,
			VendorID:  p.VendorID,
			Name:      p.Name,
			Quantity:  r.Quantity,
			Price:     p.Price,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0]
		}
		if r.VariantID > 0 {
			v, ok := p.Variant(r.VariantID)
			if !ok || !v.IsActive {
				return nil, &domain.NotFoundError{Resource: "variant", ID: r.VariantID}
			}
			item.VariantID = v.ID
			item.VariantName = v.Name
			item.Price = v.Price
		}
		items = append(items, item)
	}
	return items, nil
}

// evaluateCoupon 返回的 bool 表示是否使用优惠券
func (s *service) evaluateCoupon(ctx context.Context, req CreateOrderReq, subtotal decimal.Decimal) (coupon.Evaluation, bool, error) {
	code := strings.TrimSpace(req.CouponCode)
	if code == "" {
		return coupon.Evaluation{}, false, nil
	}
	ev, err := s.couponSvc.Evaluate(ctx, code, req.BuyerID, subtotal)
	var reason string
	switch {
	case errors.Is(err, coupon.ErrCouponNotFound):
		reason = "优惠券不存在"
	case err != nil:
		return coupon.Evaluation{}, false, fmt.Errorf("校验优惠券失败: %w", err)
	case !ev.Validation.Valid:
		reason = ev.Validation.Reason
	default:
		return ev, true, nil
	}
	if req.RequireCoupon {
		return coupon.Evaluation{}, false, &domain.CouponInvalidError{Code: code, Reason: reason}
	}
	s.logger.Info("优惠券不可用，按原价下单",
		elog.String("code", code),
		elog.String("reason", reason),
		elog.Int64("uid", req.BuyerID))
	return coupon.Evaluation{}, false, nil
}

// reserve 逐个订单项做条件扣减，任何一项失败都会把前面已经扣减的库存回补
func (s *service) reserve(ctx context.Context, items []domain.Item) error {
	for i, item := range items {
		err := s.productSvc.DecreaseStock(ctx, location(item), item.Quantity)
		if err == nil {
			continue
		}
		s.restock(ctx, 0, items[:i])
		switch {
		case errors.Is(err, product.ErrInsufficientStock):
			return &domain.InsufficientStockError{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Name:      item.Name,
				Requested: item.Quantity,
			}
		case errors.Is(err, product.ErrVariantNotFound):
			return &domain.NotFoundError{Resource: "variant", ID: item.VariantID}
		case errors.Is(err, product.ErrProductNotFound):
			return &domain.NotFoundError{Resource: "product", ID: item.ProductID}
		default:
			return fmt.Errorf("扣减库存失败 %s: %w", location(item), err)
		}
	}
	return nil
}

// restock 请求被取消时补偿也必须完成。重试之后仍然失败的记录为回补任务，由定时任务继续执行
func (s *service) restock(ctx context.Context, orderID int64, items []domain.Item) {
	if len(items) == 0 {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	var tasks []domain.RestockTask
	for _, item := range items {
		loc := location(item)
		err := retry.Retry(rctx, s.restockRetry(), func() error {
			return s.increaseStock(rctx, loc, item.Quantity)
		})
		if err == nil {
			continue
		}
		s.logger.Error("回补库存失败，转为回补任务",
			elog.FieldErr(err),
			elog.Int64("oid", orderID),
			elog.String("location", loc.String()),
			elog.Int64("quantity", item.Quantity))
		tasks = append(tasks, domain.RestockTask{
			OrderID:   orderID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	if len(tasks) == 0 {
		return
	}
	// 重试可能已经耗尽了 rctx 的时间
	tctx, tcancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer tcancel()
	if err := s.repo.CreateRestockTasks(tctx, tasks); err != nil {
		s.logger.Error("保存回补任务失败",
			elog.FieldErr(err),
			elog.Int64("oid", orderID),
			elog.Any("tasks", tasks))
	}
}

// increaseStock 商品或规格已经不存在时没有库存需要回补
func (s *service) increaseStock(ctx context.Context, loc product.StockLocation, qty int64) error {
	err := s.productSvc.IncreaseStock(ctx, loc, qty)
	if errors.Is(err, product.ErrProductNotFound) || errors.Is(err, product.ErrVariantNotFound) {
		s.logger.Warn("回补库存时商品已不存在", elog.String("location", loc.String()))
		return nil
	}
	return err
}

func (s *service) releaseUsage(ctx context.Context, couponID, uid int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if err := s.couponSvc.ReleaseUsage(ctx, couponID, uid); err != nil {
		s.logger.Error("归还优惠券使用次数失败",
			elog.FieldErr(err),
			elog.Int64("couponID", couponID),
			elog.Int64("uid", uid))
	}
}

func (s *service) persist(ctx context.Context, o domain.Order) (domain.Order, error) {
	for i := 0; i < maxSNAttempts; i++ {
		o.SN = s.snGen.Generate()
		created, err := s.repo.Create(ctx, o)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repository.ErrDuplicateSN) {
			return domain.Order{}, fmt.Errorf("保存订单失败: %w", err)
		}
		s.logger.Warn("订单号冲突，重新生成", elog.String("sn", o.SN))
	}
	return domain.Order{}, fmt.Errorf("%w: 连续 %d 次生成的订单号都已存在", domain.ErrConflict, maxSNAttempts)
}

func (s *service) UpdateStatus(ctx context.Context, req UpdateStatusReq) (domain.Order, error) {
	if req.Actor.Role != domain.RoleVendor && req.Actor.Role != domain.RoleAdmin {
		return domain.Order{}, fmt.Errorf("%w: 角色 %s 不能修改订单状态", domain.ErrUnauthorized, req.Actor.Role)
	}
	if !req.Status.IsClientTarget() {
		return domain.Order{}, fmt.Errorf("%w: 不支持流转到 %s", domain.ErrValidation, req.Status)
	}
	if req.Status == domain.StatusCancelled && strings.TrimSpace(req.CancelReason) == "" {
		return domain.Order{}, domain.ErrCancelReason
	}
	o, err := s.load(ctx, req.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	if req.Actor.Role == domain.RoleVendor && !o.HasVendor(req.Actor.UID) {
		return domain.Order{}, fmt.Errorf("%w: 订单 %d 中没有商家 %d 的商品", domain.ErrUnauthorized, o.ID, req.Actor.UID)
	}
	if o.Status == req.Status {
		return o, nil
	}
	if !o.Status.CanTransitionTo(req.Status) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, req.Status)
	}

	now := s.nowFunc().UnixMilli()
	updated := o
	updated.Status = req.Status
	updated.Utime = now
	switch req.Status {
	case domain.StatusShipped:
		if req.TrackingNumber != "" {
			updated.TrackingNumber = req.TrackingNumber
		}
		if req.Carrier != "" {
			updated.Carrier = req.Carrier
		}
	case domain.StatusDelivered:
		updated.IsDelivered = true
		updated.DeliveredAt = now
	case domain.StatusCancelled:
		updated.CancelReason = strings.TrimSpace(req.CancelReason)
		updated.CancelledAt = now
		updated.CancelledBy = req.Actor.UID
	}
	return s.transition(ctx, o, updated)
}

// transition CAS 成功的请求才执行副作用，取消时的库存回补因此最多执行一次
func (s *service) transition(ctx context.Context, old, updated domain.Order) (domain.Order, error) {
	ok, err := s.repo.UpdateStatus(ctx, updated, old.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("更新订单状态失败: %w", err)
	}
	if !ok {
		cur, err := s.load(ctx, old.ID)
		if err != nil {
			return domain.Order{}, err
		}
		if cur.Status == updated.Status {
			return cur, nil
		}
		return domain.Order{}, fmt.Errorf("%w: oid=%d, 期望状态 %s, 当前状态 %s",
			domain.ErrConflict, old.ID, old.Status, cur.Status)
	}
	cancelled := updated.Status == domain.StatusCancelled
	if cancelled {
		s.restock(ctx, updated.ID, updated.Items)
	}
	s.invalidate(ctx, updated, cancelled)
	s.notifyStatusChanged(ctx, updated, old.Status)
	return updated, nil
}

func (s *service) MarkPaid(ctx context.Context, orderID int64, result domain.PaymentResult) (bool, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return false, err
	}
	now := s.nowFunc().UnixMilli()
	ok, err := s.repo.MarkPaid(ctx, orderID, now, result)
	if err != nil {
		return false, fmt.Errorf("标记订单已支付失败: %w", err)
	}
	if !ok {
		s.logger.Info("订单不是待支付状态，忽略支付结果",
			elog.Int64("oid", orderID),
			elog.String("status", o.Status.String()),
			elog.String("reference", result.Reference))
		return false, nil
	}
	o.Status = domain.StatusProcessing
	o.IsPaid = true
	o.PaidAt = now
	o.PaymentResult = result
	o.Utime = now
	s.invalidate(ctx, o, false)
	s.notifyStatusChanged(ctx, o, domain.StatusPending)
	return true, nil
}

func (s *service) Detail(ctx context.Context, orderID int64, actor domain.Actor) (domain.Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return o, nil
	case domain.RoleVendor:
		if o.HasVendor(actor.UID) {
			return o, nil
		}
	default:
		if o.BuyerID == actor.UID {
			return o, nil
		}
	}
	return domain.Order{}, fmt.Errorf("%w: oid=%d, uid=%d", domain.ErrUnauthorized, orderID, actor.UID)
}

func (s *service) ListByBuyer(ctx context.Context, buyerID int64, status domain.Status, offset, limit int) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListByBuyer(ctx, buyerID, status, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.CountByBuyer(ctx, buyerID, status)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListByVendor(ctx context.Context, vendorID int64, status domain.Status, offset, limit int) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListByVendor(ctx, vendorID, status, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.CountByVendor(ctx, vendorID, status)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) List(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.List(ctx, status, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.Count(ctx, status)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) HasPurchased(ctx context.Context, buyerID, productID int64) (bool, error) {
	return s.repo.HasPurchased(ctx, buyerID, productID)
}

func (s *service) CloseTimeoutOrders(ctx context.Context, timeout time.Duration, limit int) (int, error) {
	now := s.nowFunc()
	ctime := now.Add(-timeout).UnixMilli()
	closed := 0
	for {
		orders, err := s.repo.FindTimeoutOrders(ctx, ctime, limit)
		if err != nil {
			return closed, fmt.Errorf("查询超时订单失败: %w", err)
		}
		failed := 0
		for _, o := range orders {
			updated := o
			updated.Status = domain.StatusCancelled
			updated.CancelReason = TimeoutCancelReason
			updated.CancelledAt = now.UnixMilli()
			updated.Utime = now.UnixMilli()
			_, err = s.transition(ctx, o, updated)
			switch {
			case err == nil:
				closed++
			case errors.Is(err, domain.ErrConflict):
				// 关闭之前刚好完成了支付
				s.logger.Info("超时订单状态已变化，跳过", elog.Int64("oid", o.ID))
			default:
				failed++
				s.logger.Error("关闭超时订单失败", elog.FieldErr(err), elog.Int64("oid", o.ID))
			}
		}
		// 有失败的订单时下一轮还会查出来，直接结束等下次调度
		if failed > 0 {
			return closed, fmt.Errorf("%d 个超时订单关闭失败", failed)
		}
		if len(orders) < limit {
			return closed, nil
		}
	}
}

func (s *service) RetryRestock(ctx context.Context, limit int) (int, error) {
	tasks, err := s.repo.FindPendingRestockTasks(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("查询回补任务失败: %w", err)
	}
	restored, failed := 0, 0
	for _, t := range tasks {
		// 先抢占任务，多个实例同时执行时库存只会回补一次
		ok, er := s.repo.CompleteRestockTask(ctx, t.ID)
		if er != nil {
			failed++
			s.logger.Error("抢占回补任务失败", elog.FieldErr(er), elog.Int64("task", t.ID))
			continue
		}
		if !ok {
			continue
		}
		loc := product.BaseLocation(t.ProductID)
		if t.VariantID > 0 {
			loc = product.VariantLocation(t.ProductID, t.VariantID)
		}
		er = s.increaseStock(ctx, loc, t.Quantity)
		if er == nil {
			restored++
			continue
		}
		failed++
		s.logger.Error("执行回补任务失败",
			elog.FieldErr(er),
			elog.Int64("task", t.ID),
			elog.Int64("oid", t.OrderID),
			elog.Int("attempts", t.Attempts+1))
		if er = s.repo.ReopenRestockTask(ctx, t.ID); er != nil {
			s.logger.Error("回补任务放回队列失败", elog.FieldErr(er), elog.Any("task", t))
		}
	}
	if failed > 0 {
		return restored, fmt.Errorf("%d 个回补任务执行失败", failed)
	}
	return restored, nil
}

func (s *service) load(ctx context.Context, id int64) (domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return domain.Order{}, &domain.NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("查询订单失败: %w", err)
	}
	return o, nil
}

// invalidate 库存发生变化时一并失效商品缓存
func (s *service) invalidate(ctx context.Context, o domain.Order, stockChanged bool) {
	patterns := []string{fmt.Sprintf("order:*:%d", o.ID)}
	if stockChanged {
		patterns = append(patterns, slice.Map(o.ProductIDs(), func(idx int, pid int64) string {
			return fmt.Sprintf("product:detail:%d", pid)
		})...)
	}
	if err := s.invalidator.Invalidate(ctx, patterns...); err != nil {
		s.logger.Error("失效缓存失败", elog.FieldErr(err), elog.Int64("oid", o.ID))
	}
}

func (s *service) notifyStatusChanged(ctx context.Context, o domain.Order, from domain.Status) {
	if err := s.notifier.StatusChanged(ctx, o, from); err != nil {
		s.logger.Error("发送订单状态变更通知失败",
			elog.FieldErr(err),
			elog.Int64("oid", o.ID),
			elog.String("status", o.Status.String()))
	}
}

func location(item domain.Item) product.StockLocation {
	if item.HasVariant() {
		return product.VariantLocation(item.ProductID, item.VariantID)
	}
	return product.BaseLocation(item.ProductID)
}
