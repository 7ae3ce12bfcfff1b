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
	"time"

	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	"github.com/ecodeclub/webmall/internal/payment/internal/event"
	"github.com/ecodeclub/webmall/internal/payment/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound   = errors.New("订单不存在")
	ErrOrderNotPayable = errors.New("订单不可支付")
)

// Channel 支付渠道，目前只有 Stripe
//
//go:generate mockgen -source=./service.go -package=svcmocks -destination=./mocks/service.mock.go Channel
type Channel interface {
	Prepay(ctx context.Context, pmt domain.Payment, idempotencyKey string) (domain.Intent, error)
	Query(ctx context.Context, intentID string) (domain.Intent, error)
	ParseNotification(payload []byte, signature string) (domain.Notification, error)
}

//go:generate mockgen -source=./service.go -package=paymentmocks -destination=../../mocks/payment.mock.go Service
type Service interface {
	// CreateIntent 买家为自己的待支付订单发起支付，重复调用复用同一个 intent
	CreateIntent(ctx context.Context, uid, orderID int64) (domain.Payment, error)
	// HandleNotification 返回 domain.ErrInvalidSignature 时应当响应 400
	HandleNotification(ctx context.Context, payload []byte, signature string) error
	// SyncPending 主动向渠道同步 ctime 之前仍未完成的支付，返回确认成功的数量
	SyncPending(ctx context.Context, ctime int64, limit int) (int, error)
}

type service struct {
	repo     repository.PaymentRepository
	orderSvc order.Service
	channel  Channel
	producer event.PaymentEventProducer
	l        *elog.Component
	nowFunc  func() time.Time
}

func NewService(repo repository.PaymentRepository,
	orderSvc order.Service,
	channel Channel,
	producer event.PaymentEventProducer) Service {
	return &service{
		repo:     repo,
		orderSvc: orderSvc,
		channel:  channel,
		producer: producer,
		l:        elog.DefaultLogger,
		nowFunc:  time.Now,
	}
}

func (s *service) CreateIntent(ctx context.Context, uid, orderID int64) (domain.Payment, error) {
	o, err := s.orderSvc.Detail(ctx, orderID, order.Actor{UID: uid, Role: order.RoleCustomer})
	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, order.ErrUnauthorized):
		// 不是自己的订单同样按不存在处理
		return domain.Payment{}, fmt.Errorf("%w: oid=%d", ErrOrderNotFound, orderID)
	case err != nil:
		return domain.Payment{}, err
	}
	if o.IsPaid || o.Status != order.StatusPending {
		return domain.Payment{}, fmt.Errorf("%w: oid=%d, status=%s", ErrOrderNotPayable, orderID, o.Status)
	}
	amount := o.Pricing.TotalPrice.Shift(2).Round(0).IntPart()
	if amount <= 0 {
		return domain.Payment{}, fmt.Errorf("%w: 金额为 0", ErrOrderNotPayable)
	}

	pmt, err := s.repo.FindByOrderID(ctx, orderID)
	switch {
	case err == nil && pmt.Status != domain.StatusPaidFailed:
		return pmt, nil
	case err == nil:
		return s.replaceIntent(ctx, pmt)
	case !errors.Is(err, repository.ErrPaymentNotFound):
		return domain.Payment{}, err
	}

	pmt = domain.Payment{
		OrderID:  o.ID,
		OrderSN:  o.SN,
		PayerID:  uid,
		Provider: domain.ProviderStripe,
		Amount:   amount,
	}
	intent, err := s.channel.Prepay(ctx, pmt, "order-"+o.SN)
	if err != nil {
		return domain.Payment{}, err
	}
	pmt = s.withIntent(pmt, intent)
	id, err := s.repo.Create(ctx, pmt)
	if errors.Is(err, repository.ErrDuplicatePayment) {
		// 并发发起支付，幂等键保证两边拿到的是同一个 intent
		return s.repo.FindByOrderID(ctx, orderID)
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("保存支付记录失败: %w", err)
	}
	pmt.ID = id
	return pmt, nil
}

func (s *service) replaceIntent(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	intent, err := s.channel.Prepay(ctx, pmt, fmt.Sprintf("order-%s-after-%s", pmt.OrderSN, pmt.IntentID))
	if err != nil {
		return domain.Payment{}, err
	}
	pmt = s.withIntent(pmt, intent)
	if err = s.repo.ReplaceIntent(ctx, pmt); err != nil {
		return domain.Payment{}, fmt.Errorf("更新支付记录失败: %w", err)
	}
	return pmt, nil
}

func (s *service) withIntent(pmt domain.Payment, intent domain.Intent) domain.Payment {
	pmt.IntentID = intent.ID
	pmt.ClientSecret = intent.ClientSecret
	pmt.Currency = intent.Currency
	pmt.Status = intent.Status
	return pmt
}

func (s *service) HandleNotification(ctx context.Context, payload []byte, signature string) error {
	n, err := s.channel.ParseNotification(payload, signature)
	if errors.Is(err, domain.ErrIgnoredNotification) {
		s.l.Debug("忽略支付回调", elog.String("type", n.Type))
		return nil
	}
	if err != nil {
		return err
	}
	switch n.Status {
	case domain.StatusPaidSuccess:
		return s.confirm(ctx, n.IntentID, n.OrderID, n.Amount)
	case domain.StatusPaidFailed:
		s.l.Warn("支付失败",
			elog.String("intent", n.IntentID),
			elog.Int64("oid", n.OrderID),
			elog.String("type", n.Type))
		_, err = s.repo.UpdateStatus(ctx, n.IntentID, domain.StatusPaidFailed, 0)
		return err
	default:
		_, err = s.repo.UpdateStatus(ctx, n.IntentID, n.Status, 0)
		return err
	}
}

// confirm 支付成功。即便记录已经是成功状态也重新投递事件，
// 订单侧 MarkPaid 是幂等的，上一次投递失败时依靠渠道重试补偿
func (s *service) confirm(ctx context.Context, intentID string, orderID, amount int64) error {
	if orderID == 0 {
		s.l.Error("支付回调缺少订单ID", elog.String("intent", intentID))
		return nil
	}
	changed, err := s.repo.UpdateStatus(ctx, intentID, domain.StatusPaidSuccess, s.nowFunc().UnixMilli())
	if err != nil {
		return fmt.Errorf("更新支付状态失败: %w", err)
	}
	if !changed {
		s.l.Info("重复的支付成功通知",
			elog.String("intent", intentID),
			elog.Int64("oid", orderID))
	}
	err = s.producer.Produce(ctx, order.PaymentEvent{
		OrderID:   orderID,
		Provider:  domain.ProviderStripe,
		Reference: intentID,
		Status:    order.PaymentStatusSucceeded,
		Amount:    decimal.New(amount, -2).StringFixed(2),
		Ctime:     s.nowFunc().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("发送支付事件失败: %w", err)
	}
	return nil
}

func (s *service) SyncPending(ctx context.Context, ctime int64, limit int) (int, error) {
	var (
		afterID   int64
		confirmed int
	)
	for {
		pmts, err := s.repo.FindPending(ctx, ctime, afterID, limit)
		if err != nil {
			return confirmed, fmt.Errorf("获取未完成的支付记录失败: %w", err)
		}
		for _, pmt := range pmts {
			afterID = pmt.ID
			intent, er := s.channel.Query(ctx, pmt.IntentID)
			if er != nil {
				s.l.Error("同步支付状态失败",
					elog.FieldErr(er),
					elog.Int64("oid", pmt.OrderID),
					elog.String("intent", pmt.IntentID))
				continue
			}
			switch intent.Status {
			case domain.StatusPaidSuccess:
				if er = s.confirm(ctx, pmt.IntentID, pmt.OrderID, intent.Amount); er != nil {
					s.l.Error("确认支付失败", elog.FieldErr(er), elog.Int64("oid", pmt.OrderID))
					continue
				}
				confirmed++
			case domain.StatusPaidFailed, domain.StatusProcessing:
				if _, er = s.repo.UpdateStatus(ctx, pmt.IntentID, intent.Status, 0); er != nil {
					s.l.Error("更新支付状态失败", elog.FieldErr(er), elog.Int64("oid", pmt.OrderID))
				}
			}
		}
		if len(pmts) < limit {
			return confirmed, nil
		}
	}
}
