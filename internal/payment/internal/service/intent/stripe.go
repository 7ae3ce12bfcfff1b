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
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	"github.com/gotomicro/ego/core/elog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const metadataOrderID = "orderId"

//go:generate mockgen -source=./stripe.go -package=intentmocks -destination=./mocks/stripe.mock.go IntentAPI
type IntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeService 对接 Stripe PaymentIntent
type StripeService struct {
	api           IntentAPI
	webhookSecret string
	currency      string
	l             *elog.Component
	// Stripe 的 PaymentIntent 状态
	// requires_payment_method 等待用户填写或者上一次支付失败
	// requires_confirmation / requires_action 等待用户确认
	// processing 渠道处理中
	// requires_capture 已授权待扣款
	// succeeded 支付成功
	// canceled 已取消
	intentStatusToPaymentStatus map[stripe.PaymentIntentStatus]domain.Status
}

func NewStripeService(api IntentAPI, webhookSecret, currency string) *StripeService {
	return &StripeService{
		api:           api,
		webhookSecret: webhookSecret,
		currency:      currency,
		l:             elog.DefaultLogger,
		intentStatusToPaymentStatus: map[stripe.PaymentIntentStatus]domain.Status{
			stripe.PaymentIntentStatusRequiresPaymentMethod: domain.StatusUnpaid,
			stripe.PaymentIntentStatusRequiresConfirmation:  domain.StatusUnpaid,
			stripe.PaymentIntentStatusRequiresAction:        domain.StatusUnpaid,
			stripe.PaymentIntentStatusProcessing:            domain.StatusProcessing,
			stripe.PaymentIntentStatusRequiresCapture:       domain.StatusProcessing,
			stripe.PaymentIntentStatusSucceeded:             domain.StatusPaidSuccess,
			stripe.PaymentIntentStatusCanceled:              domain.StatusPaidFailed,
		},
	}
}

// Prepay 创建 PaymentIntent，相同的幂等键 Stripe 会返回同一个 intent
func (s *StripeService) Prepay(ctx context.Context, pmt domain.Payment, idempotencyKey string) (domain.Intent, error) {
	if pmt.Amount <= 0 {
		return domain.Intent{}, fmt.Errorf("支付金额非法: %d", pmt.Amount)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(pmt.Amount),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(fmt.Sprintf("订单 %s", pmt.OrderSN)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)
	params.AddMetadata(metadataOrderID, strconv.FormatInt(pmt.OrderID, 10))
	params.AddMetadata("orderSn", pmt.OrderSN)
	pi, err := s.api.New(params)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("创建 Stripe PaymentIntent 失败: %w", err)
	}
	return s.toIntent(pi), nil
}

// Query 定时任务主动同步时调用
func (s *StripeService) Query(ctx context.Context, intentID string) (domain.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.Get(intentID, params)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("查询 Stripe PaymentIntent 失败: %w", err)
	}
	return s.toIntent(pi), nil
}

// ParseNotification 验签并解析 webhook，只处理 payment_intent 相关事件
func (s *StripeService) ParseNotification(payload []byte, signature string) (domain.Notification, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	switch evt.Type {
	case stripe.EventTypePaymentIntentSucceeded,
		stripe.EventTypePaymentIntentPaymentFailed,
		stripe.EventTypePaymentIntentProcessing,
		stripe.EventTypePaymentIntentCanceled:
	default:
		return domain.Notification{Type: string(evt.Type)}, fmt.Errorf("%w: %s", domain.ErrIgnoredNotification, evt.Type)
	}
	var pi stripe.PaymentIntent
	if err = json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return domain.Notification{}, fmt.Errorf("解析 PaymentIntent 失败: %w", err)
	}
	intent := s.toIntent(&pi)
	n := domain.Notification{
		Type:     string(evt.Type),
		IntentID: pi.ID,
		Amount:   pi.Amount,
		Status:   intent.Status,
	}
	if evt.Type == stripe.EventTypePaymentIntentPaymentFailed {
		n.Status = domain.StatusPaidFailed
	}
	if raw, ok := pi.Metadata[metadataOrderID]; ok {
		n.OrderID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.l.Warn("PaymentIntent 中的订单ID非法",
				elog.String("intent", pi.ID),
				elog.String("orderId", raw))
		}
	}
	return n, nil
}

func (s *StripeService) toIntent(pi *stripe.PaymentIntent) domain.Intent {
	status, ok := s.intentStatusToPaymentStatus[pi.Status]
	if !ok {
		s.l.Warn("未知的 PaymentIntent 状态", elog.String("status", string(pi.Status)))
		status = domain.StatusUnpaid
	}
	return domain.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       status,
	}
}
