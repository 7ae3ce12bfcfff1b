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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	intentmocks "github.com/ecodeclub/webmall/internal/payment/internal/service/intent/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/mock/gomock"
)

const testWebhookSecret = "whsec_test_secret"

func eventPayload(typ, status, orderID string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_1",
  "object": "event",
  "api_version": "2020-08-27",
  "type": %q,
  "data": {
    "object": {
      "id": "pi_123",
      "object": "payment_intent",
      "amount": 3650,
      "currency": "usd",
      "status": %q,
      "metadata": {"orderId": %q}
    }
  }
}`, typ, status, orderID))
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	}).Header
}

func TestStripeService_ParseNotification(t *testing.T) {
	testCases := []struct {
		name      string
		payload   []byte
		signature func(payload []byte) string
		want      domain.Notification
		wantErr   error
	}{
		{
			name:      "支付成功",
			payload:   eventPayload("payment_intent.succeeded", "succeeded", "42"),
			signature: func(payload []byte) string { return sign(payload, testWebhookSecret) },
			want: domain.Notification{
				Type:     "payment_intent.succeeded",
				IntentID: "pi_123",
				OrderID:  42,
				Amount:   3650,
				Status:   domain.StatusPaidSuccess,
			},
		},
		{
			name:      "支付失败",
			payload:   eventPayload("payment_intent.payment_failed", "requires_payment_method", "42"),
			signature: func(payload []byte) string { return sign(payload, testWebhookSecret) },
			want: domain.Notification{
				Type:     "payment_intent.payment_failed",
				IntentID: "pi_123",
				OrderID:  42,
				Amount:   3650,
				Status:   domain.StatusPaidFailed,
			},
		},
		{
			name:      "签名密钥不对",
			payload:   eventPayload("payment_intent.succeeded", "succeeded", "42"),
			signature: func(payload []byte) string { return sign(payload, "whsec_other") },
			wantErr:   domain.ErrInvalidSignature,
		},
		{
			name:      "没有签名",
			payload:   eventPayload("payment_intent.succeeded", "succeeded", "42"),
			signature: func(payload []byte) string { return "" },
			wantErr:   domain.ErrInvalidSignature,
		},
		{
			name:      "不关心的事件",
			payload:   eventPayload("charge.refunded", "succeeded", "42"),
			signature: func(payload []byte) string { return sign(payload, testWebhookSecret) },
			wantErr:   domain.ErrIgnoredNotification,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewStripeService(nil, testWebhookSecret, "usd")
			n, err := svc.ParseNotification(tc.payload, tc.signature(tc.payload))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestStripeService_Prepay(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := intentmocks.NewMockIntentAPI(ctrl)
	api.EXPECT().New(gomock.Any()).DoAndReturn(func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		assert.Equal(t, int64(3650), *params.Amount)
		assert.Equal(t, "usd", *params.Currency)
		assert.Equal(t, "order-ORD-202610-AAAAAAAA", *params.IdempotencyKey)
		assert.Equal(t, "42", params.Metadata["orderId"])
		return &stripe.PaymentIntent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Amount:       3650,
			Currency:     stripe.CurrencyUSD,
			Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		}, nil
	})
	svc := NewStripeService(api, testWebhookSecret, "usd")
	intent, err := svc.Prepay(context.Background(), domain.Payment{
		OrderID: 42,
		OrderSN: "ORD-202610-AAAAAAAA",
		Amount:  3650,
	}, "order-ORD-202610-AAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, domain.Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Amount:       3650,
		Currency:     "usd",
		Status:       domain.StatusUnpaid,
	}, intent)

	_, err = svc.Prepay(context.Background(), domain.Payment{OrderID: 42}, "k")
	assert.Error(t, err)
}

func TestStripeService_Query(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := intentmocks.NewMockIntentAPI(ctrl)
	api.EXPECT().Get("pi_ok", gomock.Any()).Return(&stripe.PaymentIntent{
		ID: "pi_ok", Amount: 100, Status: stripe.PaymentIntentStatusSucceeded,
	}, nil)
	api.EXPECT().Get("pi_err", gomock.Any()).Return(nil, errors.New("mock stripe error"))

	svc := NewStripeService(api, testWebhookSecret, "usd")
	intent, err := svc.Query(context.Background(), "pi_ok")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaidSuccess, intent.Status)

	_, err = svc.Query(context.Background(), "pi_err")
	assert.Error(t, err)
}
