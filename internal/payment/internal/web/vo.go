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
	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	"github.com/shopspring/decimal"
)

type PayReq struct {
	OrderID int64 `json:"orderId"`
}

// Intent 前端用 ClientSecret 调用 Stripe.js 完成支付
type Intent struct {
	PaymentID    int64  `json:"paymentId"`
	OrderID      int64  `json:"orderId"`
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

func newIntent(pmt domain.Payment) Intent {
	return Intent{
		PaymentID:    pmt.ID,
		OrderID:      pmt.OrderID,
		IntentID:     pmt.IntentID,
		ClientSecret: pmt.ClientSecret,
		Amount:       decimal.New(pmt.Amount, -2).StringFixed(2),
		Currency:     pmt.Currency,
	}
}
