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

import "errors"

// Status 支付状态
type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusUnpaid Status = iota + 1
	StatusProcessing
	StatusPaidSuccess
	StatusPaidFailed
)

// IsFinal 终态不再向渠道同步
func (s Status) IsFinal() bool {
	return s == StatusPaidSuccess || s == StatusPaidFailed
}

const ProviderStripe = "stripe"

// Payment 一个订单对应一条支付记录，重复发起支付复用同一个 PaymentIntent
type Payment struct {
	ID       int64
	OrderID  int64
	OrderSN  string
	PayerID  int64
	Provider string
	// IntentID 渠道侧的支付单号
	IntentID     string
	ClientSecret string
	// Amount 以最小货币单位计，例如美分
	Amount   int64
	Currency string
	Status   Status
	PaidAt   int64
	Ctime    int64
	Utime    int64
}

// Intent 渠道返回的支付意图
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       Status
}

// Notification 验签之后的渠道回调
type Notification struct {
	Type     string
	IntentID string
	OrderID  int64
	Amount   int64
	Status   Status
}

var (
	// ErrInvalidSignature 回调验签失败，渠道会重试
	ErrInvalidSignature = errors.New("支付回调验签失败")
	// ErrIgnoredNotification 不关心的回调类型
	ErrIgnoredNotification = errors.New("忽略的支付回调")
)
