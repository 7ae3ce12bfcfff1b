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
package event

const (
	OrderEventName   = "order_events"
	PaymentEventName = "payment_events"
)

const (
	OrderEventTypeCreated       = "created"
	OrderEventTypeStatusChanged = "status_changed"

	PaymentStatusSucceeded = "succeeded"
)

// OrderEvent 订单创建或状态变化，通知模块据此推送站内消息和邮件
type OrderEvent struct {
	Type         string  `json:"type"`
	OrderID      int64   `json:"orderId"`
	SN           string  `json:"sn"`
	BuyerID      int64   `json:"buyerId"`
	ContactEmail string  `json:"contactEmail"`
	VendorIDs    []int64 `json:"vendorIds"`
	Status       string  `json:"status"`
	From         string  `json:"from,omitempty"`
	TotalPrice   string  `json:"totalPrice"`
	ItemCount    int     `json:"itemCount"`
	CancelReason string  `json:"cancelReason,omitempty"`
	// 发货后才有物流信息
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	Ctime          int64  `json:"ctime"`
}

// PaymentEvent 支付渠道确认付款后由支付模块发出
type PaymentEvent struct {
	OrderID   int64  `json:"orderId"`
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Ctime     int64  `json:"ctime"`
}
