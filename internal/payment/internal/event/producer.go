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

import (
	"strconv"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/pkg/mqx"
)

//go:generate mockgen -source=./producer.go -package=evtmocks -destination=./mocks/producer.mock.go PaymentEventProducer
type PaymentEventProducer mqx.Producer[order.PaymentEvent]

// NewPaymentEventProducer 按订单ID分区，同一订单的支付通知有序
func NewPaymentEventProducer(q mq.MQ) (PaymentEventProducer, error) {
	return mqx.NewKeyedProducer[order.PaymentEvent](q, order.PaymentEventName, func(evt order.PaymentEvent) string {
		return strconv.FormatInt(evt.OrderID, 10)
	})
}
