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
	"github.com/ecodeclub/webmall/internal/pkg/mqx"
)

const InventoryEventName = "inventory_events"

// InventoryEvent 库存变化后发出，通知模块据此推送给商家和管理员
type InventoryEvent struct {
	ProductID         int64  `json:"productId"`
	VariantID         int64  `json:"variantId,omitempty"`
	VendorID          int64  `json:"vendorId"`
	Name              string `json:"name"`
	Stock             int64  `json:"stock"`
	LowStockThreshold int64  `json:"lowStockThreshold"`
	LowStock          bool   `json:"lowStock"`
	Ctime             int64  `json:"ctime"`
}

//go:generate mockgen -source=./producer.go -package=evtmocks -destination=./mocks/producer.mock.go InventoryEventProducer
type InventoryEventProducer mqx.Producer[InventoryEvent]

func NewInventoryEventProducer(q mq.MQ) (InventoryEventProducer, error) {
	return mqx.NewKeyedProducer[InventoryEvent](q, InventoryEventName, func(evt InventoryEvent) string {
		return strconv.FormatInt(evt.ProductID, 10)
	})
}
