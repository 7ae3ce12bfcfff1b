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

package notification

import (
	"github.com/ecodeclub/webmall/internal/notification/internal/event"
	"github.com/ecodeclub/webmall/internal/notification/internal/hub"
	"github.com/ecodeclub/webmall/internal/notification/internal/service"
	"github.com/ecodeclub/webmall/internal/notification/internal/web"
)

// Module 启动时需要运行 Hub 并启动两个消费者
type Module struct {
	Svc               Service
	Hub               *Hub
	Hdl               *Handler
	OrderConsumer     *OrderEventConsumer
	InventoryConsumer *InventoryEventConsumer
}

type Service = service.Service
type Config = service.Config
type Hub = hub.Hub
type Handler = web.Handler
type OrderEventConsumer = event.OrderEventConsumer
type InventoryEventConsumer = event.InventoryEventConsumer
