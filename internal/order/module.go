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
package order

import (
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/event"
	"github.com/ecodeclub/webmall/internal/order/internal/job"
	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/ecodeclub/webmall/internal/order/internal/web"
)

type Module struct {
	Svc                   Service
	Hdl                   *Handler
	AdminHdl              *AdminHandler
	PaymentConsumer       *PaymentEventConsumer
	CloseExpiredOrdersJob *CloseExpiredOrdersJob
	RestockJob            *RestockJob
}

type Service = service.Service
type CreateOrderReq = service.CreateOrderReq
type ItemReq = service.ItemReq
type UpdateStatusReq = service.UpdateStatusReq
type Handler = web.Handler
type AdminHandler = web.AdminHandler
type PaymentEventConsumer = event.PaymentEventConsumer
type CloseExpiredOrdersJob = job.CloseExpiredOrdersJob
type RestockJob = job.RestockJob

type Order = domain.Order
type Item = domain.Item
type Address = domain.Address
type Pricing = domain.Pricing
type PaymentResult = domain.PaymentResult
type Status = domain.Status
type Actor = domain.Actor
type Role = domain.Role

type OrderEvent = event.OrderEvent
type PaymentEvent = event.PaymentEvent

const (
	StatusPending          = domain.StatusPending
	StatusConfirmed        = domain.StatusConfirmed
	StatusProcessing       = domain.StatusProcessing
	StatusReadyForDelivery = domain.StatusReadyForDelivery
	StatusShipped          = domain.StatusShipped
	StatusOutForDelivery   = domain.StatusOutForDelivery
	StatusDelivered        = domain.StatusDelivered
	StatusCancelled        = domain.StatusCancelled
	StatusRefunded         = domain.StatusRefunded

	RoleCustomer = domain.RoleCustomer
	RoleVendor   = domain.RoleVendor
	RoleAdmin    = domain.RoleAdmin

	OrderEventName              = event.OrderEventName
	PaymentEventName            = event.PaymentEventName
	OrderEventTypeCreated       = event.OrderEventTypeCreated
	OrderEventTypeStatusChanged = event.OrderEventTypeStatusChanged
	PaymentStatusSucceeded      = event.PaymentStatusSucceeded

	TimeoutCancelReason = service.TimeoutCancelReason
)

var (
	ErrValidation        = domain.ErrValidation
	ErrNotFound          = domain.ErrNotFound
	ErrInsufficientStock = domain.ErrInsufficientStock
	ErrCouponInvalid     = domain.ErrCouponInvalid
	ErrUnauthorized      = domain.ErrUnauthorized
	ErrConflict          = domain.ErrConflict
	ErrInvalidTransition = domain.ErrInvalidTransition
)
