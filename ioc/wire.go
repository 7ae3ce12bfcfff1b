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

//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/webmall/internal/coupon"
	"github.com/ecodeclub/webmall/internal/notification"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/payment"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/review"
	"github.com/ecodeclub/webmall/internal/wishlist"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitES, InitRedis, InitCache, InitInvalidator, InitMQ, InitSession, InitEmailService)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		product.InitModule,
		wire.FieldsOf(new(*product.Module), "Svc", "Hdl"),
		coupon.InitModule,
		wire.FieldsOf(new(*coupon.Module), "Svc", "Hdl", "AdminHdl"),
		order.InitModule,
		wire.FieldsOf(new(*order.Module), "Svc", "Hdl", "AdminHdl", "CloseExpiredOrdersJob", "RestockJob"),
		payment.InitModule,
		wire.FieldsOf(new(*payment.Module), "Hdl", "SyncPaymentIntentJob"),
		review.InitModule,
		wire.FieldsOf(new(*review.Module), "Hdl", "AdminHdl"),
		wishlist.InitModule,
		wire.FieldsOf(new(*wishlist.Module), "Hdl"),
		notification.InitModule,
		wire.FieldsOf(new(*notification.Module), "Hdl", "Hub"),
		initGinxServer,
		InitAdminServer,
		initCronJobs,
		initMQConsumers,
	)
	return new(App), nil
}
