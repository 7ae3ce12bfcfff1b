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

package startup

import (
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/payment"
	"github.com/ecodeclub/webmall/internal/payment/internal/job"
	"github.com/ecodeclub/webmall/internal/payment/internal/service"
	"github.com/ecodeclub/webmall/internal/payment/internal/service/intent"
	"github.com/ecodeclub/webmall/internal/payment/internal/web"
	testioc "github.com/ecodeclub/webmall/internal/test/ioc"
	"github.com/google/wire"
)

const WebhookSecret = "whsec_e2e_secret"

// InitModule 订单服务与 Stripe API 由测试替换
func InitModule(orderSvc order.Service, api intent.IntentAPI) (*payment.Module, error) {
	wire.Build(
		testioc.InitDB,
		testioc.InitMQ,
		initStripeConfig,
		payment.ServiceSet,
		web.NewHandler,
		initSyncJob,
		wire.Struct(new(payment.Module), "*"),
	)
	return new(payment.Module), nil
}

func initStripeConfig() payment.StripeConfig {
	return payment.StripeConfig{
		WebhookSecret: WebhookSecret,
		Currency:      "usd",
	}
}

func initSyncJob(svc service.Service) *job.SyncPaymentIntentJob {
	return job.NewSyncPaymentIntentJob(svc, 0, 10)
}
