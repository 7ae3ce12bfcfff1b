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

package payment

import (
	"sync"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/payment/internal/event"
	"github.com/ecodeclub/webmall/internal/payment/internal/job"
	"github.com/ecodeclub/webmall/internal/payment/internal/repository"
	"github.com/ecodeclub/webmall/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/webmall/internal/payment/internal/service"
	"github.com/ecodeclub/webmall/internal/payment/internal/service/intent"
	"github.com/ecodeclub/webmall/internal/payment/internal/web"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
	"github.com/stripe/stripe-go/v79/client"
)

var ServiceSet = wire.NewSet(
	InitTablesOnce,
	repository.NewPaymentRepository,
	NewStripeChannel,
	InitPaymentEventProducer,
	service.NewService,
)

func InitModule(db *egorm.Component, q mq.MQ, orderSvc order.Service) (*Module, error) {
	wire.Build(
		initStripeConfig,
		initIntentAPI,
		ServiceSet,
		web.NewHandler,
		initSyncPaymentIntentJob,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.PaymentDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewPaymentGORMDAO(db)
}

// StripeConfig 对应配置 stripe
type StripeConfig struct {
	SecretKey     string `yaml:"secretKey"`
	WebhookSecret string `yaml:"webhookSecret"`
	Currency      string `yaml:"currency"`
}

func initStripeConfig() StripeConfig {
	cfg := StripeConfig{Currency: "usd"}
	err := econf.UnmarshalKey("stripe", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func initIntentAPI(cfg StripeConfig) intent.IntentAPI {
	return client.New(cfg.SecretKey, nil).PaymentIntents
}

func NewStripeChannel(api intent.IntentAPI, cfg StripeConfig) service.Channel {
	return intent.NewStripeService(api, cfg.WebhookSecret, cfg.Currency)
}

func InitPaymentEventProducer(q mq.MQ) (event.PaymentEventProducer, error) {
	return event.NewPaymentEventProducer(q)
}

// SyncJobConfig 对应配置 payment.sync
type SyncJobConfig struct {
	// Minutes 创建多久之后仍未收到回调才主动同步
	Minutes int64 `yaml:"minutes"`
	Limit   int   `yaml:"limit"`
}

func initSyncPaymentIntentJob(svc service.Service) *job.SyncPaymentIntentJob {
	cfg := SyncJobConfig{Minutes: 10, Limit: 100}
	err := econf.UnmarshalKey("payment.sync", &cfg)
	if err != nil {
		panic(err)
	}
	return job.NewSyncPaymentIntentJob(svc, cfg.Minutes, cfg.Limit)
}
