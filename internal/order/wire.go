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

package order

import (
	"context"
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/coupon"
	"github.com/ecodeclub/webmall/internal/order/internal/event"
	"github.com/ecodeclub/webmall/internal/order/internal/job"
	"github.com/ecodeclub/webmall/internal/order/internal/repository"
	"github.com/ecodeclub/webmall/internal/order/internal/repository/cache"
	"github.com/ecodeclub/webmall/internal/order/internal/repository/dao"
	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/ecodeclub/webmall/internal/order/internal/web"
	"github.com/ecodeclub/webmall/internal/pkg/cachex"
	"github.com/ecodeclub/webmall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
)

var ServiceSet = wire.NewSet(
	InitTablesOnce,
	cache.NewOrderCache,
	repository.NewOrderRepository,
	initOrderEventProducer,
	initNotifier,
	wire.Bind(new(service.Notifier), new(*event.Notifier)),
	newSNGenerator,
	service.NewService,
)

func InitModule(db *egorm.Component,
	q mq.MQ,
	ec ecache.Cache,
	invalidator cachex.Invalidator,
	productSvc product.Service,
	couponSvc coupon.Service) (*Module, error) {
	wire.Build(
		ServiceSet,
		web.NewHandler,
		web.NewAdminHandler,
		event.NewPaymentEventConsumer,
		initCloseExpiredOrdersJob,
		initRestockJob,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.OrderDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewOrderGORMDAO(db)
}

func initOrderEventProducer(q mq.MQ) (event.OrderEventProducer, error) {
	return event.NewOrderEventProducer(q)
}

// initNotifier 订单事件缓冲 1024 条，发送协程跟随进程生命周期
func initNotifier(producer event.OrderEventProducer) *event.Notifier {
	n := event.NewNotifier(producer, 1024)
	n.Start(context.Background())
	return n
}

func newSNGenerator() service.SNGenerator {
	return sequencenumber.NewGenerator("ORD")
}

// CloseJobConfig 对应配置 order.close
type CloseJobConfig struct {
	// TimeoutMinutes 下单后多久未支付视为超时
	TimeoutMinutes int64         `yaml:"timeoutMinutes"`
	BatchSize      int           `yaml:"batchSize"`
	RunTimeout     time.Duration `yaml:"runTimeout"`
}

func initCloseExpiredOrdersJob(svc service.Service) *job.CloseExpiredOrdersJob {
	cfg := CloseJobConfig{
		TimeoutMinutes: 30,
		BatchSize:      100,
		RunTimeout:     time.Minute,
	}
	err := econf.UnmarshalKey("order.close", &cfg)
	if err != nil {
		panic(err)
	}
	return job.NewCloseExpiredOrdersJob(svc, cfg.BatchSize, cfg.TimeoutMinutes, cfg.RunTimeout)
}

// RestockJobConfig 对应配置 order.restock
type RestockJobConfig struct {
	BatchSize  int           `yaml:"batchSize"`
	RunTimeout time.Duration `yaml:"runTimeout"`
}

func initRestockJob(svc service.Service) *job.RestockJob {
	cfg := RestockJobConfig{
		BatchSize:  100,
		RunTimeout: time.Minute,
	}
	err := econf.UnmarshalKey("order.restock", &cfg)
	if err != nil {
		panic(err)
	}
	return job.NewRestockJob(svc, cfg.BatchSize, cfg.RunTimeout)
}
