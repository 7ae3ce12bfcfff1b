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

package notification

import (
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/email"
	"github.com/ecodeclub/webmall/internal/notification/internal/event"
	"github.com/ecodeclub/webmall/internal/notification/internal/hub"
	"github.com/ecodeclub/webmall/internal/notification/internal/service"
	"github.com/ecodeclub/webmall/internal/notification/internal/web"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
)

func InitModule(q mq.MQ, mailSvc email.Service) (*Module, error) {
	wire.Build(
		initConfig,
		initHub,
		wire.Bind(new(service.Publisher), new(*hub.Hub)),
		service.NewService,
		web.NewHandler,
		event.NewOrderEventConsumer,
		event.NewInventoryEventConsumer,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}

func initConfig() service.Config {
	var cfg service.Config
	err := econf.UnmarshalKey("notification", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func initHub(cfg service.Config) *hub.Hub {
	return hub.NewHub(cfg.AllowedOrigins)
}
