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

package product

import (
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/webmall/internal/product/internal/event"
	"github.com/ecodeclub/webmall/internal/product/internal/repository"
	"github.com/ecodeclub/webmall/internal/product/internal/repository/cache"
	"github.com/ecodeclub/webmall/internal/product/internal/repository/dao"
	"github.com/ecodeclub/webmall/internal/product/internal/service"
	"github.com/ecodeclub/webmall/internal/product/internal/web"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/elog"
	"github.com/olivere/elastic/v7"
)

var ServiceSet = wire.NewSet(
	InitTablesOnce,
	InitIndexOnce,
	cache.NewProductCache,
	repository.NewProductRepository,
	initInventoryProducer,
	service.NewService,
)

func InitModule(db *egorm.Component, es *elastic.Client, q mq.MQ, ec ecache.Cache) (*Module, error) {
	wire.Build(
		ServiceSet,
		web.NewHandler,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.ProductDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewProductGORMDAO(db)
}

var indexOnce = &sync.Once{}

// InitIndexOnce 索引创建失败时搜索会退化为 MySQL 查询
func InitIndexOnce(es *elastic.Client) dao.ProductSearchDAO {
	indexOnce.Do(func() {
		if err := dao.InitES(es); err != nil {
			elog.DefaultLogger.Error("创建商品索引失败", elog.FieldErr(err))
		}
	})
	return dao.NewProductElasticDAO(es)
}

func initInventoryProducer(q mq.MQ) (event.InventoryEventProducer, error) {
	return event.NewInventoryEventProducer(q)
}
