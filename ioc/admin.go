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

package ioc

import (
	"net/http"

	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/coupon"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/ecodeclub/webmall/internal/review"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/server/egin"
)

type AdminServer *egin.Component

func InitAdminServer(
	orderHdl *order.AdminHandler,
	couponHdl *coupon.AdminHandler,
	reviewHdl *review.AdminHdl,
) AdminServer {
	res := egin.Load("admin").Build()
	res.Use(middleware.NewMetricsBuilder(nil, "webmall", "admin").Build())
	res.Use(cors.New(cors.Config{
		ExposeHeaders:    []string{"X-Refresh-Token", "X-Access-Token"},
		AllowCredentials: true,
		AllowHeaders:     []string{"X-Timestamp", "Authorization", "Content-Type"},
		AllowOriginFunc:  allowOrigin,
	}))
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})

	// 登录校验
	res.Use(session.CheckLoginMiddleware())
	res.Use(middleware.NewCheckRoleMiddlewareBuilder().Build(middleware.RoleAdmin))
	orderHdl.PrivateRoutes(res.Engine)
	couponHdl.PrivateRoutes(res.Engine)
	reviewHdl.PrivateRoutes(res.Engine)
	return res
}
