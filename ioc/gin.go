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
	"strings"

	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/coupon"
	"github.com/ecodeclub/webmall/internal/notification"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/payment"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/review"
	"github.com/ecodeclub/webmall/internal/wishlist"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/server/egin"
)

func initGinxServer(sp session.Provider,
	productHdl *product.Handler,
	couponHdl *coupon.Handler,
	orderHdl *order.Handler,
	payHdl *payment.Handler,
	reviewHdl *review.Hdl,
	wishlistHdl *wishlist.Handler,
	notifyHdl *notification.Handler,
) *egin.Component {
	session.SetDefaultProvider(sp)
	res := egin.Load("web").Build()
	res.Use(middleware.NewMetricsBuilder(nil, "webmall", "web").Build())
	res.Use(cors.New(cors.Config{
		ExposeHeaders:    []string{"X-Refresh-Token", "X-Access-Token"},
		AllowCredentials: true,
		AllowHeaders:     []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowOriginFunc:  allowOrigin,
	}))
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})
	productHdl.PublicRoutes(res.Engine)
	reviewHdl.PublicRoutes(res.Engine)
	// Stripe 回调不带会话
	payHdl.PublicRoutes(res.Engine)
	// 登录校验
	res.Use(session.CheckLoginMiddleware())
	productHdl.PrivateRoutes(res.Engine)
	couponHdl.PrivateRoutes(res.Engine)
	orderHdl.PrivateRoutes(res.Engine)
	payHdl.PrivateRoutes(res.Engine)
	reviewHdl.PrivateRoutes(res.Engine)
	wishlistHdl.PrivateRoutes(res.Engine)
	notifyHdl.PrivateRoutes(res.Engine)
	return res
}

func allowOrigin(origin string) bool {
	if strings.HasPrefix(origin, "http://localhost") {
		return true
	}
	return strings.HasSuffix(origin, "webmall.com")
}
