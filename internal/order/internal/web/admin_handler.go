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
package web

import (
	"context"
	"io"
	"net/http"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

type AdminHandler struct {
	svc    service.Service
	logger *elog.Component
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		logger: elog.DefaultLogger,
	}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/list", ginx.B[ListOrdersReq](h.List))
	g.POST("/detail", ginx.BS[IDReq](h.Detail))
	g.POST("/status/update", ginx.BS[UpdateStatusReq](h.UpdateStatus))
	g.GET("/export", h.Export)
}

func (h *AdminHandler) List(ctx *ginx.Context, req ListOrdersReq) (ginx.Result, error) {
	status, ok := parseStatusFilter(req.Status)
	if !ok {
		return invalidInputResult, nil
	}
	list, total, err := h.svc.List(ctx.Request.Context(), status, req.Offset, pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: newOrderList(list, total)}, nil
}

func (h *AdminHandler) Detail(ctx *ginx.Context, req IDReq, sess session.Session) (ginx.Result, error) {
	o, err := h.svc.Detail(ctx.Request.Context(), req.ID, adminActor(sess))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newOrder(o)}, nil
}

func (h *AdminHandler) UpdateStatus(ctx *ginx.Context, req UpdateStatusReq, sess session.Session) (ginx.Result, error) {
	return updateStatus(ctx.Request.Context(), h.svc, req, adminActor(sess))
}

// Export 导出 CSV，按 status 查询参数过滤
func (h *AdminHandler) Export(ctx *gin.Context) {
	status, ok := parseStatusFilter(ctx.Query("status"))
	if !ok {
		ctx.AbortWithStatus(http.StatusBadRequest)
		return
	}
	orders, err := collectOrders(ctx.Request.Context(), func(c context.Context, offset, limit int) ([]domain.Order, error) {
		list, _, err := h.svc.List(c, status, offset, limit)
		return list, err
	})
	if err != nil {
		h.logger.Error("导出订单失败", elog.FieldErr(err))
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	serveCSV(ctx, h.logger, "orders", func(w io.Writer) error {
		return writeOrdersCSV(w, orders)
	})
}

// adminActor 管理后台已经校验过管理员身份
func adminActor(sess session.Session) domain.Actor {
	return domain.Actor{UID: sess.Claims().Uid, Role: domain.RoleAdmin}
}
