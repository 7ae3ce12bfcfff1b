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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/service"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

const (
	defaultPaymentMethod = "stripe"
	maxPageSize          = 100
	requestIDExpiration  = time.Hour
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc    service.Service
	cache  ecache.Cache
	logger *elog.Component
}

func NewHandler(svc service.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, cache: cache, logger: elog.DefaultLogger}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/create", ginx.BS[CreateOrderReq](h.CreateOrder))
	g.POST("/detail", ginx.BS[IDReq](h.Detail))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))

	vg := server.Group("/order",
		middleware.NewCheckRoleMiddlewareBuilder().Build(middleware.RoleVendor, middleware.RoleAdmin))
	vg.POST("/vendor/list", ginx.BS[ListOrdersReq](h.VendorListOrders))
	vg.POST("/status/update", ginx.BS[UpdateStatusReq](h.UpdateStatus))
	vg.GET("/vendor/export", h.VendorExport)
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// CreateOrder 下单，同一个 RequestID 只会处理一次
func (h *Handler) CreateOrder(ctx *ginx.Context, req CreateOrderReq, sess session.Session) (ginx.Result, error) {
	r, err := req.toService(sess.Claims().Uid)
	if err != nil {
		return invalidInputResult, nil
	}
	ok, err := h.checkRequestID(ctx.Request.Context(), req.RequestID)
	if err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}
	if !ok {
		return conflictResult, nil
	}
	o, err := h.svc.CreateOrder(ctx.Request.Context(), r)
	if err != nil {
		// 失败允许用户用同一个 RequestID 重试
		h.releaseRequestID(ctx.Request.Context(), req.RequestID)
		return errorResult(err)
	}
	return ginx.Result{Data: newOrder(o)}, nil
}

// checkRequestID 返回 false 表示重复提交
func (h *Handler) checkRequestID(ctx context.Context, requestID string) (bool, error) {
	if requestID == "" {
		return false, fmt.Errorf("请求ID为空")
	}
	return h.cache.SetNX(ctx, h.createOrderRequestKey(requestID), requestID, requestIDExpiration)
}

func (h *Handler) releaseRequestID(ctx context.Context, requestID string) {
	_, err := h.cache.Delete(ctx, h.createOrderRequestKey(requestID))
	if err != nil {
		h.logger.Warn("释放下单请求ID失败",
			elog.String("requestID", requestID),
			elog.FieldErr(err))
	}
}

func (h *Handler) createOrderRequestKey(requestID string) string {
	return fmt.Sprintf("order:create:%s", requestID)
}

func (h *Handler) Detail(ctx *ginx.Context, req IDReq, sess session.Session) (ginx.Result, error) {
	o, err := h.svc.Detail(ctx.Request.Context(), req.ID, actorOf(sess))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newOrder(o)}, nil
}

// ListOrders 买家查看自己的订单
func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	status, ok := parseStatusFilter(req.Status)
	if !ok {
		return invalidInputResult, nil
	}
	os, total, err := h.svc.ListByBuyer(ctx.Request.Context(), sess.Claims().Uid, status, req.Offset, pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: newOrderList(os, total)}, nil
}

// VendorListOrders 商家查看包含自己商品的订单
func (h *Handler) VendorListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	status, ok := parseStatusFilter(req.Status)
	if !ok {
		return invalidInputResult, nil
	}
	os, total, err := h.svc.ListByVendor(ctx.Request.Context(), sess.Claims().Uid, status, req.Offset, pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: newOrderList(os, total)}, nil
}

// VendorExport 商家导出包含自己商品的订单，每行只列出该商家的商品
func (h *Handler) VendorExport(ctx *gin.Context) {
	sess, err := session.Get(&ginx.Context{Context: ctx})
	if err != nil {
		h.logger.Error("获取 Session 失败", elog.FieldErr(err))
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	status, ok := parseStatusFilter(ctx.Query("status"))
	if !ok {
		ctx.AbortWithStatus(http.StatusBadRequest)
		return
	}
	vendorID := sess.Claims().Uid
	orders, err := collectOrders(ctx.Request.Context(), func(c context.Context, offset, limit int) ([]domain.Order, error) {
		list, _, err := h.svc.ListByVendor(c, vendorID, status, offset, limit)
		return list, err
	})
	if err != nil {
		h.logger.Error("商家导出订单失败", elog.Int64("vendorId", vendorID), elog.FieldErr(err))
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	serveCSV(ctx, h.logger, fmt.Sprintf("vendor-%d-orders", vendorID), func(w io.Writer) error {
		return writeVendorOrdersCSV(w, vendorID, orders)
	})
}

func (h *Handler) UpdateStatus(ctx *ginx.Context, req UpdateStatusReq, sess session.Session) (ginx.Result, error) {
	return updateStatus(ctx.Request.Context(), h.svc, req, actorOf(sess))
}

func updateStatus(ctx context.Context, svc service.Service, req UpdateStatusReq, actor domain.Actor) (ginx.Result, error) {
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return invalidInputResult, nil
	}
	o, err := svc.UpdateStatus(ctx, service.UpdateStatusReq{
		OrderID:        req.ID,
		Status:         status,
		Actor:          actor,
		CancelReason:   req.CancelReason,
		TrackingNumber: req.TrackingNumber,
		Carrier:        req.Carrier,
	})
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newOrder(o)}, nil
}

func actorOf(sess session.Session) domain.Actor {
	return domain.Actor{
		UID:  sess.Claims().Uid,
		Role: domain.Role(middleware.RoleOf(sess)),
	}
}

// parseStatusFilter 空字符串表示不过滤
func parseStatusFilter(s string) (domain.Status, bool) {
	if s == "" {
		return 0, true
	}
	return domain.ParseStatus(s)
}

func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
