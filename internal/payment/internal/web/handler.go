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
	"errors"
	"io"
	"net/http"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	"github.com/ecodeclub/webmall/internal/payment/internal/errs"
	"github.com/ecodeclub/webmall/internal/payment/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

// Stripe 的 webhook 负载不会超过这个大小
const maxWebhookBodyBytes = 64 << 10

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	orderNotFoundResult = ginx.Result{
		Code: errs.OrderNotFound.Code,
		Msg:  errs.OrderNotFound.Msg,
	}
	orderNotPayableResult = ginx.Result{
		Code: errs.OrderNotPayable.Code,
		Msg:  errs.OrderNotPayable.Msg,
	}
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
	l   *elog.Component
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{
		svc: svc,
		l:   elog.DefaultLogger,
	}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/order/pay", ginx.BS[PayReq](h.Pay))
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.POST("/pay/stripe/webhook", h.StripeWebhook)
}

func (h *Handler) Pay(ctx *ginx.Context, req PayReq, sess session.Session) (ginx.Result, error) {
	pmt, err := h.svc.CreateIntent(ctx.Request.Context(), sess.Claims().Uid, req.OrderID)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult, nil
	case errors.Is(err, service.ErrOrderNotPayable):
		return orderNotPayableResult, nil
	case err != nil:
		return systemErrorResult, err
	}
	return ginx.Result{Data: newIntent(pmt)}, nil
}

// StripeWebhook 验签失败返回 400，其余处理失败返回 500 让 Stripe 重试
func (h *Handler) StripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		ctx.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	err = h.svc.HandleNotification(ctx.Request.Context(), payload, ctx.GetHeader("Stripe-Signature"))
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		h.l.Warn("Stripe 回调验签失败", elog.FieldErr(err))
		ctx.AbortWithStatus(http.StatusBadRequest)
	case err != nil:
		h.l.Error("处理 Stripe 回调失败", elog.FieldErr(err))
		ctx.AbortWithStatus(http.StatusInternalServerError)
	default:
		ctx.JSON(http.StatusOK, gin.H{"received": true})
	}
}
