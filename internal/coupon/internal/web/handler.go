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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/coupon/internal/domain"
	"github.com/ecodeclub/webmall/internal/coupon/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/coupon")
	g.POST("/validate", ginx.BS[ValidateReq](h.Validate))
	g.POST("/active", ginx.B[Page](h.ActiveList))
}

// Validate 下单前试算，只读不记录使用次数
func (h *Handler) Validate(ctx *ginx.Context, req ValidateReq, sess session.Session) (ginx.Result, error) {
	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil || subtotal.IsNegative() {
		return invalidInputResult, nil
	}
	res, err := h.svc.Evaluate(ctx, req.Code, sess.Claims().Uid, subtotal)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFoundResult, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ValidateResp{
			Valid:    res.Validation.Valid,
			Reason:   res.Validation.Reason,
			Discount: res.Discount.StringFixed(2),
			Coupon:   newPublicCoupon(res.Coupon),
		},
	}, nil
}

func (h *Handler) ActiveList(ctx *ginx.Context, req Page) (ginx.Result, error) {
	cs, err := h.svc.ActiveList(ctx, req.Offset, pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: CouponList{
			Coupons: slice.Map(cs, func(idx int, src domain.Coupon) Coupon {
				return newPublicCoupon(src)
			}),
		},
	}, nil
}

func pageSize(limit int) int {
	const maxPageSize = 100
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
