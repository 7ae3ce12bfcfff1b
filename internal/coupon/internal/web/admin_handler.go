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
	"github.com/ecodeclub/webmall/internal/coupon/internal/domain"
	"github.com/ecodeclub/webmall/internal/coupon/internal/service"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/coupon")
	g.POST("/save", ginx.B[Coupon](h.Save))
	g.POST("/list", ginx.B[Page](h.List))
	g.POST("/detail", ginx.B[IDReq](h.Detail))
	g.POST("/delete", ginx.B[IDReq](h.Delete))
}

func (h *AdminHandler) Save(ctx *ginx.Context, req Coupon) (ginx.Result, error) {
	c, err := req.toDomain()
	if err != nil {
		return invalidInputResult, nil
	}
	id, err := h.svc.Save(ctx, c)
	switch {
	case err == nil:
		return ginx.Result{Data: id}, nil
	case errors.Is(err, service.ErrInvalidCoupon):
		return invalidInputResult, nil
	case errors.Is(err, service.ErrDuplicateCode):
		return duplicateCodeResult, nil
	case errors.Is(err, service.ErrCouponNotFound):
		return notFoundResult, nil
	default:
		return systemErrorResult, err
	}
}

func (h *AdminHandler) List(ctx *ginx.Context, req Page) (ginx.Result, error) {
	cs, total, err := h.svc.List(ctx, req.Offset, pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: CouponList{
			Total: total,
			Coupons: slice.Map(cs, func(idx int, src domain.Coupon) Coupon {
				return newCoupon(src)
			}),
		},
	}, nil
}

func (h *AdminHandler) Detail(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	c, err := h.svc.Detail(ctx, req.ID)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFoundResult, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: newCoupon(c)}, nil
}

func (h *AdminHandler) Delete(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	err := h.svc.Delete(ctx, req.ID)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFoundResult, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{}, nil
}
