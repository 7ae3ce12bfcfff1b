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
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ecodeclub/webmall/internal/product/internal/service"
	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/product")
	g.POST("/detail", ginx.B[IDReq](h.Detail))
	g.POST("/list", ginx.B[ListReq](h.List))
	g.POST("/search", ginx.B[ListReq](h.Search))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/product",
		middleware.NewCheckRoleMiddlewareBuilder().Build(middleware.RoleVendor, middleware.RoleAdmin))
	g.POST("/save", ginx.BS[Product](h.Save))
	g.POST("/deactivate", ginx.BS[IDReq](h.Deactivate))
	g.POST("/vendor/list", ginx.BS[Page](h.VendorList))
	g.POST("/low_stock", ginx.S(h.LowStock))
}

func (h *Handler) Detail(ctx *ginx.Context, req IDReq) (ginx.Result, error) {
	p, err := h.svc.FindByID(ctx, req.ID)
	if errors.Is(err, service.ErrProductNotFound) {
		return notFoundResult, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	if !p.IsActive {
		return notFoundResult, nil
	}
	return ginx.Result{Data: newProduct(p)}, nil
}

// List 按分类、商家、价格区间和评分筛选，keyword 可选
func (h *Handler) List(ctx *ginx.Context, req ListReq) (ginx.Result, error) {
	q, err := req.toQuery()
	if err != nil {
		return invalidInputResult, nil
	}
	return h.list(ctx, q)
}

// Search 与 List 相同的筛选条件，keyword 必填
func (h *Handler) Search(ctx *ginx.Context, req ListReq) (ginx.Result, error) {
	q, err := req.toQuery()
	if err != nil || !q.HasKeyword() {
		return invalidInputResult, nil
	}
	return h.list(ctx, q)
}

func (h *Handler) list(ctx *ginx.Context, q domain.Query) (ginx.Result, error) {
	ps, total, err := h.svc.List(ctx, q)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: h.toList(ps, total)}, nil
}

func (h *Handler) Save(ctx *ginx.Context, req Product, sess session.Session) (ginx.Result, error) {
	p, err := req.toDomain()
	if err != nil {
		return invalidInputResult, nil
	}
	p.VendorID = sess.Claims().Uid
	id, err := h.svc.Save(ctx, p)
	switch {
	case err == nil:
		return ginx.Result{Data: id}, nil
	case errors.Is(err, service.ErrInvalidProduct):
		return invalidInputResult, nil
	case errors.Is(err, service.ErrPermissionDenied):
		return permissionDeniedResult, nil
	case errors.Is(err, service.ErrProductNotFound):
		return notFoundResult, nil
	default:
		return systemErrorResult, err
	}
}

func (h *Handler) Deactivate(ctx *ginx.Context, req IDReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.Deactivate(ctx, sess.Claims().Uid, req.ID)
	switch {
	case err == nil:
		return ginx.Result{}, nil
	case errors.Is(err, service.ErrPermissionDenied):
		return permissionDeniedResult, nil
	case errors.Is(err, service.ErrProductNotFound):
		return notFoundResult, nil
	default:
		return systemErrorResult, err
	}
}

func (h *Handler) VendorList(ctx *ginx.Context, req Page, sess session.Session) (ginx.Result, error) {
	ps, total, err := h.svc.ListByVendor(ctx, sess.Claims().Uid, req.Offset, pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: h.toList(ps, total)}, nil
}

// LowStock 当前商家库存不高于预警阈值的商品
func (h *Handler) LowStock(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	ps, err := h.svc.LowStock(ctx, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: h.toList(ps, int64(len(ps)))}, nil
}

func (h *Handler) toList(ps []domain.Product, total int64) ProductList {
	return ProductList{
		Total: total,
		Products: slice.Map(ps, func(idx int, src domain.Product) Product {
			return newProduct(src)
		}),
	}
}

func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
