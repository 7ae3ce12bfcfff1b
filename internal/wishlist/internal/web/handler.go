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
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/wishlist")
	g.POST("/list", ginx.S(h.List))
	g.POST("/add", ginx.BS[ProductReq](h.Add))
	g.POST("/remove", ginx.BS[ProductReq](h.Remove))
	g.POST("/clear", ginx.S(h.Clear))
}

func (h *Handler) List(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	ps, err := h.svc.List(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: newWishlist(ps)}, nil
}

func (h *Handler) Add(ctx *ginx.Context, req ProductReq, sess session.Session) (ginx.Result, error) {
	if req.ProductID <= 0 {
		return invalidInputResult, nil
	}
	ids, err := h.svc.Add(ctx.Request.Context(), sess.Claims().Uid, req.ProductID)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: ids}, nil
}

func (h *Handler) Remove(ctx *ginx.Context, req ProductReq, sess session.Session) (ginx.Result, error) {
	if req.ProductID <= 0 {
		return invalidInputResult, nil
	}
	ids, err := h.svc.Remove(ctx.Request.Context(), sess.Claims().Uid, req.ProductID)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: ids}, nil
}

func (h *Handler) Clear(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	if err := h.svc.Clear(ctx.Request.Context(), sess.Claims().Uid); err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: []int64{}}, nil
}
