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
	"github.com/ecodeclub/webmall/internal/review/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc    service.ReviewSvc
	logger *elog.Component
}

func NewHandler(svc service.ReviewSvc) *Handler {
	return &Handler{
		svc:    svc,
		logger: elog.DefaultLogger,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.POST("/review/list", ginx.B[ListReq](h.List))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/review/save", ginx.BS[SaveReq](h.Save))
	server.POST("/review/delete", ginx.BS[DeleteReq](h.Delete))
}

// List 商品评价按时间倒序
func (h *Handler) List(ctx *ginx.Context, req ListReq) (ginx.Result, error) {
	if req.ProductID <= 0 || req.Rating < 0 || req.Rating > 5 {
		return invalidInputResult, nil
	}
	total, reviews, err := h.svc.List(ctx.Request.Context(), req.ProductID, req.Rating, max(req.Offset, 0), pageSize(req.Limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newReviewListResp(total, reviews),
	}, nil
}

func (h *Handler) Save(ctx *ginx.Context, req SaveReq, sess session.Session) (ginx.Result, error) {
	id, err := h.svc.Save(ctx.Request.Context(), req.toDomain(sess.Claims().Uid))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{
		Data: id,
	}, nil
}

func (h *Handler) Delete(ctx *ginx.Context, req DeleteReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.Delete(ctx.Request.Context(), sess.Claims().Uid, req.ProductID)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{}, nil
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}
