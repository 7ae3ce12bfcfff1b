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

// AdminHandler 管理后台删除违规评价
type AdminHandler struct {
	svc    service.ReviewSvc
	logger *elog.Component
}

func NewAdminHandler(svc service.ReviewSvc) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		logger: elog.DefaultLogger,
	}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	server.POST("/review/delete", ginx.BS[DetailReq](h.Delete))
}

func (h *AdminHandler) Delete(ctx *ginx.Context, req DetailReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.AdminDelete(ctx.Request.Context(), req.ID)
	if err != nil {
		return errorResult(err)
	}
	h.logger.Info("管理员删除评价",
		elog.Int64("reviewID", req.ID),
		elog.Int64("uid", sess.Claims().Uid))
	return ginx.Result{}, nil
}
