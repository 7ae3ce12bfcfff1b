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
	"net/http"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/webmall/internal/notification/internal/domain"
	"github.com/ecodeclub/webmall/internal/notification/internal/hub"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	hub    *hub.Hub
	sp     session.Provider
	logger *elog.Component
}

func NewHandler(h *hub.Hub) *Handler {
	return &Handler{
		hub:    h,
		logger: elog.DefaultLogger,
	}
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.GET("/notification/ws", h.WS)
}

// WS 升级后不再走 ginx 的 JSON 响应
func (h *Handler) WS(ctx *gin.Context) {
	sp := h.sp
	if sp == nil {
		sp = session.DefaultProvider()
	}
	sess, err := sp.Get(&ginx.Context{Context: ctx})
	if err != nil {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	uid := sess.Claims().Uid
	rooms := Rooms(uid, middleware.RoleOf(sess))
	err = h.hub.ServeWS(ctx.Writer, ctx.Request, uid, rooms)
	if err != nil {
		h.logger.Error("建立 websocket 连接失败",
			elog.FieldErr(err),
			elog.Int64("uid", uid))
	}
}

// Rooms 每个用户都有自己的房间，商家额外订阅店铺房间
func Rooms(uid int64, role string) []string {
	rooms := []string{domain.UserRoom(uid)}
	switch role {
	case middleware.RoleVendor:
		rooms = append(rooms, domain.VendorRoom(uid))
	case middleware.RoleAdmin:
		rooms = append(rooms, domain.RoomAdmin)
	}
	return rooms
}
