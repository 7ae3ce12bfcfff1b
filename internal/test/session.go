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

package test

import (
	"errors"
	"strconv"

	"github.com/ecodeclub/ginx/gctx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
)

const sessionKey = "_session"

var errSessionNotFound = errors.New("未登录")

func init() {
	session.SetDefaultProvider(&SessionProvider{})
}

// SessionProvider 测试专用，从 gin 上下文中直接读取会话
type SessionProvider struct {
	session.Provider
}

func (s *SessionProvider) Get(ctx *gctx.Context) (session.Session, error) {
	val, ok := ctx.Get(sessionKey)
	if !ok {
		return nil, errSessionNotFound
	}
	return val.(session.Session), nil
}

// SessionMiddleware 模拟登录，uid 与 role 写入会话
func SessionMiddleware(uid int64, role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(sessionKey, session.NewMemorySession(session.Claims{
			Uid:  uid,
			SSID: "ssid-" + strconv.FormatInt(uid, 10),
			Data: map[string]string{"role": role},
		}))
	}
}
