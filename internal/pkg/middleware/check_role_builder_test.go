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

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecodeclub/ginx/gctx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	session.Provider
	sess session.Session
	err  error
}

func (f *fakeProvider) Get(_ *gctx.Context) (session.Session, error) {
	return f.sess, f.err
}

func TestCheckRoleMiddlewareBuilder_Build(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testCases := []struct {
		name     string
		sp       session.Provider
		roles    []string
		wantCode int
	}{
		{
			name:     "未登录",
			sp:       &fakeProvider{err: errors.New("mock no session")},
			roles:    []string{RoleAdmin},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "管理员",
			sp: &fakeProvider{sess: session.NewMemorySession(session.Claims{
				Uid:  1,
				Data: map[string]string{"role": RoleAdmin},
			})},
			roles:    []string{RoleVendor, RoleAdmin},
			wantCode: http.StatusOK,
		},
		{
			name: "未设置角色视为顾客",
			sp: &fakeProvider{sess: session.NewMemorySession(session.Claims{
				Uid: 2,
			})},
			roles:    []string{RoleVendor, RoleAdmin},
			wantCode: http.StatusForbidden,
		},
		{
			name: "商家访问管理员接口",
			sp: &fakeProvider{sess: session.NewMemorySession(session.Claims{
				Uid:  3,
				Data: map[string]string{"role": RoleVendor},
			})},
			roles:    []string{RoleAdmin},
			wantCode: http.StatusForbidden,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			builder := NewCheckRoleMiddlewareBuilder()
			builder.sp = tc.sp
			server := gin.New()
			server.Use(builder.Build(tc.roles...))
			server.POST("/order/status/update", func(ctx *gin.Context) {
				ctx.Status(http.StatusOK)
			})
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/order/status/update", nil))
			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}
