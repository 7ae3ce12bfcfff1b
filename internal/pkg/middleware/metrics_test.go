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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsBuilder_Build(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	builder := NewMetricsBuilder(reg, "webmall", "web")

	server := gin.New()
	server.Use(builder.Build())
	server.POST("/order/create", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/order/create", nil)
		server.ServeHTTP(recorder, req)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/not/found/42", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(builder.counterVec.WithLabelValues(http.MethodPost, "/order/create", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(builder.counterVec.WithLabelValues(http.MethodGet, "unknown", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(builder.inflight))
}
