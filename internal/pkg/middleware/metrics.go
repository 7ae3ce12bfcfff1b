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
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsBuilder struct {
	summaryVec *prometheus.SummaryVec
	counterVec *prometheus.CounterVec
	inflight   prometheus.Gauge
}

// NewMetricsBuilder reg 为 nil 时注册到默认 registry
func NewMetricsBuilder(reg prometheus.Registerer, namespace, subsystem string) *MetricsBuilder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	labels := []string{"method", "path", "status_code"}
	return &MetricsBuilder{
		summaryVec: factory.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.005,
				0.99: 0.001,
			},
		}, labels),
		counterVec: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, labels),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests being served",
		}),
	}
}

func (a *MetricsBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		a.inflight.Inc()
		defer a.inflight.Dec()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			// 未匹配路由统一归类，避免 label 爆炸
			path = "unknown"
		}
		method := ctx.Request.Method
		statusCode := strconv.Itoa(ctx.Writer.Status())
		a.summaryVec.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		a.counterVec.WithLabelValues(method, path, statusCode).Inc()
	}
}
