package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

type zipkinConfig struct {
	ServiceName    string `yaml:"serviceName"`
	ServiceVersion string `yaml:"serviceVersion"`
	Endpoint       string `yaml:"endpoint"`
	// SampleRatio 取值 0 到 1
	SampleRatio float64 `yaml:"sampleRatio"`
}

// InitZipkinTracer 初始化 zipkin tracer，GORM 插件和 gin 中间件都从全局 provider 取 tracer
func InitZipkinTracer() *trace.TracerProvider {
	cfg := zipkinConfig{
		ServiceName:    "webmall",
		ServiceVersion: "v0.0.1",
		SampleRatio:    1,
	}
	err := econf.UnmarshalKey("trace.zipkin", &cfg)
	if err != nil {
		elog.Panic("read trace config failed", elog.FieldErr(err))
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		elog.Panic("init resource failed", elog.FieldErr(err))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tp, err := newTracerProvider(cfg, res)
	if err != nil {
		elog.Panic("init tracer provider failed", elog.FieldErr(err))
	}
	otel.SetTracerProvider(tp)
	return tp
}

func newTracerProvider(cfg zipkinConfig, res *resource.Resource) (*trace.TracerProvider, error) {
	exporter, err := zipkin.New(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter, trace.WithBatchTimeout(time.Second)),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SampleRatio))),
		trace.WithResource(res),
	), nil
}
