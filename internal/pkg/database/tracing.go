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

package database

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	instrumentationName = "internal/pkg/database/tracing"
	spanKey             = "tracing:span"
)

// GormTracingPlugin 为 GORM 的每次数据库操作创建一个 client span
type GormTracingPlugin struct {
	tracer trace.Tracer
}

func NewGormTracingPlugin() *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
	}
}

func (p *GormTracingPlugin) Name() string {
	return "GormTracingPlugin"
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before registrar
		after  registrar
	}{
		{op: "query", before: cb.Query().Before("gorm:query"), after: cb.Query().After("gorm:query")},
		{op: "create", before: cb.Create().Before("gorm:create"), after: cb.Create().After("gorm:create")},
		{op: "update", before: cb.Update().Before("gorm:update"), after: cb.Update().After("gorm:update")},
		{op: "delete", before: cb.Delete().Before("gorm:delete"), after: cb.Delete().After("gorm:delete")},
		{op: "row", before: cb.Row().Before("gorm:row"), after: cb.Row().After("gorm:row")},
		{op: "raw", before: cb.Raw().Before("gorm:raw"), after: cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register("tracing:before_"+h.op, p.before(h.op)); err != nil {
			return fmt.Errorf("注册 %s 前置回调失败: %w", h.op, err)
		}
		if err := h.after.Register("tracing:after_"+h.op, p.after); err != nil {
			return fmt.Errorf("注册 %s 后置回调失败: %w", h.op, err)
		}
	}
	return nil
}

func (p *GormTracingPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		ctx, span := p.tracer.Start(db.Statement.Context,
			fmt.Sprintf("%s %s", db.Statement.Table, op),
			trace.WithSpanKind(trace.SpanKindClient))
		db.Statement.Context = ctx
		db.InstanceSet(spanKey, span)
	}
}

func (p *GormTracingPlugin) after(db *gorm.DB) {
	val, ok := db.InstanceGet(spanKey)
	if !ok {
		return
	}
	span, ok := val.(trace.Span)
	if !ok {
		return
	}
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", db.Dialector.Name()),
		attribute.String("db.table", db.Statement.Table),
		attribute.String("db.statement", db.Statement.SQL.String()),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
