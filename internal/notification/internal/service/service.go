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

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/ecodeclub/webmall/internal/email"
	"github.com/ecodeclub/webmall/internal/notification/internal/domain"
	"github.com/ecodeclub/webmall/internal/order"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/gotomicro/ego/core/elog"
)

// Publisher 由 hub.Hub 实现，返回 false 表示消息被丢弃
type Publisher interface {
	Publish(data []byte, rooms ...string) bool
}

type Config struct {
	// OperatorEmail 接收低库存告警，为空时不发邮件
	OperatorEmail  string   `yaml:"operatorEmail"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

//go:generate mockgen -source=./service.go -package=svcmocks -destination=./mocks/service.mock.go Service
type Service interface {
	OrderChanged(ctx context.Context, evt order.OrderEvent) error
	InventoryChanged(ctx context.Context, evt product.InventoryEvent) error
}

type orderMail struct {
	subject  string
	headline string
}

// 其余状态只推送站内消息
var orderMails = map[string]orderMail{
	order.OrderEventTypeCreated:     {subject: "订单 %s 已创建", headline: "我们已经收到您的订单，请尽快完成支付。"},
	order.StatusProcessing.String(): {subject: "订单 %s 支付成功", headline: "您的订单已支付成功，商家正在备货。"},
	order.StatusShipped.String():    {subject: "订单 %s 已发货", headline: "您的订单已经发货。"},
	order.StatusDelivered.String():  {subject: "订单 %s 已送达", headline: "您的订单已经送达，欢迎评价。"},
	order.StatusCancelled.String():  {subject: "订单 %s 已取消", headline: "您的订单已取消。"},
	order.StatusRefunded.String():   {subject: "订单 %s 已退款", headline: "您的订单已退款，款项将原路退回。"},
}

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "order"}}<p>您好，</p>
<p>{{.Headline}}</p>
<table>
<tr><td>订单号</td><td>{{.Event.SN}}</td></tr>
<tr><td>状态</td><td>{{.Event.Status}}</td></tr>
<tr><td>商品数量</td><td>{{.Event.ItemCount}}</td></tr>
<tr><td>订单金额</td><td>{{.Event.TotalPrice}}</td></tr>
{{- if .Event.TrackingNumber}}
<tr><td>物流</td><td>{{.Event.Carrier}} {{.Event.TrackingNumber}}</td></tr>
{{- end}}
{{- if .Event.CancelReason}}
<tr><td>取消原因</td><td>{{.Event.CancelReason}}</td></tr>
{{- end}}
</table>{{end}}
{{define "low_stock"}}<p>商品 {{.Name}}（ID {{.ProductID}}{{if .VariantID}}，规格 {{.VariantID}}{{end}}）库存不足。</p>
<p>当前库存 {{.Stock}}，告警阈值 {{.LowStockThreshold}}，商家 ID {{.VendorID}}。</p>{{end}}
`))

type service struct {
	publisher Publisher
	mailSvc   email.Service
	cfg       Config
	logger    *elog.Component
}

func NewService(publisher Publisher, mailSvc email.Service, cfg Config) Service {
	return &service{
		publisher: publisher,
		mailSvc:   mailSvc,
		cfg:       cfg,
		logger:    elog.DefaultLogger,
	}
}

func (s *service) OrderChanged(ctx context.Context, evt order.OrderEvent) error {
	typ := domain.MessageOrderStatusChanged
	key := evt.Status
	if evt.Type == order.OrderEventTypeCreated {
		typ = domain.MessageOrderCreated
		key = order.OrderEventTypeCreated
	}
	rooms := make([]string, 0, len(evt.VendorIDs)+2)
	rooms = append(rooms, domain.UserRoom(evt.BuyerID))
	for _, vid := range evt.VendorIDs {
		rooms = append(rooms, domain.VendorRoom(vid))
	}
	rooms = append(rooms, domain.RoomAdmin)
	s.push(typ, evt, rooms...)

	m, ok := orderMails[key]
	if !ok || evt.ContactEmail == "" {
		return nil
	}
	body, err := s.render("order", map[string]any{
		"Headline": m.headline,
		"Event":    evt,
	})
	if err != nil {
		return err
	}
	err = s.mailSvc.SendMail(ctx, email.Mail{
		To:      evt.ContactEmail,
		Subject: fmt.Sprintf(m.subject, evt.SN),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("发送订单邮件失败 oid=%d: %w", evt.OrderID, err)
	}
	return nil
}

func (s *service) InventoryChanged(ctx context.Context, evt product.InventoryEvent) error {
	typ := domain.MessageInventoryUpdated
	if evt.LowStock {
		typ = domain.MessageLowStock
	}
	s.push(typ, evt, domain.VendorRoom(evt.VendorID), domain.RoomAdmin)

	if !evt.LowStock || s.cfg.OperatorEmail == "" {
		return nil
	}
	body, err := s.render("low_stock", evt)
	if err != nil {
		return err
	}
	err = s.mailSvc.SendMail(ctx, email.Mail{
		To:      s.cfg.OperatorEmail,
		Subject: fmt.Sprintf("商品 %s 库存不足", evt.Name),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("发送低库存告警失败 pid=%d: %w", evt.ProductID, err)
	}
	return nil
}

// push 站内消息尽力而为，失败只记录日志
func (s *service) push(typ string, data any, rooms ...string) {
	msg, err := json.Marshal(domain.Message{
		Type:  typ,
		Data:  data,
		Ctime: time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error("序列化站内消息失败", elog.FieldErr(err), elog.String("type", typ))
		return
	}
	if !s.publisher.Publish(msg, rooms...) {
		s.logger.Warn("站内消息被丢弃",
			elog.String("type", typ),
			elog.Any("rooms", rooms))
	}
}

func (s *service) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("渲染邮件模板 %s 失败: %w", name, err)
	}
	return buf.Bytes(), nil
}
