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

package gomail

import (
	"context"
	"fmt"

	"github.com/ecodeclub/webmall/internal/email"
	"gopkg.in/gomail.v2"
)

// Dialer *gomail.Dialer 实现了该接口
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// Service 通过 SMTP 发信，每封邮件单独建立连接
type Service struct {
	d    Dialer
	from string
}

func NewService(d Dialer, from string) *Service {
	return &Service{
		d:    d,
		from: from,
	}
}

func (s *Service) SendMail(ctx context.Context, mail email.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from := mail.From
	if from == "" {
		from = s.from
	}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/html", string(mail.Body))

	sc, err := s.d.Dial()
	if err != nil {
		return fmt.Errorf("连接邮件服务器失败: %w", err)
	}
	defer func() {
		_ = sc.Close()
	}()
	return gomail.Send(sc, m)
}
