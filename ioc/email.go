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

package ioc

import (
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/webmall/internal/email"
	"github.com/ecodeclub/webmall/internal/email/gomail"
	emailretry "github.com/ecodeclub/webmall/internal/email/retry"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	gomailv2 "gopkg.in/gomail.v2"
)

// InitEmailService 没有配置 SMTP 时不发送邮件
func InitEmailService() email.Service {
	type Config struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		Retry    struct {
			Interval   time.Duration `yaml:"interval"`
			MaxRetries int32         `yaml:"maxRetries"`
		} `yaml:"retry"`
	}
	var cfg Config
	err := econf.UnmarshalKey("email", &cfg)
	if err != nil {
		panic(err)
	}
	if cfg.Host == "" {
		elog.DefaultLogger.Warn("未配置 SMTP，邮件通知不会发出")
		return email.NopService{}
	}
	d := gomailv2.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	svc := gomail.NewService(d, cfg.From)
	// 先确认配置合法，避免每次发送时才失败
	_, err = retry.NewFixedIntervalRetryStrategy(cfg.Retry.Interval, cfg.Retry.MaxRetries)
	if err != nil {
		panic(err)
	}
	return emailretry.NewService(svc, func() retry.Strategy {
		s, _ := retry.NewFixedIntervalRetryStrategy(cfg.Retry.Interval, cfg.Retry.MaxRetries)
		return s
	})
}
