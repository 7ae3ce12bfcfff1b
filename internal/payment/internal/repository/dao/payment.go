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
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const uniqueIndexErrNo uint16 = 1062

const (
	statusUnpaid      uint8 = 1
	statusProcessing  uint8 = 2
	statusPaidSuccess uint8 = 3
	statusPaidFailed  uint8 = 4
)

var (
	ErrPaymentNotFound  = errors.New("支付记录不存在")
	ErrDuplicatePayment = errors.New("订单已有支付记录")
)

type PaymentDAO interface {
	Insert(ctx context.Context, pmt Payment) (int64, error)
	FindByOrderID(ctx context.Context, orderID int64) (Payment, error)
	FindByIntentID(ctx context.Context, intentID string) (Payment, error)
	// ReplaceIntent 原 intent 已失败，订单换一个新的 intent 重新支付
	ReplaceIntent(ctx context.Context, pmt Payment) error
	// UpdateStatus 已经是终态的记录不会被修改，返回值表示是否真正更新
	UpdateStatus(ctx context.Context, intentID string, status uint8, paidAt int64) (bool, error)
	// FindPending 按 id 升序翻页，afterID 是上一页的最大 id
	FindPending(ctx context.Context, ctime int64, afterID int64, limit int) ([]Payment, error)
}

type PaymentGORMDAO struct {
	db *egorm.Component
}

func NewPaymentGORMDAO(db *egorm.Component) PaymentDAO {
	return &PaymentGORMDAO{db: db}
}

func (g *PaymentGORMDAO) Insert(ctx context.Context, pmt Payment) (int64, error) {
	now := time.Now().UnixMilli()
	pmt.Ctime, pmt.Utime = now, now
	err := g.db.WithContext(ctx).Create(&pmt).Error
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == uniqueIndexErrNo {
		return 0, ErrDuplicatePayment
	}
	return pmt.Id, err
}

func (g *PaymentGORMDAO) FindByOrderID(ctx context.Context, orderID int64) (Payment, error) {
	return g.findBy(ctx, "order_id = ?", orderID)
}

func (g *PaymentGORMDAO) FindByIntentID(ctx context.Context, intentID string) (Payment, error) {
	return g.findBy(ctx, "intent_id = ?", intentID)
}

func (g *PaymentGORMDAO) findBy(ctx context.Context, query string, arg any) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where(query, arg).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Payment{}, ErrPaymentNotFound
	}
	return res, err
}

func (g *PaymentGORMDAO) ReplaceIntent(ctx context.Context, pmt Payment) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ? AND status = ?", pmt.Id, statusPaidFailed).
		Updates(map[string]any{
			"intent_id":     pmt.IntentId,
			"client_secret": pmt.ClientSecret,
			"amount":        pmt.Amount,
			"currency":      pmt.Currency,
			"status":        statusUnpaid,
			"utime":         time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) UpdateStatus(ctx context.Context, intentID string, status uint8, paidAt int64) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Payment{}).
		Where("intent_id = ? AND status IN ?", intentID, []uint8{statusUnpaid, statusProcessing}).
		Updates(map[string]any{
			"status":  status,
			"paid_at": paidAt,
			"utime":   time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *PaymentGORMDAO) FindPending(ctx context.Context, ctime int64, afterID int64, limit int) ([]Payment, error) {
	var res []Payment
	err := g.db.WithContext(ctx).
		Where("status IN ? AND ctime < ? AND id > ?", []uint8{statusUnpaid, statusProcessing}, ctime, afterID).
		Order("id ASC").Limit(limit).Find(&res).Error
	return res, err
}

type Payment struct {
	Id           int64  `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	OrderId      int64  `gorm:"not null;uniqueIndex:uniq_order_id;comment:订单ID"`
	OrderSn      string `gorm:"type:varchar(64);not null;comment:订单序列号"`
	PayerId      int64  `gorm:"not null;index:idx_payer_id;comment:支付者ID"`
	Provider     string `gorm:"type:varchar(32);not null;comment:支付渠道"`
	IntentId     string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_intent_id;comment:渠道支付单号"`
	ClientSecret string `gorm:"type:varchar(255);not null;comment:前端确认支付使用"`
	Amount       int64  `gorm:"not null;comment:支付金额, 最小货币单位"`
	Currency     string `gorm:"type:varchar(8);not null"`
	Status       uint8  `gorm:"type:tinyint unsigned;not null;default:1;index:idx_status_ctime;comment:支付状态 1=未支付 2=处理中 3=支付成功 4=支付失败"`
	PaidAt       int64  `gorm:"comment:支付时间"`
	Ctime        int64  `gorm:"index:idx_status_ctime"`
	Utime        int64
}
