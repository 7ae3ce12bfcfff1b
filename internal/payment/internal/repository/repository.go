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
package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/webmall/internal/payment/internal/domain"
	"github.com/ecodeclub/webmall/internal/payment/internal/repository/dao"
)

var (
	ErrPaymentNotFound  = dao.ErrPaymentNotFound
	ErrDuplicatePayment = dao.ErrDuplicatePayment
)

//go:generate mockgen -source=./repository.go -package=repomocks -destination=./mocks/payment.mock.go PaymentRepository
type PaymentRepository interface {
	Create(ctx context.Context, pmt domain.Payment) (int64, error)
	FindByOrderID(ctx context.Context, orderID int64) (domain.Payment, error)
	FindByIntentID(ctx context.Context, intentID string) (domain.Payment, error)
	ReplaceIntent(ctx context.Context, pmt domain.Payment) error
	UpdateStatus(ctx context.Context, intentID string, status domain.Status, paidAt int64) (bool, error)
	FindPending(ctx context.Context, ctime int64, afterID int64, limit int) ([]domain.Payment, error)
}

func NewPaymentRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{
		dao: d,
	}
}

type paymentRepository struct {
	dao dao.PaymentDAO
}

func (p *paymentRepository) Create(ctx context.Context, pmt domain.Payment) (int64, error) {
	return p.dao.Insert(ctx, p.toEntity(pmt))
}

func (p *paymentRepository) FindByOrderID(ctx context.Context, orderID int64) (domain.Payment, error) {
	pmt, err := p.dao.FindByOrderID(ctx, orderID)
	return p.toDomain(pmt), err
}

func (p *paymentRepository) FindByIntentID(ctx context.Context, intentID string) (domain.Payment, error) {
	pmt, err := p.dao.FindByIntentID(ctx, intentID)
	return p.toDomain(pmt), err
}

func (p *paymentRepository) ReplaceIntent(ctx context.Context, pmt domain.Payment) error {
	return p.dao.ReplaceIntent(ctx, p.toEntity(pmt))
}

func (p *paymentRepository) UpdateStatus(ctx context.Context, intentID string, status domain.Status, paidAt int64) (bool, error) {
	return p.dao.UpdateStatus(ctx, intentID, status.ToUint8(), paidAt)
}

func (p *paymentRepository) FindPending(ctx context.Context, ctime int64, afterID int64, limit int) ([]domain.Payment, error) {
	pmts, err := p.dao.FindPending(ctx, ctime, afterID, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(pmts, func(idx int, src dao.Payment) domain.Payment {
		return p.toDomain(src)
	}), nil
}

func (p *paymentRepository) toDomain(pmt dao.Payment) domain.Payment {
	return domain.Payment{
		ID:           pmt.Id,
		OrderID:      pmt.OrderId,
		OrderSN:      pmt.OrderSn,
		PayerID:      pmt.PayerId,
		Provider:     pmt.Provider,
		IntentID:     pmt.IntentId,
		ClientSecret: pmt.ClientSecret,
		Amount:       pmt.Amount,
		Currency:     pmt.Currency,
		Status:       domain.Status(pmt.Status),
		PaidAt:       pmt.PaidAt,
		Ctime:        pmt.Ctime,
		Utime:        pmt.Utime,
	}
}

func (p *paymentRepository) toEntity(pmt domain.Payment) dao.Payment {
	return dao.Payment{
		Id:           pmt.ID,
		OrderId:      pmt.OrderID,
		OrderSn:      pmt.OrderSN,
		PayerId:      pmt.PayerID,
		Provider:     pmt.Provider,
		IntentId:     pmt.IntentID,
		ClientSecret: pmt.ClientSecret,
		Amount:       pmt.Amount,
		Currency:     pmt.Currency,
		Status:       pmt.Status.ToUint8(),
		PaidAt:       pmt.PaidAt,
	}
}
