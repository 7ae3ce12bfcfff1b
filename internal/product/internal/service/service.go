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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ecodeclub/webmall/internal/product/internal/event"
	"github.com/ecodeclub/webmall/internal/product/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrProductNotFound   = repository.ErrProductNotFound
	ErrVariantNotFound   = repository.ErrVariantNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock
	ErrPermissionDenied  = errors.New("无权操作该商品")
	ErrInvalidProduct    = errors.New("商品信息不合法")
)

//go:generate mockgen -source=./service.go -package=productmocks -destination=../../mocks/product.mock.go Service
type Service interface {
	Save(ctx context.Context, p domain.Product) (int64, error)
	Deactivate(ctx context.Context, vendorID, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	// List 有关键字时走 ES 搜索，ES 不可用时退化为 MySQL 模糊匹配
	List(ctx context.Context, q domain.Query) ([]domain.Product, int64, error)
	ListByVendor(ctx context.Context, vendorID int64, offset, limit int) ([]domain.Product, int64, error)
	LowStock(ctx context.Context, vendorID int64) ([]domain.Product, error)
	// DecreaseStock 库存不足时不做任何修改，返回 ErrInsufficientStock
	DecreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error
	IncreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error
	UpdateRatings(ctx context.Context, productID int64, r domain.Ratings) error
}

type service struct {
	repo     repository.ProductRepository
	producer event.InventoryEventProducer
	logger   *elog.Component
}

func NewService(repo repository.ProductRepository, producer event.InventoryEventProducer) Service {
	return &service{
		repo:     repo,
		producer: producer,
		logger:   elog.DefaultLogger,
	}
}

func (s *service) Save(ctx context.Context, p domain.Product) (int64, error) {
	if err := s.validate(p); err != nil {
		return 0, err
	}
	if p.ID > 0 {
		old, err := s.repo.FindByID(ctx, p.ID)
		if err != nil {
			return 0, err
		}
		if old.VendorID != p.VendorID {
			return 0, fmt.Errorf("%w: pid=%d, vendor=%d", ErrPermissionDenied, p.ID, p.VendorID)
		}
	}
	return s.repo.Save(ctx, p)
}

func (s *service) validate(p domain.Product) error {
	if p.Name == "" || p.Price.IsNegative() || p.Stock < 0 || p.LowStockThreshold < 0 {
		return ErrInvalidProduct
	}
	for _, v := range p.Variants {
		if v.Name == "" || v.Price.IsNegative() || v.Stock < 0 {
			return ErrInvalidProduct
		}
	}
	return nil
}

func (s *service) Deactivate(ctx context.Context, vendorID, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.VendorID != vendorID {
		return fmt.Errorf("%w: pid=%d, vendor=%d", ErrPermissionDenied, id, vendorID)
	}
	return s.repo.Deactivate(ctx, vendorID, id)
}

func (s *service) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, q domain.Query) ([]domain.Product, int64, error) {
	if q.HasKeyword() {
		ps, total, err := s.repo.Search(ctx, q)
		if err == nil {
			return ps, total, nil
		}
		s.logger.Error("搜索商品失败，改用 MySQL 查询",
			elog.FieldErr(err),
			elog.String("keyword", q.Keyword))
	}
	var (
		eg    errgroup.Group
		ps    []domain.Product
		total int64
	)
	eg.Go(func() error {
		var err error
		ps, err = s.repo.List(ctx, q)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.Count(ctx, q)
		return err
	})
	return ps, total, eg.Wait()
}

func (s *service) ListByVendor(ctx context.Context, vendorID int64, offset, limit int) ([]domain.Product, int64, error) {
	var (
		eg    errgroup.Group
		ps    []domain.Product
		total int64
	)
	eg.Go(func() error {
		var err error
		ps, err = s.repo.ListByVendor(ctx, vendorID, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.CountByVendor(ctx, vendorID)
		return err
	})
	return ps, total, eg.Wait()
}

func (s *service) LowStock(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	ps, err := s.repo.FindActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if p.IsLowStock() {
			res = append(res, p)
		}
	}
	return res, nil
}

func (s *service) DecreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: 扣减数量必须大于 0", ErrInvalidProduct)
	}
	err := s.repo.DecreaseStock(ctx, loc, qty)
	if err != nil {
		return err
	}
	s.publish(ctx, loc)
	return nil
}

func (s *service) IncreaseStock(ctx context.Context, loc domain.StockLocation, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: 回补数量必须大于 0", ErrInvalidProduct)
	}
	err := s.repo.IncreaseStock(ctx, loc, qty)
	if err != nil {
		return err
	}
	s.publish(ctx, loc)
	return nil
}

func (s *service) UpdateRatings(ctx context.Context, productID int64, r domain.Ratings) error {
	return s.repo.UpdateRatings(ctx, productID, r)
}

// publish 库存已经修改成功，事件发送失败只记录日志
func (s *service) publish(ctx context.Context, loc domain.StockLocation) {
	p, err := s.repo.FindByID(ctx, loc.ProductID)
	if err != nil {
		s.logger.Error("查询库存变更后的商品失败",
			elog.FieldErr(err),
			elog.String("location", loc.String()))
		return
	}
	evt := event.InventoryEvent{
		ProductID:         p.ID,
		VendorID:          p.VendorID,
		Name:              p.Name,
		Stock:             p.TotalStock(),
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Ctime:             time.Now().UnixMilli(),
	}
	if loc.Kind() == domain.LocationVariant {
		evt.VariantID = loc.VariantID
	}
	if err = s.producer.Produce(ctx, evt); err != nil {
		s.logger.Error("发送库存变更事件失败",
			elog.FieldErr(err),
			elog.String("location", loc.String()))
	}
}
