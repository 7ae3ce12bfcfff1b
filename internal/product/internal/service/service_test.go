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
	"testing"

	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ecodeclub/webmall/internal/product/internal/event"
	evtmocks "github.com/ecodeclub/webmall/internal/product/internal/event/mocks"
	"github.com/ecodeclub/webmall/internal/product/internal/repository"
	repomocks "github.com/ecodeclub/webmall/internal/product/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestService_Save(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(ctrl *gomock.Controller) repository.ProductRepository
		product domain.Product
		wantID  int64
		wantErr error
	}{
		{
			name: "新建商品",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(int64(11), nil)
				return repo
			},
			product: domain.Product{VendorID: 2, Name: "T恤", Price: decimal.NewFromInt(99), Stock: 10},
			wantID:  11,
		},
		{
			name: "修改他人商品",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().FindByID(gomock.Any(), int64(11)).Return(domain.Product{ID: 11, VendorID: 3}, nil)
				return repo
			},
			product: domain.Product{ID: 11, VendorID: 2, Name: "T恤", Price: decimal.NewFromInt(99)},
			wantErr: ErrPermissionDenied,
		},
		{
			name: "修改不存在的商品",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().FindByID(gomock.Any(), int64(11)).Return(domain.Product{}, ErrProductNotFound)
				return repo
			},
			product: domain.Product{ID: 11, VendorID: 2, Name: "T恤", Price: decimal.NewFromInt(99)},
			wantErr: ErrProductNotFound,
		},
		{
			name: "价格为负",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				return repomocks.NewMockProductRepository(ctrl)
			},
			product: domain.Product{VendorID: 2, Name: "T恤", Price: decimal.NewFromInt(-1)},
			wantErr: ErrInvalidProduct,
		},
		{
			name: "规格缺少名称",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				return repomocks.NewMockProductRepository(ctrl)
			},
			product: domain.Product{
				VendorID: 2, Name: "T恤", Price: decimal.NewFromInt(99),
				Variants: []domain.Variant{{Price: decimal.NewFromInt(99)}},
			},
			wantErr: ErrInvalidProduct,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc := NewService(tc.mock(ctrl), evtmocks.NewMockInventoryEventProducer(ctrl))
			id, err := svc.Save(context.Background(), tc.product)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestService_DecreaseStock(t *testing.T) {
	lowStockShirt := domain.Product{
		ID: 1, VendorID: 2, Name: "T恤", LowStockThreshold: 5, IsActive: true,
		Variants: []domain.Variant{{ID: 7, Stock: 2}, {ID: 8, Stock: 1}},
	}
	testCases := []struct {
		name    string
		mock    func(ctrl *gomock.Controller) (repository.ProductRepository, event.InventoryEventProducer)
		loc     domain.StockLocation
		qty     int64
		wantErr error
	}{
		{
			name: "扣减规格库存并发出低库存事件",
			mock: func(ctrl *gomock.Controller) (repository.ProductRepository, event.InventoryEventProducer) {
				repo := repomocks.NewMockProductRepository(ctrl)
				producer := evtmocks.NewMockInventoryEventProducer(ctrl)
				repo.EXPECT().DecreaseStock(gomock.Any(), domain.VariantLocation(1, 7), int64(2)).Return(nil)
				repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(lowStockShirt, nil)
				producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, evt event.InventoryEvent) error {
						assert.Equal(t, int64(1), evt.ProductID)
						assert.Equal(t, int64(7), evt.VariantID)
						assert.Equal(t, int64(2), evt.VendorID)
						assert.Equal(t, int64(3), evt.Stock)
						assert.True(t, evt.LowStock)
						return nil
					})
				return repo, producer
			},
			loc: domain.VariantLocation(1, 7),
			qty: 2,
		},
		{
			name: "库存不足不发事件",
			mock: func(ctrl *gomock.Controller) (repository.ProductRepository, event.InventoryEventProducer) {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().DecreaseStock(gomock.Any(), domain.BaseLocation(1), int64(3)).Return(ErrInsufficientStock)
				return repo, evtmocks.NewMockInventoryEventProducer(ctrl)
			},
			loc:     domain.BaseLocation(1),
			qty:     3,
			wantErr: ErrInsufficientStock,
		},
		{
			name: "事件发送失败不影响扣减结果",
			mock: func(ctrl *gomock.Controller) (repository.ProductRepository, event.InventoryEventProducer) {
				repo := repomocks.NewMockProductRepository(ctrl)
				producer := evtmocks.NewMockInventoryEventProducer(ctrl)
				repo.EXPECT().DecreaseStock(gomock.Any(), domain.BaseLocation(1), int64(1)).Return(nil)
				repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(domain.Product{ID: 1, Stock: 9}, nil)
				producer.EXPECT().Produce(gomock.Any(), gomock.Any()).Return(errors.New("mock error"))
				return repo, producer
			},
			loc: domain.BaseLocation(1),
			qty: 1,
		},
		{
			name: "扣减数量非法",
			mock: func(ctrl *gomock.Controller) (repository.ProductRepository, event.InventoryEventProducer) {
				return repomocks.NewMockProductRepository(ctrl), evtmocks.NewMockInventoryEventProducer(ctrl)
			},
			loc:     domain.BaseLocation(1),
			qty:     0,
			wantErr: ErrInvalidProduct,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc := NewService(tc.mock(ctrl))
			err := svc.DecreaseStock(context.Background(), tc.loc, tc.qty)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_IncreaseStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := repomocks.NewMockProductRepository(ctrl)
	producer := evtmocks.NewMockInventoryEventProducer(ctrl)
	repo.EXPECT().IncreaseStock(gomock.Any(), domain.BaseLocation(1), int64(4)).Return(nil)
	repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(domain.Product{ID: 1, Stock: 14, LowStockThreshold: 10}, nil)
	producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.InventoryEvent) error {
			assert.Equal(t, int64(14), evt.Stock)
			assert.False(t, evt.LowStock)
			assert.Zero(t, evt.VariantID)
			return nil
		})
	err := NewService(repo, producer).IncreaseStock(context.Background(), domain.BaseLocation(1), 4)
	assert.NoError(t, err)
}

func TestService_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := repomocks.NewMockProductRepository(ctrl)
	repo.EXPECT().FindActiveByVendor(gomock.Any(), int64(2)).Return([]domain.Product{
		{ID: 1, Stock: 10, LowStockThreshold: 10},
		{ID: 2, Stock: 11, LowStockThreshold: 10},
		{ID: 3, Stock: 100, LowStockThreshold: 10, Variants: []domain.Variant{{Stock: 3}, {Stock: 4}}},
	}, nil)
	res, err := NewService(repo, evtmocks.NewMockInventoryEventProducer(ctrl)).LowStock(context.Background(), 2)
	assert.NoError(t, err)
	ids := make([]int64, 0, len(res))
	for _, p := range res {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestService_List(t *testing.T) {
	testCases := []struct {
		name      string
		mock      func(ctrl *gomock.Controller) repository.ProductRepository
		q         domain.Query
		wantIDs   []int64
		wantTotal int64
		wantErr   error
	}{
		{
			name: "筛选走 MySQL",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				q := domain.Query{Category: "audio", MinRating: 4, Limit: 10}
				repo.EXPECT().List(gomock.Any(), q).Return([]domain.Product{{ID: 2}, {ID: 1}}, nil)
				repo.EXPECT().Count(gomock.Any(), q).Return(int64(2), nil)
				return repo
			},
			q:         domain.Query{Category: "audio", MinRating: 4, Limit: 10},
			wantIDs:   []int64{2, 1},
			wantTotal: 2,
		},
		{
			name: "关键字走搜索",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().Search(gomock.Any(), gomock.Any()).
					Return([]domain.Product{{ID: 5}, {ID: 3}}, int64(12), nil)
				return repo
			},
			q:         domain.Query{Keyword: "耳机", Sort: domain.SortRelevance, Limit: 2},
			wantIDs:   []int64{5, 3},
			wantTotal: 12,
		},
		{
			name: "搜索失败退化为 MySQL",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().Search(gomock.Any(), gomock.Any()).
					Return(nil, int64(0), errors.New("es 不可用"))
				repo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]domain.Product{{ID: 3}}, nil)
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				return repo
			},
			q:         domain.Query{Keyword: "耳机", Limit: 2},
			wantIDs:   []int64{3},
			wantTotal: 1,
		},
		{
			name: "MySQL 查询失败",
			mock: func(ctrl *gomock.Controller) repository.ProductRepository {
				repo := repomocks.NewMockProductRepository(ctrl)
				repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("数据库错误"))
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				return repo
			},
			q:       domain.Query{Limit: 10},
			wantErr: errors.New("数据库错误"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc := NewService(tc.mock(ctrl), evtmocks.NewMockInventoryEventProducer(ctrl))
			ps, total, err := svc.List(context.Background(), tc.q)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantTotal, total)
			ids := make([]int64, 0, len(ps))
			for _, p := range ps {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}
