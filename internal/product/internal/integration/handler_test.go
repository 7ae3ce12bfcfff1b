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

//go:build e2e

package integration

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ecodeclub/ekit/iox"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ecodeclub/webmall/internal/product/internal/errs"
	"github.com/ecodeclub/webmall/internal/product/internal/integration/startup"
	"github.com/ecodeclub/webmall/internal/product/internal/repository/dao"
	"github.com/ecodeclub/webmall/internal/product/internal/web"
	"github.com/ecodeclub/webmall/internal/test"
	testioc "github.com/ecodeclub/webmall/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const vendorUID = 1001

type ProductTestSuite struct {
	suite.Suite
	server *egin.Component
	db     *egorm.Component
	svc    product.Service
}

func TestProductModule(t *testing.T) {
	suite.Run(t, new(ProductTestSuite))
}

func (s *ProductTestSuite) SetupSuite() {
	m, err := startup.InitModule()
	require.NoError(s.T(), err)
	econf.Set("server", map[string]any{"contextTimeout": "1s"})
	server := egin.Load("server").Build()
	server.Use(test.SessionMiddleware(vendorUID, middleware.RoleVendor))
	m.Hdl.PublicRoutes(server.Engine)
	m.Hdl.PrivateRoutes(server.Engine)
	s.server = server
	s.svc = m.Svc
	s.db = testioc.InitDB()
}

func (s *ProductTestSuite) TearDownTest() {
	require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `products`").Error)
	require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `product_variants`").Error)
}

func (s *ProductTestSuite) TestSave() {
	t := s.T()
	testCases := []struct {
		name     string
		before   func(t *testing.T)
		req      web.Product
		after    func(t *testing.T, id int64)
		wantCode int
		wantResp test.Result[int64]
	}{
		{
			name:   "新建有规格的商品",
			before: func(t *testing.T) {},
			req: web.Product{
				Name:        "T恤",
				Description: "纯棉",
				Price:       "99.90",
				Variants: []web.Variant{
					{Name: "S", SKU: "TS-S", Price: "99.90", Stock: 3, Size: "S"},
					{Name: "M", SKU: "TS-M", Price: "109.90", Stock: 5, Size: "M"},
				},
			},
			after: func(t *testing.T, id int64) {
				p, err := s.svc.FindByID(context.Background(), id)
				require.NoError(t, err)
				assert.Equal(t, int64(vendorUID), p.VendorID)
				assert.True(t, p.HasVariants())
				assert.Equal(t, int64(8), p.TotalStock())
				assert.True(t, p.IsActive)
				assert.Equal(t, "109.9", p.Variants[1].Price.String())
			},
			wantCode: 200,
			wantResp: test.Result[int64]{Data: 1},
		},
		{
			name: "修改他人商品",
			before: func(t *testing.T) {
				err := s.db.Create(&dao.Product{
					Id: 2, VendorId: 999, Name: "别人的商品", Price: decimal.NewFromInt(1), IsActive: true,
				}).Error
				require.NoError(t, err)
			},
			req:      web.Product{ID: 2, Name: "改名", Price: "1.00"},
			after:    func(t *testing.T, id int64) {},
			wantCode: 200,
			wantResp: test.Result[int64]{Code: errs.PermissionDenied.Code, Msg: errs.PermissionDenied.Msg},
		},
		{
			name:     "价格格式错误",
			before:   func(t *testing.T) {},
			req:      web.Product{Name: "T恤", Price: "abc"},
			after:    func(t *testing.T, id int64) {},
			wantCode: 200,
			wantResp: test.Result[int64]{Code: errs.InvalidInput.Code, Msg: errs.InvalidInput.Msg},
		},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.before(t)
			req, err := http.NewRequest(http.MethodPost,
				"/product/save", iox.NewJSONReader(tc.req))
			req.Header.Set("content-type", "application/json")
			require.NoError(t, err)
			recorder := test.NewJSONResponseRecorder[int64]()
			s.server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantCode, recorder.Code)
			resp := recorder.MustScan()
			assert.Equal(t, tc.wantResp, resp)
			tc.after(t, resp.Data)
		})
	}
}

func (s *ProductTestSuite) TestSave_DeactivateMissingVariants() {
	t := s.T()
	ctx := context.Background()
	id, err := s.svc.Save(ctx, domain.Product{
		VendorID: vendorUID, Name: "鞋", Price: decimal.NewFromInt(200),
		Variants: []domain.Variant{
			{Name: "40", Price: decimal.NewFromInt(200), Stock: 1},
			{Name: "41", Price: decimal.NewFromInt(200), Stock: 1},
		},
	})
	require.NoError(t, err)
	p, err := s.svc.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)

	keep := p.Variants[0]
	p.Variants = []domain.Variant{keep}
	_, err = s.svc.Save(ctx, p)
	require.NoError(t, err)

	p, err = s.svc.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, p.Variants, 1)
	assert.Equal(t, keep.ID, p.Variants[0].ID)

	var removed dao.Variant
	err = s.db.Where("product_id = ? AND id <> ?", id, keep.ID).First(&removed).Error
	require.NoError(t, err)
	assert.False(t, removed.IsActive)
}

func (s *ProductTestSuite) TestDecreaseStock_NoOversell() {
	t := s.T()
	ctx := context.Background()
	err := s.db.Create(&dao.Product{
		Id: 10, VendorId: vendorUID, Name: "限量款", Price: decimal.NewFromInt(10), Stock: 10, IsActive: true,
		LowStockThreshold: 2,
	}).Error
	require.NoError(t, err)

	const buyers = 50
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		rejected  atomic.Int64
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			er := s.svc.DecreaseStock(ctx, product.BaseLocation(10), 1)
			switch {
			case er == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, er, product.ErrInsufficientStock):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(10), succeeded.Load())
	assert.Equal(t, int64(buyers-10), rejected.Load())

	var p dao.Product
	require.NoError(t, s.db.Where("id = ?", 10).First(&p).Error)
	assert.Equal(t, int64(0), p.Stock)
	assert.Equal(t, int64(10), p.Sales)
}

func (s *ProductTestSuite) TestVariantStock() {
	t := s.T()
	ctx := context.Background()
	require.NoError(t, s.db.Create(&dao.Product{
		Id: 20, VendorId: vendorUID, Name: "卫衣", Price: decimal.NewFromInt(10), IsActive: true, HasVariants: true,
	}).Error)
	require.NoError(t, s.db.Create(&dao.Variant{
		Id: 21, ProductId: 20, Name: "L", Price: decimal.NewFromInt(10), Stock: 2, IsActive: true,
		Attributes: sqlx.JsonColumn[dao.Attributes]{Val: dao.Attributes{Size: "L"}, Valid: true},
	}).Error)

	err := s.svc.DecreaseStock(ctx, product.VariantLocation(20, 21), 3)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	err = s.svc.DecreaseStock(ctx, product.VariantLocation(20, 99), 1)
	assert.ErrorIs(t, err, product.ErrVariantNotFound)

	err = s.svc.DecreaseStock(ctx, product.VariantLocation(20, 21), 2)
	require.NoError(t, err)
	err = s.svc.IncreaseStock(ctx, product.VariantLocation(20, 21), 2)
	require.NoError(t, err)

	var v dao.Variant
	require.NoError(t, s.db.Where("id = ?", 21).First(&v).Error)
	assert.Equal(t, int64(2), v.Stock)
	var p dao.Product
	require.NoError(t, s.db.Where("id = ?", 20).First(&p).Error)
	assert.Equal(t, int64(0), p.Sales)
}

func (s *ProductTestSuite) TestDetail() {
	t := s.T()
	require.NoError(t, s.db.Create(&[]dao.Product{
		{Id: 30, VendorId: vendorUID, Name: "在售", Price: decimal.RequireFromString("12.50"), Stock: 3, IsActive: true},
		{Id: 31, VendorId: vendorUID, Name: "下架", Price: decimal.NewFromInt(1), Stock: 3, IsActive: false},
	}).Error)
	// gorm 创建时会用 default:true 覆盖零值，这里显式下架
	require.NoError(t, s.db.Model(&dao.Product{}).Where("id = ?", 31).Update("is_active", false).Error)

	testCases := []struct {
		name     string
		req      web.IDReq
		wantResp test.Result[web.Product]
	}{
		{
			name: "在售商品",
			req:  web.IDReq{ID: 30},
			wantResp: test.Result[web.Product]{Data: web.Product{
				ID: 30, VendorID: vendorUID, Name: "在售", Price: "12.50", CompareAtPrice: "0.00",
				Stock: 3, TotalStock: 3, LowStockThreshold: 10, IsActive: true,
			}},
		},
		{
			name:     "下架商品",
			req:      web.IDReq{ID: 31},
			wantResp: test.Result[web.Product]{Code: errs.ProductNotFound.Code, Msg: errs.ProductNotFound.Msg},
		},
		{
			name:     "不存在",
			req:      web.IDReq{ID: 32},
			wantResp: test.Result[web.Product]{Code: errs.ProductNotFound.Code, Msg: errs.ProductNotFound.Msg},
		},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := http.NewRequest(http.MethodPost,
				"/product/detail", iox.NewJSONReader(tc.req))
			req.Header.Set("content-type", "application/json")
			require.NoError(t, err)
			recorder := test.NewJSONResponseRecorder[web.Product]()
			s.server.ServeHTTP(recorder, req)
			require.Equal(t, 200, recorder.Code)
			resp := recorder.MustScan()
			resp.Data.Utime = 0
			assert.Equal(t, tc.wantResp, resp)
		})
	}
}

func (s *ProductTestSuite) TestList() {
	t := s.T()
	require.NoError(t, s.db.Create(&[]dao.Product{
		{Id: 40, VendorId: vendorUID, Name: "入门耳机", Category: "audio", Price: decimal.RequireFromString("59"), RatingAverage: 3.5, Sales: 10, IsActive: true},
		{Id: 41, VendorId: vendorUID, Name: "降噪耳机", Category: "audio", Price: decimal.RequireFromString("899"), RatingAverage: 4.8, Sales: 3, IsActive: true},
		{Id: 42, VendorId: 2002, Name: "蓝牙音箱", Category: "audio", Price: decimal.RequireFromString("199"), RatingAverage: 4.2, Sales: 30, IsActive: true},
		{Id: 43, VendorId: vendorUID, Name: "机械键盘", Category: "keyboard", Price: decimal.RequireFromString("299"), RatingAverage: 4.9, Sales: 5, IsActive: true},
	}).Error)

	testCases := []struct {
		name      string
		req       web.ListReq
		wantIDs   []int64
		wantTotal int64
	}{
		{
			name:      "分类加价格区间",
			req:       web.ListReq{Category: "audio", MinPrice: "100", MaxPrice: "900", Sort: "price_asc"},
			wantIDs:   []int64{42, 41},
			wantTotal: 2,
		},
		{
			name:      "评分加商家",
			req:       web.ListReq{VendorID: vendorUID, MinRating: 4, Sort: "rating"},
			wantIDs:   []int64{43, 41},
			wantTotal: 2,
		},
		{
			name:      "按销量分页",
			req:       web.ListReq{Sort: "sales", Offset: 1, Limit: 2},
			wantIDs:   []int64{40, 43},
			wantTotal: 4,
		},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := http.NewRequest(http.MethodPost,
				"/product/list", iox.NewJSONReader(tc.req))
			req.Header.Set("content-type", "application/json")
			require.NoError(t, err)
			recorder := test.NewJSONResponseRecorder[web.ProductList]()
			s.server.ServeHTTP(recorder, req)
			require.Equal(t, 200, recorder.Code)
			resp := recorder.MustScan()
			assert.Equal(t, tc.wantTotal, resp.Data.Total)
			ids := make([]int64, 0, len(resp.Data.Products))
			for _, p := range resp.Data.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}
