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
	"testing"

	"github.com/ecodeclub/ekit/iox"
	ordermocks "github.com/ecodeclub/webmall/internal/order/mocks"
	"github.com/ecodeclub/webmall/internal/pkg/middleware"
	"github.com/ecodeclub/webmall/internal/product"
	"github.com/ecodeclub/webmall/internal/review/internal/errs"
	"github.com/ecodeclub/webmall/internal/review/internal/integration/startup"
	"github.com/ecodeclub/webmall/internal/review/internal/repository/dao"
	"github.com/ecodeclub/webmall/internal/review/internal/web"
	"github.com/ecodeclub/webmall/internal/test"
	testioc "github.com/ecodeclub/webmall/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	uid      = 123
	otherUID = 456
	adminUID = 1
)

func TestReview(t *testing.T) {
	suite.Run(t, new(TestSuite))
}

type TestSuite struct {
	suite.Suite
	db         *egorm.Component
	server     *egin.Component
	other      *egin.Component
	admin      *egin.Component
	orderSvc   *ordermocks.MockService
	productSvc product.Service
}

func (s *TestSuite) SetupSuite() {
	ctrl := gomock.NewController(s.T())
	s.orderSvc = ordermocks.NewMockService(ctrl)
	// uid 买过所有商品，otherUID 没买过
	s.orderSvc.EXPECT().HasPurchased(gomock.Any(), int64(uid), gomock.Any()).Return(true, nil).AnyTimes()
	s.orderSvc.EXPECT().HasPurchased(gomock.Any(), int64(otherUID), gomock.Any()).Return(false, nil).AnyTimes()

	m, err := startup.InitModules(s.orderSvc)
	require.NoError(s.T(), err)
	s.productSvc = m.Product.Svc

	econf.Set("server", map[string]any{"contextTimeout": "1s"})
	s.server = s.newServer(uid, middleware.RoleCustomer, func(e *gin.Engine) {
		m.Review.Hdl.PublicRoutes(e)
		m.Review.Hdl.PrivateRoutes(e)
	})
	s.other = s.newServer(otherUID, middleware.RoleCustomer, func(e *gin.Engine) {
		m.Review.Hdl.PrivateRoutes(e)
	})
	s.admin = s.newServer(adminUID, middleware.RoleAdmin, func(e *gin.Engine) {
		m.Review.AdminHdl.PrivateRoutes(e)
	})
	s.db = testioc.InitDB()
}

func (s *TestSuite) newServer(id int64, role string, register func(e *gin.Engine)) *egin.Component {
	server := egin.Load("server").Build()
	server.Use(test.SessionMiddleware(id, role))
	register(server.Engine)
	return server
}

func (s *TestSuite) TearDownTest() {
	for _, table := range []string{"reviews", "products", "product_variants"} {
		require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `"+table+"`").Error)
	}
	require.NoError(s.T(), testioc.InitRedis().FlushDB(context.Background()).Err())
}

func (s *TestSuite) seedProduct() int64 {
	id, err := s.productSvc.Save(context.Background(), product.Product{
		VendorID: 9,
		Name:     "Mug",
		Price:    decimal.RequireFromString("5.5"),
		Stock:    10,
		IsActive: true,
	})
	require.NoError(s.T(), err)
	return id
}

func (s *TestSuite) ratings(pid int64) product.Ratings {
	p, err := s.productSvc.FindByID(context.Background(), pid)
	require.NoError(s.T(), err)
	return p.Ratings
}

func post[T any](t *testing.T, server *egin.Component, path string, body any) test.Result[T] {
	req, err := http.NewRequest(http.MethodPost, path, iox.NewJSONReader(body))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder := test.NewJSONResponseRecorder[T]()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	return recorder.MustScan()
}

func (s *TestSuite) TestSave() {
	t := s.T()
	pid := s.seedProduct()

	res := post[int64](t, s.server, "/review/save", web.SaveReq{ProductID: pid, Rating: 5, Comment: "很好用"})
	require.Equal(t, 0, res.Code)
	id := res.Data
	assert.Equal(t, product.Ratings{Average: 5, Count: 1}, s.ratings(pid))

	// 再次提交视为修改，不会产生第二条评价
	res = post[int64](t, s.server, "/review/save", web.SaveReq{ProductID: pid, Rating: 2, Comment: "用了一周坏了"})
	require.Equal(t, 0, res.Code)
	assert.Equal(t, id, res.Data)
	var cnt int64
	require.NoError(t, s.db.Model(&dao.Review{}).Where("product_id = ?", pid).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
	assert.Equal(t, product.Ratings{Average: 2, Count: 1}, s.ratings(pid))

	// 没买过不能评价
	res = post[int64](t, s.other, "/review/save", web.SaveReq{ProductID: pid, Rating: 4, Comment: "看着不错"})
	assert.Equal(t, errs.NotPurchased.Code, res.Code)

	res = post[int64](t, s.server, "/review/save", web.SaveReq{ProductID: pid, Rating: 0, Comment: "x"})
	assert.Equal(t, errs.InvalidInput.Code, res.Code)
}

func (s *TestSuite) TestListAndDelete() {
	t := s.T()
	pid := s.seedProduct()
	// 直接插入其他用户的评价，模拟多人评价
	for i, r := range []int{5, 4, 4} {
		require.NoError(t, s.db.Create(&dao.Review{
			ProductID: pid, Uid: int64(1000 + i), Rating: r, Comment: "ok", Verified: true, Ctime: int64(i + 1), Utime: int64(i + 1),
		}).Error)
	}
	res := post[int64](t, s.server, "/review/save", web.SaveReq{ProductID: pid, Rating: 3, Comment: "一般"})
	require.Equal(t, 0, res.Code)
	// (5+4+4+3)/4 = 4.0
	assert.Equal(t, product.Ratings{Average: 4, Count: 4}, s.ratings(pid))

	list := post[web.ReviewListResp](t, s.server, "/review/list", web.ListReq{ProductID: pid, Limit: 2})
	require.Equal(t, 0, list.Code)
	assert.Equal(t, int64(4), list.Data.Total)
	require.Len(t, list.Data.List, 2)
	assert.Equal(t, int64(uid), list.Data.List[0].Uid)

	filtered := post[web.ReviewListResp](t, s.server, "/review/list", web.ListReq{ProductID: pid, Rating: 4})
	assert.Equal(t, int64(2), filtered.Data.Total)

	res = post[int64](t, s.server, "/review/delete", web.DeleteReq{ProductID: pid})
	require.Equal(t, 0, res.Code)
	// (5+4+4)/3 = 4.33
	assert.Equal(t, product.Ratings{Average: 4.3, Count: 3}, s.ratings(pid))

	// 删除后第一页缓存失效
	list = post[web.ReviewListResp](t, s.server, "/review/list", web.ListReq{ProductID: pid})
	assert.Equal(t, int64(3), list.Data.Total)
	assert.Len(t, list.Data.List, 3)

	res = post[int64](t, s.server, "/review/delete", web.DeleteReq{ProductID: pid})
	assert.Equal(t, errs.ReviewNotFound.Code, res.Code)

	// 管理员删除剩余评价
	var rest []dao.Review
	require.NoError(t, s.db.Where("product_id = ?", pid).Find(&rest).Error)
	for _, re := range rest {
		res = post[int64](t, s.admin, "/review/delete", web.DetailReq{ID: re.ID})
		require.Equal(t, 0, res.Code)
	}
	assert.Equal(t, product.Ratings{}, s.ratings(pid))
}
