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
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestOrderGORMDAO_Create(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(t *testing.T) *sql.DB
		wantID  int64
		wantErr error
	}{
		{
			name: "创建成功",
			mock: func(t *testing.T) *sql.DB {
				mockDB, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO `orders` .*").
					WillReturnResult(sqlmock.NewResult(11, 1))
				mock.ExpectExec("INSERT INTO `order_items` .*").
					WillReturnResult(sqlmock.NewResult(1, 2))
				mock.ExpectCommit()
				return mockDB
			},
			wantID: 11,
		},
		{
			name: "订单号重复",
			mock: func(t *testing.T) *sql.DB {
				mockDB, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO `orders` .*").
					WillReturnError(&mysql.MySQLError{Number: 1062})
				mock.ExpectRollback()
				return mockDB
			},
			wantErr: ErrDuplicateSN,
		},
		{
			name: "订单项写入失败",
			mock: func(t *testing.T) *sql.DB {
				mockDB, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO `orders` .*").
					WillReturnResult(sqlmock.NewResult(11, 1))
				mock.ExpectExec("INSERT INTO `order_items` .*").
					WillReturnError(errors.New("数据库错误"))
				mock.ExpectRollback()
				return mockDB
			},
			wantErr: errors.New("数据库错误"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewOrderGORMDAO(openDB(t, tc.mock(t)))
			id, err := d.Create(context.Background(), Order{
				SN:         "ORD-202610-ABCDEFGH",
				BuyerId:    1,
				TotalPrice: decimal.RequireFromString("20.00"),
			}, []OrderItem{
				{ProductId: 1, VendorId: 2, Quantity: 1, Price: decimal.RequireFromString("10.00")},
				{ProductId: 2, VendorId: 3, Quantity: 1, Price: decimal.RequireFromString("10.00")},
			})
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestOrderGORMDAO_CompareAndSwapStatus(t *testing.T) {
	testCases := []struct {
		name     string
		affected int64
		wantOK   bool
	}{
		{name: "状态未变化，更新成功", affected: 1, wantOK: true},
		{name: "状态已被其他请求修改", affected: 0, wantOK: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			mock.ExpectExec("UPDATE `orders` SET .* WHERE .*id = \\? AND status = \\?").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))
			d := NewOrderGORMDAO(openDB(t, mockDB))
			ok, err := d.CompareAndSwapStatus(context.Background(), Order{
				Id:           1,
				Status:       8,
				CancelReason: "不想要了",
				CancelledAt:  123,
				CancelledBy:  9,
			}, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrderGORMDAO_MarkPaid(t *testing.T) {
	testCases := []struct {
		name     string
		affected int64
		err      error
		wantOK   bool
		wantErr  error
	}{
		{name: "首次回调", affected: 1, wantOK: true},
		{name: "重复回调", affected: 0, wantOK: false},
		{name: "数据库错误", err: errors.New("数据库错误"), wantErr: errors.New("数据库错误")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			exp := mock.ExpectExec("UPDATE `orders` SET .* WHERE .*id = \\? AND status = \\? AND is_paid = \\?")
			if tc.err != nil {
				exp.WillReturnError(tc.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tc.affected))
			}
			d := NewOrderGORMDAO(openDB(t, mockDB))
			ok, err := d.MarkPaid(context.Background(), 1, 123, PaymentResult{Provider: "stripe", Reference: "pi_1"})
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestOrderGORMDAO_FindByID(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery("SELECT .* FROM `orders` WHERE id = \\?.*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	d := NewOrderGORMDAO(openDB(t, mockDB))
	_, err = d.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderGORMDAO_RestockTask(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectExec("INSERT INTO `restock_tasks` .*").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// 另一个实例已经抢到了任务
	mock.ExpectExec("UPDATE `restock_tasks` SET .* WHERE id = \\? AND status = \\?").
		WithArgs(restockTaskDone, sqlmock.AnyArg(), int64(1), restockTaskPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE `restock_tasks` SET .* WHERE id = \\? AND status = \\?").
		WithArgs(restockTaskPending, sqlmock.AnyArg(), int64(1), restockTaskDone).
		WillReturnResult(sqlmock.NewResult(0, 1))
	d := NewOrderGORMDAO(openDB(t, mockDB))

	tasks := []RestockTask{{OrderId: 1001, ProductId: 1, VariantId: 11, Quantity: 2}}
	require.NoError(t, d.CreateRestockTasks(context.Background(), tasks))
	assert.Equal(t, restockTaskPending, tasks[0].Status)
	assert.NoError(t, d.CreateRestockTasks(context.Background(), nil))

	ok, err := d.CompleteRestockTask(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, d.ReopenRestockTask(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func openDB(t *testing.T, conn *sql.DB) *gorm.DB {
	db, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}
