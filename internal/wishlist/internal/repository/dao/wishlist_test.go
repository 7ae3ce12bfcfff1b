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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestWishlistDAO_Insert(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "收藏成功",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `wishlist_items` .*").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "重复收藏",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `wishlist_items` .*").
					WillReturnError(&mysql.MySQLError{Number: uniqueIndexErrNo})
			},
			wantErr: ErrDuplicateItem,
		},
		{
			name: "其他错误",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `wishlist_items` .*").
					WillReturnError(errors.New("mock db error"))
			},
			wantErr: errors.New("mock db error"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			tc.mock(mock)
			d := NewWishlistDAO(openDB(t, mockDB))
			err = d.Insert(context.Background(), WishlistItem{Uid: 1, ProductId: 2})
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.Equal(t, tc.wantErr.Error(), err.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWishlistDAO_Delete(t *testing.T) {
	testCases := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{
			name:     "删除成功",
			affected: 1,
		},
		{
			name:    "不在心愿单中",
			wantErr: ErrItemNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			mock.ExpectExec("DELETE FROM `wishlist_items` WHERE uid = \\? AND product_id = \\?").
				WithArgs(int64(1), int64(2)).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))
			d := NewWishlistDAO(openDB(t, mockDB))
			err = d.Delete(context.Background(), 1, 2)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWishlistDAO_DeleteAll(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	// 心愿单为空时清空也算成功
	mock.ExpectExec("DELETE FROM `wishlist_items` WHERE uid = \\?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	d := NewWishlistDAO(openDB(t, mockDB))
	require.NoError(t, d.DeleteAll(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistDAO_List(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery("SELECT \\* FROM `wishlist_items` WHERE uid = \\? ORDER BY ctime DESC, id DESC LIMIT \\?").
		WithArgs(int64(1), 200).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "product_id", "ctime"}).
			AddRow(2, 1, 9, 200).
			AddRow(1, 1, 3, 100))
	d := NewWishlistDAO(openDB(t, mockDB))
	items, err := d.List(context.Background(), 1, 200)
	require.NoError(t, err)
	assert.Equal(t, []WishlistItem{
		{Id: 2, Uid: 1, ProductId: 9, Ctime: 200},
		{Id: 1, Uid: 1, ProductId: 3, Ctime: 100},
	}, items)
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
