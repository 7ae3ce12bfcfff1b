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
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("参数不合法")
	ErrNotFound          = errors.New("资源不存在")
	ErrInsufficientStock = errors.New("库存不足")
	ErrCouponInvalid     = errors.New("优惠券不可用")
	ErrUnauthorized      = errors.New("无权操作该订单")
	ErrConflict          = errors.New("订单已被并发修改")

	ErrEmptyOrder        = fmt.Errorf("%w: 订单中没有商品", ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: 非法的状态流转", ErrValidation)
	ErrCancelReason      = fmt.Errorf("%w: 取消订单必须填写原因", ErrValidation)
)

// InsufficientStockError 指明是哪一个订单项库存不足
type InsufficientStockError struct {
	ProductID int64
	VariantID int64
	Name      string
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	if e.VariantID > 0 {
		return fmt.Sprintf("库存不足: %s, pid=%d, variant=%d, 需要 %d", e.Name, e.ProductID, e.VariantID, e.Requested)
	}
	return fmt.Sprintf("库存不足: %s, pid=%d, 需要 %d", e.Name, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type CouponInvalidError struct {
	Code   string
	Reason string
}

func (e *CouponInvalidError) Error() string {
	return fmt.Sprintf("优惠券 %s 不可用: %s", e.Code, e.Reason)
}

func (e *CouponInvalidError) Unwrap() error {
	return ErrCouponInvalid
}

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s 不存在: id=%d", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
