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
package web

import (
	"errors"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/ecodeclub/webmall/internal/order/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	orderNotFoundResult = ginx.Result{
		Code: errs.OrderNotFound.Code,
		Msg:  errs.OrderNotFound.Msg,
	}
	productNotFoundResult = ginx.Result{
		Code: errs.ProductNotFound.Code,
		Msg:  errs.ProductNotFound.Msg,
	}
	invalidInputResult = ginx.Result{
		Code: errs.InvalidInput.Code,
		Msg:  errs.InvalidInput.Msg,
	}
	unauthorizedResult = ginx.Result{
		Code: errs.Unauthorized.Code,
		Msg:  errs.Unauthorized.Msg,
	}
	conflictResult = ginx.Result{
		Code: errs.Conflict.Code,
		Msg:  errs.Conflict.Msg,
	}
	illegalTransitionResult = ginx.Result{
		Code: errs.IllegalTransition.Code,
		Msg:  errs.IllegalTransition.Msg,
	}
)

// errorResult 业务错误转换成错误码，只有系统错误才把 error 交给 ginx 记录
func errorResult(err error) (ginx.Result, error) {
	var (
		stockErr    *domain.InsufficientStockError
		couponErr   *domain.CouponInvalidError
		notFoundErr *domain.NotFoundError
	)
	switch {
	case errors.As(err, &stockErr):
		return ginx.Result{
			Code: errs.InsufficientStock.Code,
			Msg:  errs.InsufficientStock.Msg,
			Data: StockShortage{
				ProductID: stockErr.ProductID,
				VariantID: stockErr.VariantID,
				Name:      stockErr.Name,
				Requested: stockErr.Requested,
			},
		}, nil
	case errors.As(err, &couponErr):
		return ginx.Result{
			Code: errs.CouponInvalid.Code,
			Msg:  couponErr.Reason,
		}, nil
	case errors.As(err, &notFoundErr):
		if notFoundErr.Resource == "order" {
			return orderNotFoundResult, nil
		}
		return productNotFoundResult, nil
	case errors.Is(err, domain.ErrInvalidTransition):
		return illegalTransitionResult, nil
	case errors.Is(err, domain.ErrValidation):
		return invalidInputResult, nil
	case errors.Is(err, domain.ErrUnauthorized):
		return unauthorizedResult, nil
	case errors.Is(err, domain.ErrConflict):
		return conflictResult, nil
	default:
		return systemErrorResult, err
	}
}
