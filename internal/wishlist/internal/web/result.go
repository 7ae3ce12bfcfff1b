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
	"github.com/ecodeclub/webmall/internal/wishlist/internal/errs"
	"github.com/ecodeclub/webmall/internal/wishlist/internal/service"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	invalidInputResult = ginx.Result{
		Code: errs.InvalidInput.Code,
		Msg:  errs.InvalidInput.Msg,
	}
	productNotFoundResult = ginx.Result{
		Code: errs.ProductNotFound.Code,
		Msg:  errs.ProductNotFound.Msg,
	}
	productUnavailableResult = ginx.Result{
		Code: errs.ProductUnavailable.Code,
		Msg:  errs.ProductUnavailable.Msg,
	}
	alreadyInWishlistResult = ginx.Result{
		Code: errs.AlreadyInWishlist.Code,
		Msg:  errs.AlreadyInWishlist.Msg,
	}
	notInWishlistResult = ginx.Result{
		Code: errs.NotInWishlist.Code,
		Msg:  errs.NotInWishlist.Msg,
	}
)

func errorResult(err error) (ginx.Result, error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return productNotFoundResult, nil
	case errors.Is(err, service.ErrProductUnavailable):
		return productUnavailableResult, nil
	case errors.Is(err, service.ErrAlreadyInWishlist):
		return alreadyInWishlistResult, nil
	case errors.Is(err, service.ErrNotInWishlist):
		return notInWishlistResult, nil
	default:
		return systemErrorResult, err
	}
}
