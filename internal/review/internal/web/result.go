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
	"github.com/ecodeclub/webmall/internal/review/internal/errs"
	"github.com/ecodeclub/webmall/internal/review/internal/service"
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
	notPurchasedResult = ginx.Result{
		Code: errs.NotPurchased.Code,
		Msg:  errs.NotPurchased.Msg,
	}
	reviewNotFoundResult = ginx.Result{
		Code: errs.ReviewNotFound.Code,
		Msg:  errs.ReviewNotFound.Msg,
	}
	duplicateResult = ginx.Result{
		Code: errs.Duplicate.Code,
		Msg:  errs.Duplicate.Msg,
	}
)

func errorResult(err error) (ginx.Result, error) {
	switch {
	case errors.Is(err, service.ErrInvalidReview):
		return invalidInputResult, nil
	case errors.Is(err, service.ErrNotPurchased):
		return notPurchasedResult, nil
	case errors.Is(err, service.ErrReviewNotFound):
		return reviewNotFoundResult, nil
	case errors.Is(err, service.ErrDuplicateReview):
		return duplicateResult, nil
	default:
		return systemErrorResult, err
	}
}
