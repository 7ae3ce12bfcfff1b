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
package errs

var (
	SystemError        = ErrorCode{Code: 508001, Msg: "系统错误"}
	InvalidInput       = ErrorCode{Code: 508002, Msg: "参数错误"}
	ProductNotFound    = ErrorCode{Code: 508003, Msg: "商品不存在"}
	ProductUnavailable = ErrorCode{Code: 508004, Msg: "商品已下架"}
	AlreadyInWishlist  = ErrorCode{Code: 508005, Msg: "商品已在心愿单中"}
	NotInWishlist      = ErrorCode{Code: 508006, Msg: "商品不在心愿单中"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
