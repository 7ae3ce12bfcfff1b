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
	SystemError       = ErrorCode{Code: 503001, Msg: "系统错误"}
	OrderNotFound     = ErrorCode{Code: 503002, Msg: "订单不存在"}
	InvalidInput      = ErrorCode{Code: 503003, Msg: "订单信息不合法"}
	ProductNotFound   = ErrorCode{Code: 503004, Msg: "商品不存在或已下架"}
	InsufficientStock = ErrorCode{Code: 503005, Msg: "商品库存不足"}
	CouponInvalid     = ErrorCode{Code: 503006, Msg: "优惠券不可用"}
	Unauthorized      = ErrorCode{Code: 503007, Msg: "无权操作该订单"}
	Conflict          = ErrorCode{Code: 503008, Msg: "订单已被修改，请刷新后重试"}
	IllegalTransition = ErrorCode{Code: 503009, Msg: "订单当前状态不允许该操作"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
