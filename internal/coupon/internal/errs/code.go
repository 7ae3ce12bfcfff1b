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
	SystemError       = ErrorCode{Code: 505001, Msg: "系统错误"}
	CouponNotFound    = ErrorCode{Code: 505002, Msg: "优惠券不存在"}
	DuplicateCode     = ErrorCode{Code: 505003, Msg: "优惠券码已存在"}
	InvalidInput      = ErrorCode{Code: 505004, Msg: "优惠券信息不合法"}
	UsageLimitReached = ErrorCode{Code: 505005, Msg: "优惠券已达使用上限"}
	CouponInvalid     = ErrorCode{Code: 505006, Msg: "优惠券不可用"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
