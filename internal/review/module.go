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

package review

import (
	"github.com/ecodeclub/webmall/internal/review/internal/domain"
	"github.com/ecodeclub/webmall/internal/review/internal/service"
	"github.com/ecodeclub/webmall/internal/review/internal/web"
)

type Module struct {
	Svc      Service
	Hdl      *Hdl
	AdminHdl *AdminHdl
}

type Service = service.ReviewSvc
type Review = domain.Review
type Summary = domain.Summary
type AdminHdl = web.AdminHandler
type Hdl = web.Handler

var (
	ErrNotPurchased   = service.ErrNotPurchased
	ErrReviewNotFound = service.ErrReviewNotFound
)
