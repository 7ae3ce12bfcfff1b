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

package product

import (
	"github.com/ecodeclub/webmall/internal/product/internal/domain"
	"github.com/ecodeclub/webmall/internal/product/internal/event"
	"github.com/ecodeclub/webmall/internal/product/internal/service"
	"github.com/ecodeclub/webmall/internal/product/internal/web"
)

type Module struct {
	Svc Service
	Hdl *Handler
}

type Service = service.Service
type Handler = web.Handler
type Product = domain.Product
type Variant = domain.Variant
type Attributes = domain.Attributes
type Ratings = domain.Ratings
type StockLocation = domain.StockLocation
type InventoryEvent = event.InventoryEvent

const InventoryEventName = event.InventoryEventName

var (
	ErrProductNotFound   = service.ErrProductNotFound
	ErrVariantNotFound   = service.ErrVariantNotFound
	ErrInsufficientStock = service.ErrInsufficientStock
	ErrPermissionDenied  = service.ErrPermissionDenied
)

func BaseLocation(productID int64) StockLocation {
	return domain.BaseLocation(productID)
}

func VariantLocation(productID, variantID int64) StockLocation {
	return domain.VariantLocation(productID, variantID)
}
