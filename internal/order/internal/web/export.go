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
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecodeclub/webmall/internal/order/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
	"github.com/shopspring/decimal"
)

const (
	exportBatchSize = 200
	maxExportRows   = 10000
)

var csvHeader = []string{
	"Order Number", "Customer ID", "Contact Email", "Status", "Payment Method",
	"Payment Status", "Items", "Subtotal", "Tax", "Shipping", "Discount", "Total",
	"Shipping Address", "Order Date",
}

// vendorCSVHeader 商家只看得到自己的商品，不导出整单的税费和运费
var vendorCSVHeader = []string{
	"Order Number", "Customer ID", "Status", "Payment Status", "Items",
	"Vendor Subtotal", "Shipping Address", "Order Date",
}

type fetchOrders func(ctx context.Context, offset, limit int) ([]domain.Order, error)

// collectOrders 分批拉取，最多 maxExportRows 条
func collectOrders(ctx context.Context, fetch fetchOrders) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, exportBatchSize)
	for offset := 0; offset < maxExportRows; offset += exportBatchSize {
		list, err := fetch(ctx, offset, exportBatchSize)
		if err != nil {
			return nil, err
		}
		orders = append(orders, list...)
		if len(list) < exportBatchSize {
			break
		}
	}
	return orders, nil
}

func serveCSV(ctx *gin.Context, logger *elog.Component, prefix string, write func(w io.Writer) error) {
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-%s.csv", prefix, time.Now().Format("2006-01-02")))
	ctx.Status(http.StatusOK)
	if err := write(ctx.Writer); err != nil {
		logger.Error("写入订单 CSV 失败", elog.FieldErr(err))
	}
}

func writeOrdersCSV(w io.Writer, orders []domain.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(csvRow(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(o domain.Order) []string {
	items := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemText(it))
	}
	return []string{
		o.SN,
		fmt.Sprintf("%d", o.BuyerID),
		o.ContactEmail,
		o.Status.String(),
		o.PaymentMethod,
		paymentStatus(o),
		strings.Join(items, "; "),
		o.Pricing.ItemsPrice.StringFixed(2),
		o.Pricing.TaxPrice.StringFixed(2),
		o.Pricing.ShippingPrice.StringFixed(2),
		o.Pricing.DiscountAmount.StringFixed(2),
		o.Pricing.TotalPrice.StringFixed(2),
		o.ShippingAddress.String(),
		time.UnixMilli(o.Ctime).UTC().Format("2006-01-02"),
	}
}

func writeVendorOrdersCSV(w io.Writer, vendorID int64, orders []domain.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(vendorCSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		row, ok := vendorCSVRow(vendorID, o)
		if !ok {
			continue
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// vendorCSVRow 订单里没有该商家的商品时返回 false
func vendorCSVRow(vendorID int64, o domain.Order) ([]string, bool) {
	items := make([]string, 0, len(o.Items))
	subtotal := decimal.Zero
	for _, it := range o.Items {
		if it.VendorID != vendorID {
			continue
		}
		items = append(items, itemText(it))
		subtotal = subtotal.Add(it.Subtotal())
	}
	if len(items) == 0 {
		return nil, false
	}
	return []string{
		o.SN,
		fmt.Sprintf("%d", o.BuyerID),
		o.Status.String(),
		paymentStatus(o),
		strings.Join(items, "; "),
		subtotal.StringFixed(2),
		o.ShippingAddress.String(),
		time.UnixMilli(o.Ctime).UTC().Format("2006-01-02"),
	}, true
}

func paymentStatus(o domain.Order) string {
	if o.IsPaid {
		return "Paid"
	}
	return "Pending"
}

func itemText(it domain.Item) string {
	name := it.Name
	if it.VariantName != "" {
		name = name + " - " + it.VariantName
	}
	return fmt.Sprintf("%s (Qty: %d @ %s)", name, it.Quantity, it.Price.StringFixed(2))
}
