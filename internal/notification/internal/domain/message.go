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

import "fmt"

// RoomAdmin 所有管理员共享一个房间
const RoomAdmin = "admin"

const (
	MessageOrderCreated       = "order_created"
	MessageOrderStatusChanged = "order_status_changed"
	MessageInventoryUpdated   = "inventory_updated"
	MessageLowStock           = "low_stock"
)

func UserRoom(uid int64) string {
	return fmt.Sprintf("user:%d", uid)
}

func VendorRoom(vendorID int64) string {
	return fmt.Sprintf("vendor:%d", vendorID)
}

// Message 推送给 websocket 客户端的消息
type Message struct {
	Type  string `json:"type"`
	Data  any    `json:"data"`
	Ctime int64  `json:"ctime"`
}
