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

// RestockTask 多次重试仍然没有回补成功的库存，由定时任务继续回补
type RestockTask struct {
	ID        int64
	OrderID   int64
	ProductID int64
	VariantID int64
	Quantity  int64
	Attempts  int
	Ctime     int64
}
