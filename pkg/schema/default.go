// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package schema

// DefaultScalars are the scalar columns of a supplier asset sheet.
var DefaultScalars = []string{
	"SerialNumber", "CFCode", "region", "CfnName", "CustomerNumber", "ProcessorType",
	"NumberSocket", "NumberCore", "Model", "CustomerName", "CustomerAddress",
	"PostCode", "Country", "OrderNumber", "PONumber", "BmcMacAddress",
	"Memory", "HBA", "BOSS", "PERC", "NVME", "GPU",
}

// DefaultGroups are the indexed column families of a supplier asset sheet.
var DefaultGroups = []Group{
	{Name: "HDD", Max: 12},
	{Name: "NIC", Max: 6},
	{Name: "EMBMAC", Max: 3},
}

// Default returns the built-in asset schema.
func Default() *Schema {
	s, err := New(DefaultScalars, DefaultGroups)
	if err != nil {
		panic(err)
	}
	return s
}
