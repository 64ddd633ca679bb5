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
// Package intake exposes asset document normalization over HTTP.
//
// Routes (mounted on pkg/server, behind its middleware chain):
//
//	POST   /v1/assets/upload    normalize; returns the JSON array, or stores it with persist=true
//	POST   /v1/assets/validate  normalize without storing; returns a ValidationReport
//	GET    /v1/assets/schema    active schema document (?format=yaml)
//	GET    /v1/assets/json      stored export
//	DELETE /v1/assets/json      remove the stored export
//
// Uploads arrive as a multipart "file" field or as a raw body. Options come
// from form fields or the query string:
//
//	delimiter  , ; tab auto   (default ,)
//	encoding   utf-8, latin-1, ...  (default utf-8)
//	format     auto csv xlsx  (default from the media type)
//	layout     trim declared present
//	persist    true|false
//
// Example:
//
//	curl -F file=@assets.csv -F delimiter=';' http://localhost:8080/v1/assets/upload
//
// Only one document is processed at a time unless INTAKE_ADMISSION says
// otherwise; a busy gate answers 409 CONFLICT immediately.
package intake
