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
// Package admission provides non-blocking admission gates for uploads.
//
// A gate is consulted before an upload is processed. When it is full the
// caller rejects the request immediately instead of queueing it:
//
//	release, ok := gate.TryAcquire()
//	if !ok {
//	    // reply 409 busy
//	    return
//	}
//	defer release()
//
// NewSingleFlight allows one upload at a time process-wide, NewLimit allows
// n, and Unlimited admits everything. Transformation code holds no gate of
// its own; the HTTP layer picks the policy.
package admission
