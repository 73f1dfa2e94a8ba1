// Copyright 2022 The mirlo Authors
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

package repository

import (
	"context"

	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

// Capabilities defines capabilities repository operations.
type Capabilities interface {
	// CapabilitiesExist tells whether capabilities have been registered for a given key.
	CapabilitiesExist(ctx context.Context, key capsmodel.Key) (bool, error)

	// FetchCapabilities retrieves the capabilities entity associated to a given key.
	FetchCapabilities(ctx context.Context, key capsmodel.Key) (*capsmodel.Capabilities, error)

	// UpsertCapabilities inserts or updates a capabilities entity.
	UpsertCapabilities(ctx context.Context, caps *capsmodel.Capabilities) error
}
