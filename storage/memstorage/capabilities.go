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

package memstorage

import (
	"context"
	"sync"

	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

// Capabilities represents an in-memory capabilities repository.
type Capabilities struct {
	mu   sync.RWMutex
	caps map[string]*capsmodel.Capabilities
}

// NewCapabilities returns an initialized in-memory capabilities repository.
func NewCapabilities() *Capabilities {
	return &Capabilities{caps: make(map[string]*capsmodel.Capabilities)}
}

// CapabilitiesExist tells whether capabilities have been registered for a given key.
func (c *Capabilities) CapabilitiesExist(_ context.Context, key capsmodel.Key) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.caps[key.String()]
	return ok, nil
}

// FetchCapabilities retrieves the capabilities entity associated to a given key.
func (c *Capabilities) FetchCapabilities(_ context.Context, key capsmodel.Key) (*capsmodel.Capabilities, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	caps, ok := c.caps[key.String()]
	if !ok {
		return nil, nil
	}
	cp := *caps
	return &cp, nil
}

// UpsertCapabilities inserts or updates a capabilities entity.
func (c *Capabilities) UpsertCapabilities(_ context.Context, caps *capsmodel.Capabilities) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *caps
	c.caps[caps.Key.String()] = &cp
	return nil
}
