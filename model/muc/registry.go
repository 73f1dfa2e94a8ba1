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

package mucmodel

import (
	"sync"

	"github.com/jackal-xmpp/stravaganza/v2/jid"
)

// Registry keeps track of the joined room set, keyed by room bare JID.
// Rooms are registered on join and dropped on leave; dropping a room
// discards all of its pending state, including unresolved nick changes.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry returns an initialized room registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// JoinRoom registers a new joined room under the given occupant nickname.
// Rejoining an already registered room resets its session state.
func (reg *Registry) JoinRoom(roomJID *jid.JID, nick string) *Room {
	r := NewRoom(roomJID, nick)
	reg.mu.Lock()
	reg.rooms[r.RoomJID().String()] = r
	reg.mu.Unlock()
	return r
}

// LeaveRoom drops the room registered under roomJID, if any.
func (reg *Registry) LeaveRoom(roomJID string) {
	reg.mu.Lock()
	delete(reg.rooms, roomJID)
	reg.mu.Unlock()
}

// Room returns the room registered under roomJID, or nil when not joined.
func (reg *Registry) Room(roomJID string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[roomJID]
}

// Rooms returns a snapshot of all registered rooms.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ret := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		ret = append(ret, r)
	}
	return ret
}
