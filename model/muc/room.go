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
	"github.com/jackal-xmpp/stravaganza/v2/jid"
)

// Room represents a joined multi-user chat room session state.
// Room state is owned by a single dispatch goroutine and is not
// safe for concurrent mutation.
type Room struct {
	roomJID *jid.JID
	nick    string

	rosterReceived bool
	occupants      map[string]*Occupant

	// pending member nick changes, keyed by the announced new nickname.
	pendingNickChanges map[string]string

	// announced new nickname of an in-progress local rename; empty when none.
	selfPendingNick string
}

// NewRoom returns an initialized room instance.
func NewRoom(roomJID *jid.JID, nick string) *Room {
	return &Room{
		roomJID:            roomJID.ToBareJID(),
		nick:               nick,
		occupants:          make(map[string]*Occupant),
		pendingNickChanges: make(map[string]string),
	}
}

// RoomJID returns room bare JID.
func (r *Room) RoomJID() *jid.JID { return r.roomJID }

// Nick returns the local occupant room nickname.
func (r *Room) Nick() string { return r.nick }

// SelfOccupantJID returns the local occupant room JID.
func (r *Room) SelfOccupantJID() *jid.JID {
	j, _ := jid.New(r.roomJID.Node(), r.roomJID.Domain(), r.nick, true)
	return j
}

// RosterReceived tells whether the initial presence burst has completed.
func (r *Room) RosterReceived() bool { return r.rosterReceived }

// MarkRosterReceived flags the initial presence burst as completed.
// The transition is monotonic; further calls have no effect.
func (r *Room) MarkRosterReceived() { r.rosterReceived = true }

// Occupant returns the occupant presence record associated to nick.
func (r *Room) Occupant(nick string) (*Occupant, bool) {
	o, ok := r.occupants[nick]
	return o, ok
}

// SetOccupant inserts or replaces an occupant presence record.
func (r *Room) SetOccupant(o *Occupant) {
	r.occupants[o.Nick] = o
}

// RemoveOccupant removes the occupant record associated to nick, if present.
func (r *Room) RemoveOccupant(nick string) {
	delete(r.occupants, nick)
}

// OccupantCount returns the current number of occupant records.
func (r *Room) OccupantCount() int { return len(r.occupants) }

// Occupants returns a snapshot of all occupant presence records.
func (r *Room) Occupants() []*Occupant {
	ret := make([]*Occupant, 0, len(r.occupants))
	for _, o := range r.occupants {
		ret = append(ret, o)
	}
	return ret
}

// SetPendingNickChange records that the occupant known as oldNick announced
// a rename to newNick and is expected to rejoin under it.
func (r *Room) SetPendingNickChange(newNick, oldNick string) {
	r.pendingNickChanges[newNick] = oldNick
}

// CompletePendingNickChange consumes the pending nick change expectation
// associated to newNick, returning the previous nickname.
func (r *Room) CompletePendingNickChange(newNick string) (oldNick string, ok bool) {
	oldNick, ok = r.pendingNickChanges[newNick]
	if ok {
		delete(r.pendingNickChanges, newNick)
	}
	return
}

// SetSelfPendingNickChange records that the local occupant announced a
// rename to newNick.
func (r *Room) SetSelfPendingNickChange(newNick string) { r.selfPendingNick = newNick }

// SelfPendingNick returns the announced new nickname of an in-progress
// local rename, or the empty string when none is pending.
func (r *Room) SelfPendingNick() string { return r.selfPendingNick }

// CompleteSelfPendingNickChange consumes the local rename expectation,
// applying newNick to the room session state. Presence under any other
// nickname leaves the expectation pending.
func (r *Room) CompleteSelfPendingNickChange(newNick string) bool {
	if r.selfPendingNick == "" || newNick != r.selfPendingNick {
		return false
	}
	r.selfPendingNick = ""
	if o, ok := r.occupants[r.nick]; ok {
		delete(r.occupants, r.nick)
		o.Nick = newNick
		r.occupants[newNick] = o
	}
	r.nick = newNick
	return true
}
