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

package event

import (
	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

const (
	// RoomLeft event is posted when the local occupant leaves a room.
	RoomLeft = "muc.room_left"

	// RoomNickChanged event is posted when the local occupant nickname change completes.
	RoomNickChanged = "muc.room_nick_changed"

	// RoomRosterComplete event is posted when a room initial presence burst completes.
	RoomRosterComplete = "muc.room_roster_complete"

	// RoomMemberOnline event is posted when a new member occupant becomes available.
	RoomMemberOnline = "muc.member_online"

	// RoomMemberOffline event is posted when a member occupant becomes unavailable.
	RoomMemberOffline = "muc.member_offline"

	// RoomMemberNickChanged event is posted when a member occupant nickname change completes.
	RoomMemberNickChanged = "muc.member_nick_changed"

	// RoomMemberUpdated event is posted when a member occupant refreshes its presence.
	RoomMemberUpdated = "muc.member_updated"
)

// RoomEventInfo contains all info associated to a room self-presence event.
type RoomEventInfo struct {
	// Room is the room bare JID.
	Room string

	// Nick contains the local occupant new nickname on nick change events.
	Nick string
}

// RoomMemberEventInfo contains all info associated to a room member presence event.
type RoomMemberEventInfo struct {
	// Room is the room bare JID.
	Room string

	// Nick is the member occupant nickname.
	Nick string

	// Show contains the member show value ("online" when absent).
	Show string

	// Status contains the member status text, if any.
	Status string

	// Reason contains the unavailability reason on member offline events.
	Reason string

	// CapsKey references the member capabilities cache entry, if any.
	CapsKey *capsmodel.Key
}

// RoomMemberNickChangeEventInfo contains all info associated to a member nick change event.
type RoomMemberNickChangeEventInfo struct {
	// Room is the room bare JID.
	Room string

	// OldNick is the nickname the member was known as.
	OldNick string

	// NewNick is the nickname the member rejoined under.
	NewNick string
}
