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

package xep0045

import (
	"context"

	"github.com/jackal-xmpp/sonar"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/mirlo-im/mirlo/event"
	"github.com/mirlo-im/mirlo/log"
	mucmodel "github.com/mirlo-im/mirlo/model/muc"
	"github.com/mirlo-im/mirlo/module/xep0115"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
)

// offlineReason is the literal reason announced on member offline events.
const offlineReason = "offline"

// Muc represents the multi-user chat (XEP-0045) room presence module.
// It drives per-room occupant state transitions: joins, departures,
// nick-change correlation and initial roster burst completion.
type Muc struct {
	registry *mucmodel.Registry
	caps     *xep0115.EntityCaps
	sn       *sonar.Sonar
}

// New returns a new initialized Muc instance.
func New(registry *mucmodel.Registry, caps *xep0115.EntityCaps, sn *sonar.Sonar) *Muc {
	return &Muc{
		registry: registry,
		caps:     caps,
		sn:       sn,
	}
}

// ProcessPresence processes a room presence stanza, applying the matching
// occupant transition and announcing its outcome.
// Presences addressed from rooms the local user is not joined to are dropped.
func (m *Muc) ProcessPresence(ctx context.Context, pr *stravaganza.Presence) {
	fromJID := pr.FromJID()

	room := m.registry.Room(fromJID.ToBareJID().String())
	if room == nil {
		log.Debugw("dropped presence from unknown room", "from", fromJID.String())
		return
	}
	nick := fromJID.Resource()

	// a self nick change completes under a nickname the room record
	// does not carry yet
	if nick == room.Nick() || (nick != "" && nick == room.SelfPendingNick()) {
		m.processSelfPresence(ctx, room, pr, nick)
		return
	}
	m.processMemberPresence(ctx, room, pr, nick)
}

func (m *Muc) processSelfPresence(ctx context.Context, room *mucmodel.Room, pr *stravaganza.Presence, nick string) {
	roomJID := room.RoomJID().String()

	if pr.Attribute(stravaganza.Type) == stravaganza.UnavailableType {
		if xmpputil.IsNickChange(pr) {
			room.SetSelfPendingNickChange(xmpputil.NewNick(pr))
			return
		}
		m.postEvent(ctx, event.RoomLeft, &event.RoomEventInfo{Room: roomJID})
		return
	}
	if room.CompleteSelfPendingNickChange(nick) {
		m.postEvent(ctx, event.RoomNickChanged, &event.RoomEventInfo{
			Room: roomJID,
			Nick: nick,
		})
		return
	}
	if !room.RosterReceived() {
		room.MarkRosterReceived()
		m.postEvent(ctx, event.RoomRosterComplete, &event.RoomEventInfo{Room: roomJID})
	}
	// steady-state self presence carries no further meaning here
}

func (m *Muc) processMemberPresence(ctx context.Context, room *mucmodel.Room, pr *stravaganza.Presence, nick string) {
	roomJID := room.RoomJID().String()

	if pr.Attribute(stravaganza.Type) == stravaganza.UnavailableType {
		if xmpputil.IsNickChange(pr) {
			// the rename applies when the new nickname shows up available
			room.SetPendingNickChange(xmpputil.NewNick(pr), nick)
			return
		}
		m.postEvent(ctx, event.RoomMemberOffline, &event.RoomMemberEventInfo{
			Room:   roomJID,
			Nick:   nick,
			Reason: offlineReason,
			Status: xmpputil.PresenceStatus(pr),
		})
		return
	}
	occupant := &mucmodel.Occupant{
		Nick:    nick,
		Show:    xmpputil.PresenceShow(pr),
		Status:  xmpputil.PresenceStatus(pr),
		CapsKey: m.caps.ResolveKey(ctx, pr),
	}
	if !room.RosterReceived() {
		// initial burst entries are silent; completion is signalled once
		// through the first self presence
		room.SetOccupant(occupant)
		return
	}
	if oldNick, ok := room.CompletePendingNickChange(nick); ok {
		room.RemoveOccupant(oldNick)
		room.SetOccupant(occupant)
		m.postEvent(ctx, event.RoomMemberNickChanged, &event.RoomMemberNickChangeEventInfo{
			Room:    roomJID,
			OldNick: oldNick,
			NewNick: nick,
		})
		return
	}
	_, present := room.Occupant(nick)
	room.SetOccupant(occupant)

	eventName := event.RoomMemberUpdated
	if !present {
		eventName = event.RoomMemberOnline
	}
	m.postEvent(ctx, eventName, &event.RoomMemberEventInfo{
		Room:    roomJID,
		Nick:    nick,
		Show:    occupant.Show,
		Status:  occupant.Status,
		CapsKey: occupant.CapsKey,
	})
}

func (m *Muc) postEvent(ctx context.Context, eventName string, inf interface{}) {
	err := m.sn.Post(ctx, sonar.NewEventBuilder(eventName).
		WithInfo(inf).
		WithSender(m).
		Build(),
	)
	if err != nil {
		log.Warnw("failed to post room event", "name", eventName, "err", err)
	}
}
