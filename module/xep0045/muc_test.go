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
	"testing"

	"github.com/jackal-xmpp/sonar"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/mirlo-im/mirlo/event"
	mucmodel "github.com/mirlo-im/mirlo/model/muc"
	"github.com/mirlo-im/mirlo/module/xep0115"
	"github.com/mirlo-im/mirlo/storage/memstorage"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
	"github.com/stretchr/testify/require"
)

const testRoomJID = "garden@muc.shakespeare.lit"

func TestMuc_RosterBurstCompletion(t *testing.T) {
	m, room, rec := testMuc(t)

	// initial burst: member entries are inserted silently
	m.ProcessPresence(context.Background(), memberPresence(t, "firstwitch", ""))
	m.ProcessPresence(context.Background(), memberPresence(t, "secondwitch", ""))

	require.Equal(t, 0, len(rec.events))
	require.Equal(t, 2, room.OccupantCount())

	// first self presence closes the burst
	m.ProcessPresence(context.Background(), selfPresence(t, "thirdwitch", ""))

	require.Equal(t, []string{event.RoomRosterComplete}, rec.names())
	require.True(t, room.RosterReceived())

	// roster completion fires exactly once
	m.ProcessPresence(context.Background(), selfPresence(t, "thirdwitch", ""))
	require.Equal(t, []string{event.RoomRosterComplete}, rec.names())
}

func TestMuc_MemberOnline(t *testing.T) {
	m, room, rec := testMuc(t)
	room.MarkRosterReceived()

	pr := memberPresence(t, "bob", "",
		textChild("show", "away"),
		textChild("status", "brb"),
	)
	m.ProcessPresence(context.Background(), pr)

	require.Equal(t, []string{event.RoomMemberOnline}, rec.names())

	inf := rec.events[0].Info().(*event.RoomMemberEventInfo)
	require.Equal(t, testRoomJID, inf.Room)
	require.Equal(t, "bob", inf.Nick)
	require.Equal(t, "away", inf.Show)
	require.Equal(t, "brb", inf.Status)

	_, present := room.Occupant("bob")
	require.True(t, present)
}

func TestMuc_MemberUpdated(t *testing.T) {
	m, room, rec := testMuc(t)
	room.MarkRosterReceived()
	room.SetOccupant(&mucmodel.Occupant{Nick: "bob", Show: "online"})

	m.ProcessPresence(context.Background(), memberPresence(t, "bob", "", textChild("show", "dnd")))

	require.Equal(t, []string{event.RoomMemberUpdated}, rec.names())

	inf := rec.events[0].Info().(*event.RoomMemberEventInfo)
	require.Equal(t, "bob", inf.Nick)
	require.Equal(t, "dnd", inf.Show)

	o, present := room.Occupant("bob")
	require.True(t, present)
	require.Equal(t, "dnd", o.Show)
}

func TestMuc_MemberOffline(t *testing.T) {
	m, room, rec := testMuc(t)
	room.MarkRosterReceived()
	room.SetOccupant(&mucmodel.Occupant{Nick: "bob", Show: "online"})

	pr := memberPresence(t, "bob", stravaganza.UnavailableType, textChild("status", "gone"))
	m.ProcessPresence(context.Background(), pr)

	require.Equal(t, []string{event.RoomMemberOffline}, rec.names())

	inf := rec.events[0].Info().(*event.RoomMemberEventInfo)
	require.Equal(t, "bob", inf.Nick)
	require.Equal(t, "offline", inf.Reason)
	require.Equal(t, "gone", inf.Status)
}

func TestMuc_MemberNickChange(t *testing.T) {
	m, room, rec := testMuc(t)
	room.MarkRosterReceived()
	room.SetOccupant(&mucmodel.Occupant{Nick: "alice", Show: "online"})

	m.ProcessPresence(context.Background(), nickChangePresence(t, "alice", "alice2"))
	m.ProcessPresence(context.Background(), memberPresence(t, "alice2", ""))

	// a rename surfaces as a single event, never an offline/online pair
	require.Equal(t, []string{event.RoomMemberNickChanged}, rec.names())

	inf := rec.events[0].Info().(*event.RoomMemberNickChangeEventInfo)
	require.Equal(t, "alice", inf.OldNick)
	require.Equal(t, "alice2", inf.NewNick)

	_, present := room.Occupant("alice")
	require.False(t, present)
	_, present = room.Occupant("alice2")
	require.True(t, present)
}

func TestMuc_SelfNickChange(t *testing.T) {
	m, room, rec := testMuc(t)
	room.MarkRosterReceived()

	m.ProcessPresence(context.Background(), nickChangePresence(t, "thirdwitch", "hag"))

	require.Equal(t, "hag", room.SelfPendingNick())
	require.Equal(t, 0, len(rec.events))

	m.ProcessPresence(context.Background(), selfPresence(t, "hag", ""))

	require.Equal(t, []string{event.RoomNickChanged}, rec.names())

	inf := rec.events[0].Info().(*event.RoomEventInfo)
	require.Equal(t, testRoomJID, inf.Room)
	require.Equal(t, "hag", inf.Nick)
	require.Equal(t, "hag", room.Nick())
	require.Equal(t, "", room.SelfPendingNick())
}

func TestMuc_MemberPresenceDuringSelfNickChange(t *testing.T) {
	m, room, rec := testMuc(t)
	room.MarkRosterReceived()

	m.ProcessPresence(context.Background(), nickChangePresence(t, "thirdwitch", "hag"))

	// a member presence arriving between the two rename stanzas is not ours
	m.ProcessPresence(context.Background(), memberPresence(t, "bob", ""))

	require.Equal(t, []string{event.RoomMemberOnline}, rec.names())
	require.Equal(t, "thirdwitch", room.Nick())
	require.Equal(t, "hag", room.SelfPendingNick())
	_, present := room.Occupant("bob")
	require.True(t, present)

	m.ProcessPresence(context.Background(), selfPresence(t, "hag", ""))

	require.Equal(t, []string{event.RoomMemberOnline, event.RoomNickChanged}, rec.names())
	require.Equal(t, "hag", room.Nick())
}

func TestMuc_RoomLeft(t *testing.T) {
	m, _, rec := testMuc(t)

	m.ProcessPresence(context.Background(), selfPresence(t, "thirdwitch", stravaganza.UnavailableType))

	require.Equal(t, []string{event.RoomLeft}, rec.names())

	inf := rec.events[0].Info().(*event.RoomEventInfo)
	require.Equal(t, testRoomJID, inf.Room)
}

func TestMuc_UnknownRoomDropped(t *testing.T) {
	m, _, rec := testMuc(t)

	pr := roomPresence(t, "cellar@muc.shakespeare.lit/bob", "")
	m.ProcessPresence(context.Background(), pr)

	require.Equal(t, 0, len(rec.events))
}

type eventRecorder struct {
	events []sonar.Event
}

func (r *eventRecorder) names() []string {
	var ret []string
	for _, ev := range r.events {
		ret = append(ret, ev.Name())
	}
	return ret
}

func testMuc(t *testing.T) (*Muc, *mucmodel.Room, *eventRecorder) {
	t.Helper()
	sn := sonar.New()

	rec := &eventRecorder{}
	record := func(_ context.Context, ev sonar.Event) error {
		rec.events = append(rec.events, ev)
		return nil
	}
	for _, name := range []string{
		event.RoomLeft,
		event.RoomNickChanged,
		event.RoomRosterComplete,
		event.RoomMemberOnline,
		event.RoomMemberOffline,
		event.RoomMemberNickChanged,
		event.RoomMemberUpdated,
	} {
		sn.Subscribe(name, record)
	}
	selfJID, _ := jid.NewWithString("alice@mirlo.im/desktop", true)
	caps := xep0115.New(&routerMock{}, memstorage.NewCapabilities(), selfJID)

	registry := mucmodel.NewRegistry()
	roomJID, _ := jid.NewWithString(testRoomJID, true)
	room := registry.JoinRoom(roomJID, "thirdwitch")

	return New(registry, caps, sn), room, rec
}

type routerMock struct{}

func (r *routerMock) Route(_ context.Context, _ stravaganza.Stanza) error { return nil }

func selfPresence(t *testing.T, nick, typ string, children ...stravaganza.Element) *stravaganza.Presence {
	return roomPresence(t, testRoomJID+"/"+nick, typ, children...)
}

func memberPresence(t *testing.T, nick, typ string, children ...stravaganza.Element) *stravaganza.Presence {
	return roomPresence(t, testRoomJID+"/"+nick, typ, children...)
}

func nickChangePresence(t *testing.T, nick, newNick string) *stravaganza.Presence {
	x := stravaganza.NewBuilder("x").
		WithAttribute(stravaganza.Namespace, xmpputil.MUCUserNamespace).
		WithChild(stravaganza.NewBuilder("item").WithAttribute("nick", newNick).Build()).
		WithChild(stravaganza.NewBuilder("status").WithAttribute("code", "303").Build()).
		Build()
	return roomPresence(t, testRoomJID+"/"+nick, stravaganza.UnavailableType, x)
}

func roomPresence(t *testing.T, from, typ string, children ...stravaganza.Element) *stravaganza.Presence {
	t.Helper()
	sb := stravaganza.NewPresenceBuilder().
		WithAttribute(stravaganza.From, from).
		WithAttribute(stravaganza.To, "alice@mirlo.im/desktop").
		WithChildren(children...)
	if len(typ) > 0 {
		sb.WithAttribute(stravaganza.Type, typ)
	}
	pr, err := sb.BuildPresence()
	require.Nil(t, err)
	return pr
}

func textChild(name, text string) stravaganza.Element {
	return stravaganza.NewBuilder(name).WithText(text).Build()
}
