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

package presence

import (
	"context"
	"sync"
	"testing"

	"github.com/jackal-xmpp/sonar"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/mirlo-im/mirlo/event"
	mucmodel "github.com/mirlo-im/mirlo/model/muc"
	"github.com/mirlo-im/mirlo/module/roster"
	"github.com/mirlo-im/mirlo/module/xep0045"
	"github.com/mirlo-im/mirlo/module/xep0115"
	"github.com/mirlo-im/mirlo/storage/memstorage"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Precedence(t *testing.T) {
	d, rec := testDispatcher(t)

	// error stanzas short-circuit everything, the room marker included
	d.ProcessPresence(context.Background(), testStanza(t, "garden@muc.shakespeare.lit/bob", stravaganza.ErrorType, mucUserChild()))

	// the room marker overrides the unavailable subtype
	d.ProcessPresence(context.Background(), testStanza(t, "garden@muc.shakespeare.lit/bob", stravaganza.UnavailableType, mucUserChild()))

	// remaining subtypes route to their owning handler
	d.ProcessPresence(context.Background(), testStanza(t, "carol@example.com/phone", stravaganza.UnavailableType))
	d.ProcessPresence(context.Background(), testStanza(t, "dave@example.com/desktop", stravaganza.SubscribeType))
	d.ProcessPresence(context.Background(), testStanza(t, "dave@example.com/desktop", stravaganza.SubscribedType))
	d.ProcessPresence(context.Background(), testStanza(t, "dave@example.com/desktop", stravaganza.UnsubscribedType))
	d.ProcessPresence(context.Background(), testStanza(t, "carol@example.com/phone", ""))

	require.Nil(t, d.Shutdown(context.Background()))

	require.Equal(t, []string{
		event.RoomMemberOffline,
		event.ContactOffline,
		event.SubscriptionRequested,
		event.SubscriptionResolved,
		event.SubscriptionResolved,
		event.ContactOnline,
	}, rec.names())
}

func TestDispatcher_InOrderProcessing(t *testing.T) {
	d, rec := testDispatcher(t)

	// member rename is a two-stanza protocol: correlation requires arrival order
	d.ProcessPresence(context.Background(), testStanza(t, "garden@muc.shakespeare.lit/alice", stravaganza.UnavailableType,
		nickChangeChild("alice2"),
	))
	d.ProcessPresence(context.Background(), testStanza(t, "garden@muc.shakespeare.lit/alice2", "", mucUserChild()))

	require.Nil(t, d.Shutdown(context.Background()))

	require.Equal(t, []string{event.RoomMemberNickChanged}, rec.names())
}

type eventRecorder struct {
	mu     sync.Mutex
	events []sonar.Event
}

func (r *eventRecorder) record(_ context.Context, ev sonar.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []string
	for _, ev := range r.events {
		ret = append(ret, ev.Name())
	}
	return ret
}

func testDispatcher(t *testing.T) (*Dispatcher, *eventRecorder) {
	t.Helper()
	sn := sonar.New()

	rec := &eventRecorder{}
	for _, name := range []string{
		event.ContactOnline,
		event.ContactOffline,
		event.SubscriptionRequested,
		event.SubscriptionResolved,
		event.RoomLeft,
		event.RoomNickChanged,
		event.RoomRosterComplete,
		event.RoomMemberOnline,
		event.RoomMemberOffline,
		event.RoomMemberNickChanged,
		event.RoomMemberUpdated,
	} {
		sn.Subscribe(name, rec.record)
	}
	selfJID, _ := jid.NewWithString("alice@mirlo.im/desktop", true)
	caps := xep0115.New(&routerMock{}, memstorage.NewCapabilities(), selfJID)

	registry := mucmodel.NewRegistry()
	roomJID, _ := jid.NewWithString("garden@muc.shakespeare.lit", true)
	room := registry.JoinRoom(roomJID, "thirdwitch")
	room.MarkRosterReceived()
	room.SetOccupant(&mucmodel.Occupant{Nick: "alice", Show: "online"})
	room.SetOccupant(&mucmodel.Occupant{Nick: "bob", Show: "online"})

	rs := roster.New(caps, sn, selfJID)
	muc := xep0045.New(registry, caps, sn)

	return NewDispatcher(rs, muc), rec
}

func testStanza(t *testing.T, from, typ string, children ...stravaganza.Element) *stravaganza.Presence {
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

func mucUserChild() stravaganza.Element {
	return stravaganza.NewBuilder("x").
		WithAttribute(stravaganza.Namespace, xmpputil.MUCUserNamespace).
		Build()
}

func nickChangeChild(newNick string) stravaganza.Element {
	return stravaganza.NewBuilder("x").
		WithAttribute(stravaganza.Namespace, xmpputil.MUCUserNamespace).
		WithChild(stravaganza.NewBuilder("item").WithAttribute("nick", newNick).Build()).
		WithChild(stravaganza.NewBuilder("status").WithAttribute("code", "303").Build()).
		Build()
}
