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
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	mucmodel "github.com/mirlo-im/mirlo/model/muc"
	presencemodel "github.com/mirlo-im/mirlo/model/presence"
	"github.com/mirlo-im/mirlo/module/roster"
	"github.com/mirlo-im/mirlo/router"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
)

// Sender formats and transmits outbound presence stanzas: account broadcast
// updates, room joins and departures, nick changes and subscription answers.
type Sender struct {
	router   router.Router
	registry *mucmodel.Registry
	roster   *roster.Roster
	selfJID  *jid.JID

	capsNode string
	capsVer  string
	priority int8
}

// NewSender returns a new initialized Sender instance.
// capsNode and capsVer describe the local client capabilities advertisement;
// an empty capsVer disables the advertisement.
func NewSender(router router.Router, registry *mucmodel.Registry, roster *roster.Roster, selfJID *jid.JID, capsNode, capsVer string) *Sender {
	return &Sender{
		router:   router,
		registry: registry,
		roster:   roster,
		selfJID:  selfJID,
		capsNode: capsNode,
		capsVer:  capsVer,
	}
}

// SetPriority sets the priority announced on subsequent presence updates.
func (s *Sender) SetPriority(priority int8) {
	s.priority = priority
}

// Update broadcasts a presence update for the local account and re-sends it
// to every joined room.
func (s *Sender) Update(ctx context.Context, kind presencemodel.Kind, status string, idleSecs int) error {
	typ := stravaganza.AvailableType
	if kind == presencemodel.Offline {
		typ = stravaganza.UnavailableType
	}
	children := s.presenceChildren(kind, status, idleSecs)

	pr := s.makePresence(s.selfJID.ToBareJID(), typ, children)
	if err := s.router.Route(ctx, pr); err != nil {
		return err
	}
	for _, room := range s.registry.Rooms() {
		roomPr := s.makePresence(room.SelfOccupantJID(), typ, children)
		if err := s.router.Route(ctx, roomPr); err != nil {
			return err
		}
	}
	return nil
}

// JoinRoom registers a new room membership and sends the join presence.
func (s *Sender) JoinRoom(ctx context.Context, roomJID *jid.JID, nick string) error {
	room := s.registry.JoinRoom(roomJID, nick)

	children := []stravaganza.Element{
		stravaganza.NewBuilder("x").
			WithAttribute(stravaganza.Namespace, xmpputil.MUCNamespace).
			Build(),
	}
	children = append(children, s.capsChild()...)

	pr := s.makePresence(room.SelfOccupantJID(), stravaganza.AvailableType, children)
	return s.router.Route(ctx, pr)
}

// LeaveRoom sends the room departure presence and drops the membership.
func (s *Sender) LeaveRoom(ctx context.Context, roomJID *jid.JID) error {
	room := s.registry.Room(roomJID.String())
	if room == nil {
		return fmt.Errorf("presence: not joined to room: %s", roomJID.String())
	}
	pr := s.makePresence(room.SelfOccupantJID(), stravaganza.UnavailableType, nil)
	if err := s.router.Route(ctx, pr); err != nil {
		return err
	}
	s.registry.LeaveRoom(roomJID.String())
	return nil
}

// ChangeRoomNick requests a new nickname in a joined room.
// The rename applies once the service confirms it through room presence.
func (s *Sender) ChangeRoomNick(ctx context.Context, roomJID *jid.JID, newNick string) error {
	room := s.registry.Room(roomJID.String())
	if room == nil {
		return fmt.Errorf("presence: not joined to room: %s", roomJID.String())
	}
	toJID, err := jid.New(roomJID.Node(), roomJID.Domain(), newNick, true)
	if err != nil {
		return err
	}
	pr := s.makePresence(toJID, stravaganza.AvailableType, nil)
	return s.router.Route(ctx, pr)
}

// Subscription sends a subscription stanza of the given type to a contact
// bare JID, resolving any pending inbound request it answers.
func (s *Sender) Subscription(ctx context.Context, bareJID *jid.JID, typ string) error {
	switch typ {
	case stravaganza.SubscribeType:
		break
	case stravaganza.SubscribedType, stravaganza.UnsubscribedType:
		s.roster.ResolveRequest(bareJID.ToBareJID().String())
	default:
		return fmt.Errorf("presence: unrecognized subscription type: %s", typ)
	}
	pr := s.makePresence(bareJID.ToBareJID(), typ, nil)
	return s.router.Route(ctx, pr)
}

func (s *Sender) makePresence(toJID *jid.JID, typ string, children []stravaganza.Element) *stravaganza.Presence {
	pr, _ := stravaganza.NewPresenceBuilder().
		WithAttribute(stravaganza.ID, uuid.New().String()).
		WithAttribute(stravaganza.From, s.selfJID.String()).
		WithAttribute(stravaganza.To, toJID.String()).
		WithAttribute(stravaganza.Type, typ).
		WithChildren(children...).
		BuildPresence()
	return pr
}

func (s *Sender) presenceChildren(kind presencemodel.Kind, status string, idleSecs int) []stravaganza.Element {
	var children []stravaganza.Element

	if kind != presencemodel.Online && kind != presencemodel.Offline {
		children = append(children, stravaganza.NewBuilder("show").
			WithText(kind.String()).
			Build(),
		)
	}
	if len(status) > 0 {
		children = append(children, stravaganza.NewBuilder("status").
			WithText(status).
			Build(),
		)
	}
	if s.priority != 0 {
		children = append(children, stravaganza.NewBuilder("priority").
			WithText(strconv.Itoa(int(s.priority))).
			Build(),
		)
	}
	if idleSecs > 0 {
		children = append(children, stravaganza.NewBuilder("query").
			WithAttribute(stravaganza.Namespace, xmpputil.LastActivityNamespace).
			WithAttribute("seconds", strconv.Itoa(idleSecs)).
			Build(),
		)
	}
	if kind != presencemodel.Offline {
		children = append(children, s.capsChild()...)
	}
	return children
}

func (s *Sender) capsChild() []stravaganza.Element {
	if len(s.capsVer) == 0 {
		return nil
	}
	return []stravaganza.Element{
		stravaganza.NewBuilder("c").
			WithAttribute(stravaganza.Namespace, xmpputil.CapabilitiesNamespace).
			WithAttribute("hash", "sha-1").
			WithAttribute("node", s.capsNode).
			WithAttribute("ver", s.capsVer).
			Build(),
	}
}
