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

package xmpputil

import (
	"strconv"

	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
)

const (
	// MUCNamespace is the multi-user chat protocol namespace.
	MUCNamespace = "http://jabber.org/protocol/muc"

	// MUCUserNamespace is the multi-user chat user extension namespace.
	MUCUserNamespace = "http://jabber.org/protocol/muc#user"

	// CapabilitiesNamespace is the entity capabilities namespace.
	CapabilitiesNamespace = "http://jabber.org/protocol/caps"

	// DiscoInfoNamespace is the service discovery info namespace.
	DiscoInfoNamespace = "http://jabber.org/protocol/disco#info"

	// LastActivityNamespace is the last activity namespace.
	LastActivityNamespace = "jabber:iq:last"
)

const nickChangeStatusCode = "303"

// PresenceShow returns pr show value, defaulting to "online" when absent.
func PresenceShow(pr *stravaganza.Presence) string {
	if show := pr.Child("show"); show != nil && len(show.Text()) > 0 {
		return show.Text()
	}
	return "online"
}

// PresenceStatus returns pr status text, or an empty string when absent.
func PresenceStatus(pr *stravaganza.Presence) string {
	if status := pr.Child("status"); status != nil {
		return status.Text()
	}
	return ""
}

// PresencePriority returns pr announced priority.
// Absent or unparseable values map to 0.
func PresencePriority(pr *stravaganza.Presence) int8 {
	p := pr.Child("priority")
	if p == nil {
		return 0
	}
	prio, err := strconv.ParseInt(p.Text(), 10, 8)
	if err != nil {
		return 0
	}
	return int8(prio)
}

// PresenceIdleSeconds returns the announced idle time in seconds, or 0 when absent.
func PresenceIdleSeconds(pr *stravaganza.Presence) int {
	q := pr.ChildNamespace("query", LastActivityNamespace)
	if q == nil {
		return 0
	}
	secs, err := strconv.Atoi(q.Attribute("seconds"))
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// IsMUCUserPresence tells whether pr carries the multi-user chat user extension.
func IsMUCUserPresence(pr *stravaganza.Presence) bool {
	return pr.ChildNamespace("x", MUCUserNamespace) != nil
}

// IsNickChange tells whether pr announces an occupant nickname change,
// that is an unavailable presence whose user extension carries status code 303.
func IsNickChange(pr *stravaganza.Presence) bool {
	x := pr.ChildNamespace("x", MUCUserNamespace)
	if x == nil {
		return false
	}
	for _, status := range x.Children("status") {
		if status.Attribute("code") == nickChangeStatusCode {
			return true
		}
	}
	return false
}

// NewNick extracts the announced new nickname from a nick change presence.
func NewNick(pr *stravaganza.Presence) string {
	x := pr.ChildNamespace("x", MUCUserNamespace)
	if x == nil {
		return ""
	}
	if item := x.Child("item"); item != nil {
		return item.Attribute("nick")
	}
	return ""
}

// PresenceCaps returns pr capabilities advertisement attributes.
// ok is false when no advertisement is present.
func PresenceCaps(pr *stravaganza.Presence) (hash, node, ver string, ok bool) {
	c := pr.ChildNamespace("c", CapabilitiesNamespace)
	if c == nil {
		return "", "", "", false
	}
	return c.Attribute("hash"), c.Attribute("node"), c.Attribute("ver"), true
}

// MakeDiscoInfoIQ creates a disco#info get request addressed to toJID,
// targeting the given node.
func MakeDiscoInfoIQ(id string, fromJID, toJID *jid.JID, node string) *stravaganza.IQ {
	iq, _ := stravaganza.NewIQBuilder().
		WithAttribute(stravaganza.ID, id).
		WithAttribute(stravaganza.From, fromJID.String()).
		WithAttribute(stravaganza.To, toJID.String()).
		WithAttribute(stravaganza.Type, stravaganza.GetType).
		WithChild(
			stravaganza.NewBuilder("query").
				WithAttribute(stravaganza.Namespace, DiscoInfoNamespace).
				WithAttribute("node", node).
				Build(),
		).
		BuildIQ()
	return iq
}
