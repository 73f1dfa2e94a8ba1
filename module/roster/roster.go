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

package roster

import (
	"context"
	"sync"
	"time"

	"github.com/jackal-xmpp/sonar"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/mirlo-im/mirlo/event"
	"github.com/mirlo-im/mirlo/log"
	presencemodel "github.com/mirlo-im/mirlo/model/presence"
	"github.com/mirlo-im/mirlo/module/xep0115"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
)

// Roster represents the direct presence and subscription tracking module.
// It converts one-to-one presence stanzas into contact state transitions and
// keeps the set of inbound subscription requests awaiting a user decision.
type Roster struct {
	caps    *xep0115.EntityCaps
	sn      *sonar.Sonar
	selfJID *jid.JID

	mu      sync.Mutex
	pending map[string]struct{}
}

// New returns a new initialized Roster instance.
func New(caps *xep0115.EntityCaps, sn *sonar.Sonar, selfJID *jid.JID) *Roster {
	return &Roster{
		caps:    caps,
		sn:      sn,
		selfJID: selfJID,
		pending: make(map[string]struct{}),
	}
}

// ProcessAvailable processes an available presence stanza, deriving a fresh
// contact resource and announcing it as online.
// Non-available subtypes and room presences are ignored here, as they are
// owned by more specific handlers.
func (r *Roster) ProcessAvailable(ctx context.Context, pr *stravaganza.Presence) {
	switch pr.Attribute(stravaganza.Type) {
	case stravaganza.AvailableType:
		break
	default:
		return
	}
	if xmpputil.IsMUCUserPresence(pr) {
		return
	}
	fromJID := pr.FromJID()
	if r.isSelfPresence(fromJID) {
		return
	}
	var lastActivity *time.Time
	if idleSecs := xmpputil.PresenceIdleSeconds(pr); idleSecs > 0 {
		la := time.Now().Add(-time.Duration(idleSecs) * time.Second)
		lastActivity = &la
	}
	res := presencemodel.New(
		fromJID.Resource(),
		presencemodel.KindFromString(xmpputil.PresenceShow(pr)),
		xmpputil.PresenceStatus(pr),
		xmpputil.PresencePriority(pr),
		r.caps.ResolveKey(ctx, pr),
	)
	res.LastActivity = lastActivity

	err := r.postEvent(ctx, event.ContactOnline, &event.ContactOnlineEventInfo{
		JID:          fromJID.ToBareJID().String(),
		Resource:     res,
		LastActivity: lastActivity,
	})
	if err != nil {
		log.Warnw("failed to post contact online event", "jid", fromJID.String(), "err", err)
	}
}

// ProcessUnavailable processes an unavailable presence stanza, announcing
// the sender resource as offline.
func (r *Roster) ProcessUnavailable(ctx context.Context, pr *stravaganza.Presence) {
	fromJID := pr.FromJID()
	if r.isSelfPresence(fromJID) {
		return
	}
	err := r.postEvent(ctx, event.ContactOffline, &event.ContactOfflineEventInfo{
		JID:      fromJID.ToBareJID().String(),
		Resource: fromJID.Resource(),
		Status:   xmpputil.PresenceStatus(pr),
	})
	if err != nil {
		log.Warnw("failed to post contact offline event", "jid", fromJID.String(), "err", err)
	}
}

// ProcessSubscribe records an inbound subscription request and announces it.
// Recording is idempotent: a duplicate request replaces the stored entry.
func (r *Roster) ProcessSubscribe(ctx context.Context, pr *stravaganza.Presence) {
	bareJID := pr.FromJID().ToBareJID().String()

	r.mu.Lock()
	r.pending[bareJID] = struct{}{}
	r.mu.Unlock()

	err := r.postEvent(ctx, event.SubscriptionRequested, &event.SubscriptionEventInfo{
		JID:  bareJID,
		Type: stravaganza.SubscribeType,
	})
	if err != nil {
		log.Warnw("failed to post subscription request event", "jid", bareJID, "err", err)
	}
}

// ProcessSubscribed clears any pending request from the sender and announces
// the subscription as resolved.
func (r *Roster) ProcessSubscribed(ctx context.Context, pr *stravaganza.Presence) {
	r.resolveSubscription(ctx, pr, stravaganza.SubscribedType)
}

// ProcessUnsubscribed clears any pending request from the sender and
// announces the subscription as resolved.
func (r *Roster) ProcessUnsubscribed(ctx context.Context, pr *stravaganza.Presence) {
	r.resolveSubscription(ctx, pr, stravaganza.UnsubscribedType)
}

// PendingRequests returns a snapshot of the bare JIDs with a subscription
// request awaiting a decision. Ordering is unspecified.
func (r *Roster) PendingRequests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]string, 0, len(r.pending))
	for j := range r.pending {
		ret = append(ret, j)
	}
	return ret
}

// ResolveRequest removes bareJID from the pending set.
// Used when the request is decided through an outbound subscription stanza.
func (r *Roster) ResolveRequest(bareJID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, bareJID)
}

// Reset discards all pending subscription requests.
func (r *Roster) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = make(map[string]struct{})
}

func (r *Roster) resolveSubscription(ctx context.Context, pr *stravaganza.Presence, typ string) {
	bareJID := pr.FromJID().ToBareJID().String()

	r.ResolveRequest(bareJID)

	err := r.postEvent(ctx, event.SubscriptionResolved, &event.SubscriptionEventInfo{
		JID:  bareJID,
		Type: typ,
	})
	if err != nil {
		log.Warnw("failed to post subscription resolved event", "jid", bareJID, "err", err)
	}
}

func (r *Roster) isSelfPresence(fromJID *jid.JID) bool {
	return fromJID.ToBareJID().String() == r.selfJID.ToBareJID().String()
}

func (r *Roster) postEvent(ctx context.Context, eventName string, inf interface{}) error {
	return r.sn.Post(ctx, sonar.NewEventBuilder(eventName).
		WithInfo(inf).
		WithSender(r).
		Build(),
	)
}
