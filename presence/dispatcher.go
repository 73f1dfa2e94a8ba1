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

	"github.com/jackal-xmpp/runqueue"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/mirlo-im/mirlo/log"
	"github.com/mirlo-im/mirlo/module/roster"
	"github.com/mirlo-im/mirlo/module/xep0045"
	xmpputil "github.com/mirlo-im/mirlo/util/xmpp"
)

// Dispatcher routes inbound presence stanzas to the handler owning their
// protocol role. Stanzas are processed one at a time in arrival order, which
// room nick-change correlation depends on.
type Dispatcher struct {
	roster *roster.Roster
	muc    *xep0045.Muc
	rq     *runqueue.RunQueue
}

// NewDispatcher returns a new initialized Dispatcher instance.
func NewDispatcher(roster *roster.Roster, muc *xep0045.Muc) *Dispatcher {
	return &Dispatcher{
		roster: roster,
		muc:    muc,
		rq:     runqueue.New("presence", nil),
	}
}

// ProcessPresence enqueues pr for processing.
func (d *Dispatcher) ProcessPresence(ctx context.Context, pr *stravaganza.Presence) {
	d.rq.Run(func() {
		d.processPresence(ctx, pr)
	})
}

// Shutdown drains the dispatch queue.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	d.rq.Stop(func() { close(c) })
	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processPresence performs the ordered classification: first match wins.
func (d *Dispatcher) processPresence(ctx context.Context, pr *stravaganza.Presence) {
	switch {
	case pr.Attribute(stravaganza.Type) == stravaganza.ErrorType:
		// connection error handling owns error stanzas
		log.Debugw("dropped error presence", "from", pr.Attribute(stravaganza.From))

	case xmpputil.IsMUCUserPresence(pr):
		d.muc.ProcessPresence(ctx, pr)

	case pr.Attribute(stravaganza.Type) == stravaganza.UnavailableType:
		d.roster.ProcessUnavailable(ctx, pr)

	case pr.Attribute(stravaganza.Type) == stravaganza.SubscribeType:
		d.roster.ProcessSubscribe(ctx, pr)

	case pr.Attribute(stravaganza.Type) == stravaganza.SubscribedType:
		d.roster.ProcessSubscribed(ctx, pr)

	case pr.Attribute(stravaganza.Type) == stravaganza.UnsubscribedType:
		d.roster.ProcessUnsubscribed(ctx, pr)

	default:
		d.roster.ProcessAvailable(ctx, pr)
	}
}
