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

package router

import (
	"context"

	"github.com/jackal-xmpp/stravaganza/v2"
)

// Router defines the outbound stanza routing interface.
// Implementations hand stanzas to the stream transport for transmission;
// routing is fire-and-forget and no response is awaited.
type Router interface {
	// Route sends stanza over the active stream transport.
	Route(ctx context.Context, stanza stravaganza.Stanza) error
}
