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
	capsmodel "github.com/mirlo-im/mirlo/model/caps"
)

// Occupant represents a room occupant presence record.
type Occupant struct {
	// Nick is the occupant room nickname, unique within the room.
	Nick string

	// Show contains the occupant show value ("online" when absent).
	Show string

	// Status contains the occupant status text, if any.
	Status string

	// CapsKey references the occupant capabilities cache entry, if any.
	CapsKey *capsmodel.Key
}
