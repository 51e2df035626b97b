// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package commission

import "errors"

var (
	// ErrInvalidSplitConfiguration signals basis points above the scale, or
	// not adding up as required by the split policy.
	ErrInvalidSplitConfiguration = errors.New("invalid commission split configuration")
	// ErrInvalidAmount signals a missing or zero commission.
	ErrInvalidAmount   = errors.New("invalid commission amount")
	ErrUnknownPolicy   = errors.New("unknown commission split policy")
	ErrMissingTreasury = errors.New("missing treasury party")
)
