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

package logging

import (
	"time"

	"code.vegaprotocol.io/vaults/libs/num"

	"go.uber.org/zap"
)

// Bool constructs a field with the given key and value.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// String constructs a field with the given key and value.
func String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and value.
func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// BigUint constructs a field with the given key and value.
func BigUint(key string, val *num.Uint) zap.Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// Decimal constructs a field with the given key and value.
func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

// Duration constructs a field with the given key and value.
func Duration(key string, val time.Duration) zap.Field {
	return zap.String(key, val.String())
}

// Error constructs a field with the given key and value.
func Error(val error) zap.Field {
	return zap.Error(val)
}

// Asset constructs a field identifying the vault asset.
func Asset(id string) zap.Field {
	return zap.String("asset", id)
}

// PartyID constructs a field identifying a party.
func PartyID(id string) zap.Field {
	return zap.String("party", id)
}
