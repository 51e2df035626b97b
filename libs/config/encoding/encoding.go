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

package encoding

import (
	"fmt"
	"time"

	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
)

// Duration is a wrapper over an actual duration so we can represent
// them as string in the toml configuration.
type Duration struct {
	time.Duration
}

// Get returns the stored duration.
func (d *Duration) Get() time.Duration {
	return d.Duration
}

// UnmarshalText unmarshal a duration from bytes.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d *Duration) UnmarshalFlag(s string) error {
	return d.UnmarshalText([]byte(s))
}

// MarshalText marshal a duration into bytes.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel is wrapper over the actual log level
// so they can be specified as strings in the toml configuration.
type LogLevel struct {
	logging.Level
}

// Get return the store value.
func (l *LogLevel) Get() logging.Level {
	return l.Level
}

// UnmarshalText unmarshal a loglevel from bytes.
func (l *LogLevel) UnmarshalText(text []byte) error {
	var err error
	l.Level, err = logging.ParseLevel(string(text))
	return err
}

func (l *LogLevel) UnmarshalFlag(s string) error {
	return l.UnmarshalText([]byte(s))
}

// MarshalText marshal a loglevel into bytes.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Uint is a 256 bits amount represented as a base 10 string
// in the toml configuration.
type Uint struct {
	U *num.Uint
}

func NewUint(u *num.Uint) Uint {
	return Uint{U: u.Clone()}
}

// Get returns a copy of the stored value, zero if unset.
func (u *Uint) Get() *num.Uint {
	if u.U == nil {
		return num.UintZero()
	}
	return u.U.Clone()
}

func (u *Uint) UnmarshalText(text []byte) error {
	v, overflow := num.UintFromString(string(text), 10)
	if overflow {
		return fmt.Errorf("invalid amount `%s', expected a base 10 unsigned integer lower than 2^256", string(text))
	}
	u.U = v
	return nil
}

func (u *Uint) UnmarshalFlag(s string) error {
	return u.UnmarshalText([]byte(s))
}

func (u Uint) MarshalText() ([]byte, error) {
	if u.U == nil {
		return []byte("0"), nil
	}
	return []byte(u.U.String()), nil
}

type Bool bool

func (b *Bool) UnmarshalFlag(s string) error {
	switch s {
	case "true":
		*b = true
	case "false":
		*b = false
	default:
		return fmt.Errorf("only `true' and `false' are valid values, not `%s'", s)
	}
	return nil
}
