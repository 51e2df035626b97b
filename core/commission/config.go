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

import (
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/logging"
)

const (
	// namedLogger is the identifier for package and should ideally match the package name
	// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
	namedLogger = "commission"

	// NetworkParty is the default owner of the protocol share.
	NetworkParty = "network"
)

// Config represent the configuration of the commission engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Policy           string `long:"policy" choice:"exact-complement" choice:"residual-to-protocol" description:"how the rounding residual of a split is handled"`
	ProtocolSplitBps uint64 `long:"protocol-split-bps" description:"initial protocol part of a commission when a builder is set, in basis points"`
	BuilderSplitBps  uint64 `long:"builder-split-bps" description:"initial builder part of a commission, in basis points"`
	TreasuryParty    string `long:"treasury-party" description:"party receiving the protocol part of commissions"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		Policy:           PolicyExactComplement.String(),
		ProtocolSplitBps: 6_500,
		BuilderSplitBps:  3_500,
		TreasuryParty:    NetworkParty,
	}
}
