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

package vault

import (
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
)

const (
	// namedLogger is the identifier for package and should ideally match the package name
	// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
	namedLogger = "vault"

	// DefaultVirtualShares are the shares outstanding in a freshly created vault.
	DefaultVirtualShares uint64 = 1_000_000
	// DefaultVirtualAssets are the assets held by a freshly created vault.
	DefaultVirtualAssets uint64 = 1
	// DefaultMaxAssetsBits caps deposited assets to 2^104 - 1.
	DefaultMaxAssetsBits = 104
)

// Config represent the configuration of the vault engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	VirtualShares encoding.Uint `long:"virtual-shares" description:"shares outstanding, owned by nobody, when a vault is created"`
	VirtualAssets encoding.Uint `long:"virtual-assets" description:"assets held, owned by nobody, when a vault is created"`
	MaxAssets     encoding.Uint `long:"max-assets" description:"maximum amount of deposited assets a vault accepts"`
}

// NewDefaultConfig creates an instance of the package specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Level:         encoding.LogLevel{Level: logging.InfoLevel},
		VirtualShares: encoding.NewUint(num.NewUint(DefaultVirtualShares)),
		VirtualAssets: encoding.NewUint(num.NewUint(DefaultVirtualAssets)),
		MaxAssets:     encoding.NewUint(num.Pow2Minus1(DefaultMaxAssetsBits)),
	}
}

// maxAssets returns the configured capacity, the default one when unset.
func (c Config) maxAssets() *num.Uint {
	if c.MaxAssets.U == nil {
		return num.Pow2Minus1(DefaultMaxAssetsBits)
	}
	return c.MaxAssets.Get()
}
