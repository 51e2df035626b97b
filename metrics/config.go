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

package metrics

import (
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/logging"
)

const namedLogger = "metrics"

// Config represent the configuration of the metrics package.
type Config struct {
	Level   encoding.LogLevel `long:"log-level"`
	Port    int               `long:"port" description:"port the prometheus endpoint listens on"`
	Path    string            `long:"path" description:"http path of the prometheus endpoint"`
	Enabled encoding.Bool     `long:"enabled" choice:"true" choice:"false" description:"serve the prometheus endpoint"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Port:    2112,
		Path:    "/metrics",
		Enabled: false,
	}
}
