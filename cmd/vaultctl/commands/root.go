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

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"code.vegaprotocol.io/vaults/config"
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"

	"github.com/spf13/cobra"
)

const (
	outputHuman = "human"
	outputJSON  = "json"
)

type rootOptions struct {
	home     string
	output   string
	logLevel string
}

// NewRootCmd represents the base command when called without any subcommands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "vaultctl",
		Short:         "Inspect vault conversions and commission splits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.output != outputHuman && opts.output != outputJSON {
				return fmt.Errorf("unsupported output %q, expected %s or %s", opts.output, outputHuman, outputJSON)
			}
			if _, err := logging.ParseLevel(opts.logLevel); err != nil {
				return err
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.home, "home", defaultHome(), "directory holding "+config.FileName)
	f.StringVarP(&opts.output, "output", "o", outputHuman, "output format, human or json")
	f.StringVar(&opts.logLevel, "log-level", "warning", "log level of every component")

	cmd.AddCommand(
		newSplitCmd(opts),
		newValidateCmd(opts),
		newPreviewCmd(opts),
		newReplayCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute is the main function of `commands` package.
// Usually called by the `main.main()`.
func Execute() error {
	return NewRootCmd().Execute()
}

func defaultHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "vaults"
	}
	return filepath.Join(dir, "vaults")
}

// readConfig reads the configuration from the home directory if present,
// the defaults are used otherwise.
func (o *rootOptions) readConfig() (*config.Config, error) {
	exists, err := config.Exists(o.home)
	if err != nil {
		return nil, err
	}
	if !exists {
		cfg := config.NewDefaultConfig()
		return &cfg, nil
	}
	return config.Read(o.home)
}

// loadConfig returns the configuration with the log level of every
// component set from the command line.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := o.readConfig()
	if err != nil {
		return nil, err
	}

	lvl, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	cfg.Logging.Level = &lvl
	cfg.Vault.Level = encoding.LogLevel{Level: lvl}
	cfg.Commission.Level = encoding.LogLevel{Level: lvl}
	cfg.Collateral.Level = encoding.LogLevel{Level: lvl}
	cfg.Metrics.Level = encoding.LogLevel{Level: lvl}
	return cfg, nil
}

func (o *rootOptions) print(w io.Writer, v interface{}, human func(io.Writer)) error {
	if o.output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(w)
	return nil
}

func parseAmount(name, s string) (*num.Uint, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("missing %s", name)
	}
	u, overflow := num.UintFromString(s, 10)
	if overflow {
		return nil, fmt.Errorf("invalid %s %q, expected a base 10 unsigned integer lower than 2^256", name, s)
	}
	return u, nil
}
