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
	"errors"
	"fmt"
	"path/filepath"

	"code.vegaprotocol.io/vaults/config"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var ErrConfigExists = errors.New("configuration already exists, use --force to overwrite it")

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration in the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exists, err := config.Exists(root.home)
			if err != nil {
				return err
			}
			if exists && !force {
				return ErrConfigExists
			}
			cfg := config.NewDefaultConfig()
			if err := config.Write(root.home, &cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", filepath.Join(root.home, config.FileName))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration")

	var overrides []string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.readConfig()
			if err != nil {
				return err
			}
			args := make([]string, 0, len(overrides))
			for _, o := range overrides {
				args = append(args, "--"+o)
			}
			rest, err := config.ApplyFlags(cfg, args)
			if err != nil {
				return err
			}
			if len(rest) > 0 {
				return fmt.Errorf("unknown configuration overrides: %v", rest)
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
	showCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a configuration entry, e.g. commission.builder-split-bps=2500")

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
