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
	"fmt"
	"io"

	"code.vegaprotocol.io/vaults/core/commission"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	policy      string
	protocolBps uint64
	builderBps  uint64
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a commission split, the configured one by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			ccfg := commissionConfig(cmd, cfg.Commission, opts.policy, opts.protocolBps, opts.builderBps)
			policy, err := commission.PolicyFromString(ccfg.Policy)
			if err != nil {
				return err
			}
			if err := policy.Validate(ccfg.ProtocolSplitBps, ccfg.BuilderSplitBps); err != nil {
				return err
			}

			res := struct {
				Policy      string `json:"policy"`
				ProtocolBps uint64 `json:"protocolBps"`
				BuilderBps  uint64 `json:"builderBps"`
				Valid       bool   `json:"valid"`
			}{policy.String(), ccfg.ProtocolSplitBps, ccfg.BuilderSplitBps, true}
			return root.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "split %d/%d bps is valid under the %s policy\n", res.ProtocolBps, res.BuilderBps, res.Policy)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.policy, "policy", "", "split policy, exact-complement or residual-to-protocol")
	f.Uint64Var(&opts.protocolBps, "protocol-bps", 0, "protocol split in basis points")
	f.Uint64Var(&opts.builderBps, "builder-bps", 0, "builder split in basis points")
	return cmd
}
