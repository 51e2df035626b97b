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
	"code.vegaprotocol.io/vaults/logging"

	"github.com/spf13/cobra"
)

type splitOptions struct {
	fee         string
	builder     string
	policy      string
	protocolBps uint64
	builderBps  uint64
}

type splitResult struct {
	Policy   string `json:"policy"`
	Fee      string `json:"fee"`
	Treasury string `json:"treasury"`
	Protocol string `json:"protocol"`
	Builder  string `json:"builder,omitempty"`
	Amount   string `json:"builderAmount"`
	Residual string `json:"residual"`
}

func newSplitCmd(root *rootOptions) *cobra.Command {
	opts := &splitOptions{}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a commission between the treasury and a builder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSplit(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fee, "fee", "", "commission to split, base 10")
	f.StringVar(&opts.builder, "builder", "", "builder receiving part of the commission")
	f.StringVar(&opts.policy, "policy", "", "overrides the configured split policy")
	f.Uint64Var(&opts.protocolBps, "protocol-bps", 0, "overrides the configured protocol split")
	f.Uint64Var(&opts.builderBps, "builder-bps", 0, "overrides the configured builder split")
	_ = cmd.MarkFlagRequired("fee")
	return cmd
}

// commissionConfig applies the split flags set on the command line on top
// of the configured ones.
func commissionConfig(cmd *cobra.Command, cfg commission.Config, policy string, protocolBps, builderBps uint64) commission.Config {
	if cmd.Flags().Changed("policy") {
		cfg.Policy = policy
	}
	if cmd.Flags().Changed("protocol-bps") {
		cfg.ProtocolSplitBps = protocolBps
	}
	if cmd.Flags().Changed("builder-bps") {
		cfg.BuilderSplitBps = builderBps
	}
	return cfg
}

func runSplit(cmd *cobra.Command, root *rootOptions, opts *splitOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	fee, err := parseAmount("fee", opts.fee)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	ccfg := commissionConfig(cmd, cfg.Commission, opts.policy, opts.protocolBps, opts.builderBps)
	e, err := commission.New(log, ccfg)
	if err != nil {
		return err
	}
	d, err := e.Split(fee, opts.builder)
	if err != nil {
		return err
	}

	policy, _, _ := e.SplitConfiguration()
	res := splitResult{
		Policy:   policy.String(),
		Fee:      d.Total.String(),
		Treasury: d.Treasury,
		Protocol: d.Protocol.String(),
		Builder:  d.BuilderParty,
		Amount:   d.Builder.String(),
		Residual: d.Residual.String(),
	}
	return root.print(cmd.OutOrStdout(), res, func(w io.Writer) {
		fmt.Fprintf(w, "policy:   %s\n", res.Policy)
		fmt.Fprintf(w, "fee:      %s\n", res.Fee)
		fmt.Fprintf(w, "protocol: %s (%s)\n", res.Protocol, res.Treasury)
		if d.HasBuilder() {
			fmt.Fprintf(w, "builder:  %s (%s)\n", res.Amount, res.Builder)
		}
		fmt.Fprintf(w, "residual: %s\n", res.Residual)
	})
}
