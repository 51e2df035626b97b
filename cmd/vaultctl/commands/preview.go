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

	"code.vegaprotocol.io/vaults/core/vault"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"

	"github.com/spf13/cobra"
)

type previewOptions struct {
	totalAssets string
	interest    string
	totalSupply string
	amount      string
}

type previewLine struct {
	Name   string `json:"name"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type previewResult struct {
	TotalAssets string        `json:"totalAssets"`
	TotalSupply string        `json:"totalSupply"`
	SharePrice  string        `json:"sharePrice"`
	Amount      string        `json:"amount"`
	Conversions []previewLine `json:"conversions"`
}

func newPreviewCmd(root *rootOptions) *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the conversions of an amount for given pool totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.totalAssets, "deposited-assets", "", "assets deposited in the pool")
	f.StringVar(&opts.interest, "unrealized-interest", "0", "interest accrued by the pool and not realised yet")
	f.StringVar(&opts.totalSupply, "total-supply", "", "shares outstanding, virtual shares included")
	f.StringVar(&opts.amount, "amount", "", "amount of assets or shares to convert")
	_ = cmd.MarkFlagRequired("deposited-assets")
	_ = cmd.MarkFlagRequired("total-supply")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runPreview(cmd *cobra.Command, root *rootOptions, opts *previewOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	deposited, err := parseAmount("deposited assets", opts.totalAssets)
	if err != nil {
		return err
	}
	interest, err := parseAmount("unrealized interest", opts.interest)
	if err != nil {
		return err
	}
	supply, err := parseAmount("total supply", opts.totalSupply)
	if err != nil {
		return err
	}
	amount, err := parseAmount("amount", opts.amount)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	v, err := vault.NewFromState(log, cfg.Vault, "preview", vault.State{
		DepositedAssets:    deposited,
		UnrealizedInterest: interest,
		TotalSupply:        supply,
	}, nil)
	if err != nil {
		return err
	}

	conversions := []struct {
		name string
		fn   func(*num.Uint) (*num.Uint, error)
	}{
		{"convert-to-shares", v.ConvertToShares},
		{"convert-to-assets", v.ConvertToAssets},
		{"preview-deposit", v.PreviewDeposit},
		{"preview-mint", v.PreviewMint},
		{"preview-withdraw", v.PreviewWithdraw},
		{"preview-redeem", v.PreviewRedeem},
	}

	res := previewResult{
		TotalAssets: v.TotalAssets().String(),
		TotalSupply: v.TotalSupply().String(),
		SharePrice:  v.SharePrice().String(),
		Amount:      amount.String(),
		Conversions: make([]previewLine, 0, len(conversions)),
	}
	for _, c := range conversions {
		line := previewLine{Name: c.name}
		out, err := c.fn(amount)
		if err != nil {
			line.Error = err.Error()
		} else {
			line.Result = out.String()
		}
		res.Conversions = append(res.Conversions, line)
	}

	return root.print(cmd.OutOrStdout(), res, func(w io.Writer) {
		fmt.Fprintf(w, "total assets: %s\n", res.TotalAssets)
		fmt.Fprintf(w, "total supply: %s\n", res.TotalSupply)
		fmt.Fprintf(w, "share price:  %s\n", res.SharePrice)
		for _, l := range res.Conversions {
			if len(l.Error) > 0 {
				fmt.Fprintf(w, "%-18s error: %s\n", l.Name, l.Error)
				continue
			}
			fmt.Fprintf(w, "%-18s %s\n", l.Name, l.Result)
		}
	})
}
