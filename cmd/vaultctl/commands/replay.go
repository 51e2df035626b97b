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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"code.vegaprotocol.io/vaults/config"
	"code.vegaprotocol.io/vaults/core/collateral"
	"code.vegaprotocol.io/vaults/core/commission"
	"code.vegaprotocol.io/vaults/core/vault"
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
	"code.vegaprotocol.io/vaults/metrics"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// replayFile is a list of operations run against a fresh vault, e.g.
//
//	asset = "USDC"
//	builder = "builder"
//
//	[[operations]]
//	kind = "deposit"
//	party = "alice"
//	amount = "1000"
type replayFile struct {
	Asset            string            `toml:"asset"`
	Builder          string            `toml:"builder"`
	ProtocolSplitBps *uint64           `toml:"protocol_split_bps"`
	BuilderSplitBps  *uint64           `toml:"builder_split_bps"`
	Operations       []replayOperation `toml:"operations"`
}

type replayOperation struct {
	Kind   string        `toml:"kind"`
	Party  string        `toml:"party"`
	Amount encoding.Uint `toml:"amount"`
}

type replayStep struct {
	Kind   string `json:"kind"`
	Party  string `json:"party,omitempty"`
	Amount string `json:"amount"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type replayResult struct {
	Asset       string            `json:"asset"`
	Steps       []replayStep      `json:"steps"`
	TotalAssets string            `json:"totalAssets"`
	TotalSupply string            `json:"totalSupply"`
	SharePrice  string            `json:"sharePrice"`
	Balances    map[string]string `json:"balances"`
}

// fileRiskParameters serves the commission split of a replay file.
type fileRiskParameters struct {
	protocolBps, builderBps uint64
	builder                 string
}

func (p fileRiskParameters) CommissionSplit() (uint64, uint64) {
	return p.protocolBps, p.builderBps
}

func (p fileRiskParameters) BuilderRecipient() (string, bool) {
	return p.builder, len(p.builder) > 0
}

type replayOptions struct {
	file string
	hold bool
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay vault operations and commissions from a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "toml file listing the operations")
	f.BoolVar(&opts.hold, "hold", false, "keep serving metrics and reloading the configuration after the replay until interrupted")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readReplayFile(path string) (*replayFile, error) {
	rf := &replayFile{Asset: "ASSET"}
	if _, err := toml.DecodeFile(path, rf); err != nil {
		return nil, errors.Wrapf(err, "couldn't read replay file at %s", path)
	}
	return rf, nil
}

func runReplay(cmd *cobra.Command, root *rootOptions, opts *replayOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	rf, err := readReplayFile(opts.file)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	if err := metrics.Start(ctx, log, cfg.Metrics); err != nil {
		return err
	}

	splitter, err := commission.New(log, cfg.Commission)
	if err != nil {
		return err
	}
	params := fileRiskParameters{
		protocolBps: cfg.Commission.ProtocolSplitBps,
		builderBps:  cfg.Commission.BuilderSplitBps,
		builder:     rf.Builder,
	}
	if rf.ProtocolSplitBps != nil {
		params.protocolBps = *rf.ProtocolSplitBps
	}
	if rf.BuilderSplitBps != nil {
		params.builderBps = *rf.BuilderSplitBps
	}

	col := collateral.New(log, cfg.Collateral, splitter, params)
	if err := col.OnRiskParametersUpdate(ctx); err != nil {
		return err
	}
	v, err := vault.New(log, cfg.Vault, rf.Asset)
	if err != nil {
		return err
	}
	if err := col.AddVault(v); err != nil {
		return err
	}

	res := replayResult{
		Asset:    rf.Asset,
		Steps:    make([]replayStep, 0, len(rf.Operations)),
		Balances: map[string]string{},
	}
	parties := map[string]struct{}{splitter.Treasury(): {}}
	if len(rf.Builder) > 0 {
		parties[rf.Builder] = struct{}{}
	}
	for _, op := range rf.Operations {
		step := replayStep{Kind: op.Kind, Party: op.Party, Amount: op.Amount.Get().String()}
		out, err := replay(ctx, col, v, op)
		if err != nil {
			step.Error = err.Error()
		} else {
			step.Result = out
		}
		if len(op.Party) > 0 {
			parties[op.Party] = struct{}{}
		}
		res.Steps = append(res.Steps, step)
	}

	st := v.State()
	res.TotalAssets = st.TotalAssets().String()
	res.TotalSupply = st.TotalSupply.String()
	res.SharePrice = v.SharePrice().String()
	for p := range parties {
		res.Balances[p] = v.BalanceOf(p).String()
	}

	err = root.print(cmd.OutOrStdout(), res, func(w io.Writer) {
		for i, s := range res.Steps {
			if len(s.Error) > 0 {
				fmt.Fprintf(w, "%3d %-10s %-10s %s: error: %s\n", i, s.Kind, s.Party, s.Amount, s.Error)
				continue
			}
			fmt.Fprintf(w, "%3d %-10s %-10s %s: %s\n", i, s.Kind, s.Party, s.Amount, s.Result)
		}
		fmt.Fprintf(w, "total assets: %s\n", res.TotalAssets)
		fmt.Fprintf(w, "total supply: %s\n", res.TotalSupply)
		fmt.Fprintf(w, "share price:  %s\n", res.SharePrice)
		names := make([]string, 0, len(res.Balances))
		for p := range res.Balances {
			names = append(names, p)
		}
		sort.Strings(names)
		for _, p := range names {
			fmt.Fprintf(w, "balance %s: %s\n", p, res.Balances[p])
		}
	})
	if err != nil {
		return err
	}

	if opts.hold {
		if err := watchConfig(ctx, log, root.home, v, splitter, col); err != nil {
			return err
		}
		<-ctx.Done()
	}
	return nil
}

// watchConfig reloads the engines each time the configuration file of the
// home directory changes. Nothing is watched without a configuration file.
func watchConfig(ctx context.Context, log *logging.Logger, home string, v *vault.Vault, splitter *commission.Engine, col *collateral.Engine) error {
	exists, err := config.Exists(home)
	if err != nil || !exists {
		return err
	}
	w, err := config.NewWatcher(ctx, log, home)
	if err != nil {
		return err
	}
	w.OnConfigUpdate(reloadEngines(v, splitter, col))
	return nil
}

func reloadEngines(v *vault.Vault, splitter *commission.Engine, col *collateral.Engine) func(config.Config) {
	return func(c config.Config) {
		v.ReloadConf(c.Vault)
		splitter.ReloadConf(c.Commission)
		col.ReloadConf(c.Collateral)
	}
}

func replay(ctx context.Context, col *collateral.Engine, v *vault.Vault, op replayOperation) (string, error) {
	amount := op.Amount.Get()
	switch op.Kind {
	case "deposit":
		shares, err := v.Deposit(amount, op.Party)
		return sharesResult(shares), err
	case "mint":
		assets, err := v.Mint(amount, op.Party)
		return assetsResult(assets), err
	case "withdraw":
		shares, err := v.Withdraw(amount, op.Party)
		return sharesResult(shares), err
	case "redeem":
		assets, err := v.Redeem(amount, op.Party)
		return assetsResult(assets), err
	case "commission":
		d, err := col.ChargeCommission(ctx, v.Asset(), op.Party, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("protocol %s, builder %s, residual %s", d.Protocol.String(), d.Builder.String(), d.Residual.String()), nil
	case "accrue":
		return "", v.AccrueInterest(amount)
	case "realize":
		return "", v.RealizeInterest(amount)
	default:
		return "", fmt.Errorf("unknown operation %q", op.Kind)
	}
}

func sharesResult(u *num.Uint) string {
	if u == nil {
		return ""
	}
	return u.String() + " shares"
}

func assetsResult(u *num.Uint) string {
	if u == nil {
		return ""
	}
	return u.String() + " assets"
}
