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

package collateral

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"code.vegaprotocol.io/vaults/core/commission"
	"code.vegaprotocol.io/vaults/core/vault"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
	"code.vegaprotocol.io/vaults/metrics"
)

var (
	ErrVaultAlreadyExists = errors.New("vault already exists for asset")
	ErrVaultNotFound      = errors.New("no vault for asset")
	ErrMissingPayer       = errors.New("missing commission payer")
)

// RiskParameters provides the commission split in force and the builder
// commissions are shared with, if any.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/risk_parameters_mock.go -package mocks code.vegaprotocol.io/vaults/core/collateral RiskParameters
type RiskParameters interface {
	CommissionSplit() (protocolBps, builderBps uint64)
	BuilderRecipient() (string, bool)
}

// Vault moves shares between parties of a single asset pool.
type Vault interface {
	Asset() string
	ApplyTransfers(transfers []*vault.Transfer) error
}

// Splitter divides a commission between the treasury and a builder.
type Splitter interface {
	UpdateSplit(protocolBps, builderBps uint64) error
	Split(fee *num.Uint, builder string) (*commission.Distribution, error)
}

// Engine charges commissions on vault shares.
type Engine struct {
	log *logging.Logger

	splitter Splitter
	params   RiskParameters

	mu     sync.RWMutex
	vaults map[string]Vault
}

// New instantiates a new collateral engine.
func New(log *logging.Logger, cfg Config, splitter Splitter, params RiskParameters) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:      log,
		splitter: splitter,
		params:   params,
		vaults:   map[string]Vault{},
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
}

// AddVault registers the vault holding the shares of an asset.
func (e *Engine) AddVault(v Vault) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	asset := v.Asset()
	if _, ok := e.vaults[asset]; ok {
		return fmt.Errorf("%s: %w", asset, ErrVaultAlreadyExists)
	}
	e.vaults[asset] = v
	e.log.Info("vault enabled", logging.Asset(asset))
	return nil
}

func (e *Engine) getVault(asset string) (Vault, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vaults[asset]
	if !ok {
		return nil, fmt.Errorf("%s: %w", asset, ErrVaultNotFound)
	}
	return v, nil
}

// OnRiskParametersUpdate pulls the commission split from the risk parameters.
// A split which does not validate is rejected and the previous one stays in use.
func (e *Engine) OnRiskParametersUpdate(_ context.Context) error {
	protocolBps, builderBps := e.params.CommissionSplit()
	if err := e.splitter.UpdateSplit(protocolBps, builderBps); err != nil {
		e.log.Error("could not apply commission split from risk parameters",
			logging.Uint64("protocol-bps", protocolBps),
			logging.Uint64("builder-bps", builderBps),
			logging.Error(err),
		)
		return err
	}
	return nil
}

// ChargeCommission takes fee shares from the payer and pays them to the
// treasury and the builder, if one is set. The shares move in a single
// vault update, nothing changes on error.
func (e *Engine) ChargeCommission(ctx context.Context, asset, payer string, fee *num.Uint) (*commission.Distribution, error) {
	done := metrics.StartCommissionCharge()
	d, err := e.chargeCommission(ctx, asset, payer, fee)
	if err != nil {
		done("error")
		e.log.Debug("commission not charged",
			logging.Asset(asset),
			logging.PartyID(payer),
			logging.BigUint("fee", fee),
			logging.Error(err),
		)
		return nil, err
	}
	done("ok")
	return d, nil
}

func (e *Engine) chargeCommission(ctx context.Context, asset, payer string, fee *num.Uint) (*commission.Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(payer) == 0 {
		return nil, ErrMissingPayer
	}
	v, err := e.getVault(asset)
	if err != nil {
		return nil, err
	}

	builder, ok := e.params.BuilderRecipient()
	if !ok {
		builder = ""
	}
	d, err := e.splitter.Split(fee, builder)
	if err != nil {
		return nil, err
	}

	transfers := []*vault.Transfer{
		{From: payer, To: d.Treasury, Shares: d.Protocol},
	}
	if d.HasBuilder() {
		transfers = append(transfers, &vault.Transfer{From: payer, To: d.BuilderParty, Shares: d.Builder})
	}
	if err := v.ApplyTransfers(transfers); err != nil {
		return nil, err
	}

	metrics.CommissionDistributedAdd("protocol", d.Protocol.Float64())
	if d.HasBuilder() {
		metrics.CommissionDistributedAdd("builder", d.Builder.Float64())
	}
	e.log.Debug("commission charged",
		logging.Asset(asset),
		logging.PartyID(payer),
		logging.BigUint("protocol", d.Protocol),
		logging.BigUint("builder", d.Builder),
		logging.BigUint("residual", d.Residual),
	)
	return d, nil
}
