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
	"fmt"
	"sync"

	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
)

// Engine splits commissions with the last valid split configuration.
type Engine struct {
	log *logging.Logger
	cfg Config

	mu          sync.RWMutex
	policy      Policy
	protocolBps uint64
	builderBps  uint64
	treasury    string
}

// New validates the configured split and returns an engine using it.
func New(log *logging.Logger, cfg Config) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	policy, err := PolicyFromString(cfg.Policy)
	if err != nil {
		return nil, err
	}
	if len(cfg.TreasuryParty) == 0 {
		return nil, ErrMissingTreasury
	}
	if err := policy.Validate(cfg.ProtocolSplitBps, cfg.BuilderSplitBps); err != nil {
		return nil, err
	}

	return &Engine{
		log:         log,
		cfg:         cfg,
		policy:      policy,
		protocolBps: cfg.ProtocolSplitBps,
		builderBps:  cfg.BuilderSplitBps,
		treasury:    cfg.TreasuryParty,
	}, nil
}

// ReloadConf is used in order to reload the internal configuration of
// the engine. The split set through UpdateSplit is kept, the configured
// bps only seed the engine in New. A policy the current split does not
// satisfy is logged and ignored.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	policy, err := PolicyFromString(cfg.Policy)
	if err == nil && len(cfg.TreasuryParty) == 0 {
		err = ErrMissingTreasury
	}
	if err == nil {
		err = policy.Validate(e.protocolBps, e.builderBps)
	}
	if err != nil {
		e.log.Error("invalid commission configuration, keeping the current one",
			logging.String("policy", cfg.Policy),
			logging.Uint64("protocol-bps", e.protocolBps),
			logging.Uint64("builder-bps", e.builderBps),
			logging.Error(err),
		)
		return
	}

	e.cfg = cfg
	e.policy = policy
	e.treasury = cfg.TreasuryParty
}

// UpdateSplit replaces the split, the current one stays in place if the
// new one is not valid for the engine policy.
func (e *Engine) UpdateSplit(protocolBps, builderBps uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.policy.Validate(protocolBps, builderBps); err != nil {
		e.log.Warn("rejected commission split update",
			logging.Uint64("protocol-bps", protocolBps),
			logging.Uint64("builder-bps", builderBps),
			logging.Error(err),
		)
		return err
	}
	if protocolBps != e.protocolBps || builderBps != e.builderBps {
		e.log.Info("commission split updated",
			logging.Uint64("protocol-bps", protocolBps),
			logging.Uint64("builder-bps", builderBps),
		)
	}
	e.protocolBps, e.builderBps = protocolBps, builderBps
	return nil
}

// SplitConfiguration returns the policy and split in use.
func (e *Engine) SplitConfiguration() (Policy, uint64, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy, e.protocolBps, e.builderBps
}

func (e *Engine) Treasury() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.treasury
}

// Split divides fee between the treasury and builder. Without a builder the
// whole fee goes to the treasury.
func (e *Engine) Split(fee *num.Uint, builder string) (*Distribution, error) {
	if fee == nil || fee.IsZero() {
		return nil, ErrInvalidAmount
	}

	e.mu.RLock()
	policy, protocolBps, builderBps, treasury := e.policy, e.protocolBps, e.builderBps, e.treasury
	e.mu.RUnlock()

	if len(builder) == 0 {
		return &Distribution{
			Total:    fee.Clone(),
			Protocol: fee.Clone(),
			Builder:  num.UintZero(),
			Residual: num.UintZero(),
			Treasury: treasury,
		}, nil
	}

	d, err := Distribute(policy, fee, protocolBps, builderBps)
	if err != nil {
		// the split is validated each time it is set
		return nil, fmt.Errorf("commission split %d/%d: %w", protocolBps, builderBps, err)
	}
	d.Treasury = treasury
	d.BuilderParty = builder

	if e.log.GetLevel() == logging.DebugLevel {
		e.log.Debug("commission split",
			logging.String("policy", policy.String()),
			logging.BigUint("fee", fee),
			logging.BigUint("protocol", d.Protocol),
			logging.BigUint("builder", d.Builder),
			logging.BigUint("residual", d.Residual),
			logging.PartyID(builder),
		)
	}
	return d, nil
}
