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
	"fmt"
	"sync"

	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
	"code.vegaprotocol.io/vaults/metrics"
)

// SharePricePlaces is the precision used when reporting the share price.
const SharePricePlaces = 18

// Operation is one of the four entry points changing the pool totals.
type Operation int

const (
	// OperationDeposit takes an amount of assets and issues shares rounded down.
	OperationDeposit Operation = iota
	// OperationMint takes an amount of shares and charges assets rounded up.
	OperationMint
	// OperationWithdraw takes an amount of assets and burns shares rounded up.
	OperationWithdraw
	// OperationRedeem takes an amount of shares and pays assets rounded down.
	OperationRedeem
)

func (o Operation) String() string {
	switch o {
	case OperationDeposit:
		return "deposit"
	case OperationMint:
		return "mint"
	case OperationWithdraw:
		return "withdraw"
	case OperationRedeem:
		return "redeem"
	default:
		return "unknown"
	}
}

// State is a copy of the pool totals of a vault.
type State struct {
	DepositedAssets    *num.Uint
	UnrealizedInterest *num.Uint
	TotalSupply        *num.Uint
}

// TotalAssets returns the deposited assets plus the unrealised interest.
func (s State) TotalAssets() *num.Uint {
	return num.Sum(s.DepositedAssets, s.UnrealizedInterest)
}

// Vault keeps track of the assets and shares of a single asset pool.
// All the methods are safe for concurrent use, every mutation of the
// totals happens under the same lock.
type Vault struct {
	log   *logging.Logger
	cfg   Config
	asset string

	mu        sync.Mutex
	deposited *num.Uint
	interest  *num.Uint
	supply    *num.Uint
	maxAssets *num.Uint
	// share balances per party, the virtual shares are not owned
	balances map[string]*num.Uint
}

// New returns a vault seeded with the configured virtual shares and assets.
func New(log *logging.Logger, cfg Config, asset string) (*Vault, error) {
	return NewFromState(log, cfg, asset, State{
		DepositedAssets:    cfg.VirtualAssets.Get(),
		UnrealizedInterest: num.UintZero(),
		TotalSupply:        cfg.VirtualShares.Get(),
	}, nil)
}

// NewFromState restores a vault from totals and balances kept by the ledger.
// The balances must add up to less than the total supply, the remainder
// is treated as virtual shares.
func NewFromState(log *logging.Logger, cfg Config, asset string, st State, balances map[string]*num.Uint) (*Vault, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	if st.DepositedAssets == nil || st.TotalSupply == nil {
		return nil, fmt.Errorf("missing totals: %w", ErrInvalidVaultState)
	}
	if st.UnrealizedInterest == nil {
		st.UnrealizedInterest = num.UintZero()
	}
	if st.TotalSupply.IsZero() {
		return nil, fmt.Errorf("total supply is zero: %w", ErrInvalidVaultState)
	}
	totalAssets, overflow := num.UintZero().AddOverflow(st.DepositedAssets, st.UnrealizedInterest)
	if overflow {
		return nil, fmt.Errorf("total assets: %w", ErrOverflow)
	}
	if totalAssets.IsZero() {
		return nil, fmt.Errorf("total assets is zero: %w", ErrInvalidVaultState)
	}

	owned := num.UintZero()
	bals := make(map[string]*num.Uint, len(balances))
	for party, bal := range balances {
		if len(party) == 0 {
			return nil, fmt.Errorf("balance without owner: %w", ErrInvalidVaultState)
		}
		if bal == nil || bal.IsZero() {
			continue
		}
		if _, overflow := owned.AddOverflow(owned, bal); overflow {
			return nil, fmt.Errorf("balances: %w", ErrOverflow)
		}
		bals[party] = bal.Clone()
	}
	if owned.GTE(st.TotalSupply) {
		return nil, fmt.Errorf("balances (%s) must leave virtual shares out of the total supply (%s): %w", owned, st.TotalSupply, ErrInvalidVaultState)
	}

	v := &Vault{
		log:       log,
		cfg:       cfg,
		asset:     asset,
		deposited: st.DepositedAssets.Clone(),
		interest:  st.UnrealizedInterest.Clone(),
		supply:    st.TotalSupply.Clone(),
		maxAssets: cfg.maxAssets(),
		balances:  bals,
	}
	v.log.Info("vault created",
		logging.Asset(asset),
		logging.BigUint("total-assets", totalAssets),
		logging.BigUint("total-supply", v.supply),
	)
	v.recordTotals()
	return v, nil
}

// ReloadConf is used in order to reload the internal configuration of
// the vault. The virtual shares and assets only apply at creation.
func (v *Vault) ReloadConf(cfg Config) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialised() {
		return
	}

	v.log.Info("reloading configuration")
	if v.log.GetLevel() != cfg.Level.Get() {
		v.log.Info("updating log level",
			logging.String("old", v.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		v.log.SetLevel(cfg.Level.Get())
	}

	v.cfg = cfg
	v.maxAssets = cfg.maxAssets()
}

func (v *Vault) Asset() string {
	return v.asset
}

// State returns a copy of the pool totals.
func (v *Vault) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		DepositedAssets:    v.deposited.Clone(),
		UnrealizedInterest: v.interest.Clone(),
		TotalSupply:        v.supply.Clone(),
	}
}

// TotalAssets returns the deposited assets plus the unrealised interest.
func (v *Vault) TotalAssets() *num.Uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialised() {
		return num.UintZero()
	}
	return v.totalAssets()
}

func (v *Vault) TotalSupply() *num.Uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialised() {
		return num.UintZero()
	}
	return v.supply.Clone()
}

// SharePrice returns totalAssets / totalSupply rounded down.
func (v *Vault) SharePrice() num.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialised() {
		return num.DecimalZero()
	}
	return num.Ratio(v.totalAssets(), v.supply, SharePricePlaces)
}

// BalanceOf returns the shares owned by the party.
func (v *Vault) BalanceOf(party string) *num.Uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	if bal, ok := v.balances[party]; ok {
		return bal.Clone()
	}
	return num.UintZero()
}

// Deposit takes assets into the vault and credits the receiver with
// the shares they are worth, rounded down.
func (v *Vault) Deposit(assets *num.Uint, receiver string) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, err := v.execute(OperationDeposit, assets, receiver)
	if err != nil {
		return nil, err
	}
	return q.shares, nil
}

// Mint issues exactly shares to the receiver and returns the assets
// charged for them, rounded up.
func (v *Vault) Mint(shares *num.Uint, receiver string) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, err := v.execute(OperationMint, shares, receiver)
	if err != nil {
		return nil, err
	}
	return q.assets, nil
}

// Withdraw pays exactly assets out of the vault and returns the shares
// burnt from the owner, rounded up.
func (v *Vault) Withdraw(assets *num.Uint, owner string) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, err := v.execute(OperationWithdraw, assets, owner)
	if err != nil {
		return nil, err
	}
	return q.shares, nil
}

// Redeem burns exactly shares from the owner and returns the assets
// paid for them, rounded down.
func (v *Vault) Redeem(shares *num.Uint, owner string) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, err := v.execute(OperationRedeem, shares, owner)
	if err != nil {
		return nil, err
	}
	return q.assets, nil
}

// AccrueInterest adds interest earned by the pool to the total assets,
// raising the share price of every holder.
func (v *Vault) AccrueInterest(amount *num.Uint) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialised() {
		return ErrVaultNotInitialised
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	interest, overflow := num.UintZero().AddOverflow(v.interest, amount)
	if overflow {
		return ErrOverflow
	}
	if _, overflow := num.UintZero().AddOverflow(v.deposited, interest); overflow {
		return ErrOverflow
	}
	v.interest = interest

	v.log.Debug("interest accrued",
		logging.Asset(v.asset),
		logging.BigUint("amount", amount),
		logging.BigUint("unrealized-interest", v.interest),
	)
	v.recordTotals()
	return nil
}

// RealizeInterest moves settled interest into the deposited assets, making
// it available for withdrawal. The total assets are left unchanged.
func (v *Vault) RealizeInterest(amount *num.Uint) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialised() {
		return ErrVaultNotInitialised
	}
	if amount == nil || amount.IsZero() || amount.GT(v.interest) {
		return ErrInvalidAmount
	}
	v.interest = num.UintZero().Sub(v.interest, amount)
	v.deposited = num.UintZero().Add(v.deposited, amount)

	v.log.Debug("interest realized",
		logging.Asset(v.asset),
		logging.BigUint("amount", amount),
		logging.BigUint("deposited-assets", v.deposited),
	)
	return nil
}

func (v *Vault) initialised() bool {
	return v.supply != nil && !v.supply.IsZero()
}

func (v *Vault) totalAssets() *num.Uint {
	// cannot overflow, checked on every update of either term
	return num.Sum(v.deposited, v.interest)
}

func (v *Vault) recordTotals() {
	metrics.VaultTotalsGaugeSet(v.asset, v.totalAssets().Float64(), v.supply.Float64())
}
