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
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
	"code.vegaprotocol.io/vaults/metrics"
)

// quote is the priced form of a request, both sides are non zero.
type quote struct {
	assets *num.Uint
	shares *num.Uint
}

// ConvertToShares returns floor(assets * totalSupply / totalAssets).
func (v *Vault) ConvertToShares(assets *num.Uint) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toShares(assets, num.RoundDown)
}

// ConvertToAssets returns floor(shares * totalAssets / totalSupply).
func (v *Vault) ConvertToAssets(shares *num.Uint) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toAssets(shares, num.RoundDown)
}

// PreviewDeposit returns the shares a deposit of assets would issue.
func (v *Vault) PreviewDeposit(assets *num.Uint) (*num.Uint, error) {
	return v.ConvertToShares(assets)
}

// PreviewMint returns ceil(shares * totalAssets / totalSupply), the assets
// charged to mint shares.
func (v *Vault) PreviewMint(shares *num.Uint) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toAssets(shares, num.RoundUp)
}

// PreviewWithdraw returns ceil(assets * totalSupply / totalAssets), the shares
// burnt to withdraw assets.
func (v *Vault) PreviewWithdraw(assets *num.Uint) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toShares(assets, num.RoundUp)
}

// PreviewRedeem returns the assets redeeming shares would pay.
func (v *Vault) PreviewRedeem(shares *num.Uint) (*num.Uint, error) {
	return v.ConvertToAssets(shares)
}

// MaxDeposit returns the assets the vault still accepts before reaching
// its capacity.
func (v *Vault) MaxDeposit() *num.Uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.maxDeposit()
}

// MaxMint returns the shares whose cost does not exceed MaxDeposit.
func (v *Vault) MaxMint() (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toShares(v.maxDeposit(), num.RoundDown)
}

// MaxWithdraw returns the assets the owner can withdraw, bounded by
// the value of their shares and by the liquid deposited assets.
func (v *Vault) MaxWithdraw(owner string) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	value, err := v.toAssets(v.balanceOf(owner), num.RoundDown)
	if err != nil {
		return nil, err
	}
	return num.Min(value, v.deposited).Clone(), nil
}

// MaxRedeem returns the shares the owner can redeem, bounded by their
// balance and by the liquid deposited assets.
func (v *Vault) MaxRedeem(owner string) (*num.Uint, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	liquid, err := v.toShares(v.deposited, num.RoundDown)
	if err != nil {
		return nil, err
	}
	return num.Min(v.balanceOf(owner), liquid).Clone(), nil
}

func (v *Vault) maxDeposit() *num.Uint {
	if !v.initialised() || v.deposited.GTE(v.maxAssets) {
		return num.UintZero()
	}
	return num.UintZero().Sub(v.maxAssets, v.deposited)
}

func (v *Vault) balanceOf(party string) *num.Uint {
	if bal, ok := v.balances[party]; ok {
		return bal
	}
	return num.UintZero()
}

func (v *Vault) toShares(assets *num.Uint, r num.Rounding) (*num.Uint, error) {
	if !v.initialised() {
		return nil, ErrVaultNotInitialised
	}
	if assets == nil {
		return nil, ErrInvalidAmount
	}
	shares, overflow := num.MulDiv(assets, v.supply, v.totalAssets(), r)
	if overflow {
		return nil, ErrOverflow
	}
	return shares, nil
}

func (v *Vault) toAssets(shares *num.Uint, r num.Rounding) (*num.Uint, error) {
	if !v.initialised() {
		return nil, ErrVaultNotInitialised
	}
	if shares == nil {
		return nil, ErrInvalidAmount
	}
	assets, overflow := num.MulDiv(shares, v.totalAssets(), v.supply, r)
	if overflow {
		return nil, ErrOverflow
	}
	return assets, nil
}

// quote prices a request for any of the four operations. Every entry point
// goes through it so the same amount and zero result checks apply to all:
// rounding always favours the vault, and a request is rejected when either
// side would be zero.
func (v *Vault) quote(op Operation, amount *num.Uint) (quote, error) {
	if amount == nil || amount.IsZero() {
		return quote{}, ErrInvalidAmount
	}

	var (
		q   quote
		err error
	)
	switch op {
	case OperationDeposit:
		q.assets = amount.Clone()
		q.shares, err = v.toShares(amount, num.RoundDown)
	case OperationMint:
		q.shares = amount.Clone()
		q.assets, err = v.toAssets(amount, num.RoundUp)
	case OperationWithdraw:
		q.assets = amount.Clone()
		q.shares, err = v.toShares(amount, num.RoundUp)
	case OperationRedeem:
		q.shares = amount.Clone()
		q.assets, err = v.toAssets(amount, num.RoundDown)
	default:
		return quote{}, ErrUnknownOperation
	}
	if err != nil {
		return quote{}, err
	}
	if q.assets.IsZero() || q.shares.IsZero() {
		return quote{}, ErrZeroShareResult
	}
	return q, nil
}

// execute prices and applies a request, the state is left untouched
// unless the whole request succeeds. Must be called under lock.
func (v *Vault) execute(op Operation, amount *num.Uint, party string) (quote, error) {
	if !v.initialised() {
		return quote{}, ErrVaultNotInitialised
	}
	if len(party) == 0 {
		return quote{}, v.reject(op, amount, party, ErrMissingParty)
	}

	q, err := v.quote(op, amount)
	if err != nil {
		return quote{}, v.reject(op, amount, party, err)
	}

	switch op {
	case OperationDeposit, OperationMint:
		err = v.credit(q, party)
	default:
		err = v.debit(q, party)
	}
	if err != nil {
		return quote{}, v.reject(op, amount, party, err)
	}

	if v.log.GetLevel() == logging.DebugLevel {
		v.log.Debug("vault operation applied",
			logging.Asset(v.asset),
			logging.String("operation", op.String()),
			logging.PartyID(party),
			logging.BigUint("assets", q.assets),
			logging.BigUint("shares", q.shares),
			logging.BigUint("total-assets", v.totalAssets()),
			logging.BigUint("total-supply", v.supply),
		)
	}
	metrics.VaultOperationCounterInc(v.asset, op.String(), "ok")
	v.recordTotals()
	return q, nil
}

func (v *Vault) reject(op Operation, amount *num.Uint, party string, err error) error {
	v.log.Debug("vault operation rejected",
		logging.Asset(v.asset),
		logging.String("operation", op.String()),
		logging.PartyID(party),
		logging.BigUint("amount", amount),
		logging.Error(err),
	)
	metrics.VaultOperationCounterInc(v.asset, op.String(), "rejected")
	return err
}

func (v *Vault) credit(q quote, receiver string) error {
	deposited, overflow := num.UintZero().AddOverflow(v.deposited, q.assets)
	if overflow {
		return ErrOverflow
	}
	if deposited.GT(v.maxAssets) {
		return ErrDepositTooLarge
	}
	if _, overflow := num.UintZero().AddOverflow(deposited, v.interest); overflow {
		return ErrOverflow
	}
	supply, overflow := num.UintZero().AddOverflow(v.supply, q.shares)
	if overflow {
		return ErrOverflow
	}

	v.deposited = deposited
	v.supply = supply
	// owned shares never exceed the supply, no overflow possible
	v.balances[receiver] = num.Sum(v.balanceOf(receiver), q.shares)
	return nil
}

func (v *Vault) debit(q quote, owner string) error {
	bal := v.balanceOf(owner)
	if bal.LT(q.shares) {
		return ErrInsufficientShares
	}
	if v.deposited.LT(q.assets) {
		return ErrInsufficientLiquidity
	}

	v.deposited = num.UintZero().Sub(v.deposited, q.assets)
	v.supply = num.UintZero().Sub(v.supply, q.shares)
	if remaining := num.UintZero().Sub(bal, q.shares); remaining.IsZero() {
		delete(v.balances, owner)
	} else {
		v.balances[owner] = remaining
	}
	return nil
}
