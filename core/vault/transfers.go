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

	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"
)

// Transfer moves shares between two parties without touching the totals.
type Transfer struct {
	From   string
	To     string
	Shares *num.Uint
}

// ApplyTransfers moves shares between parties. Either all the transfers
// are applied, or none of them is.
func (v *Vault) ApplyTransfers(transfers []*Transfer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialised() {
		return ErrVaultNotInitialised
	}

	pending := map[string]*num.Uint{}
	get := func(party string) *num.Uint {
		if bal, ok := pending[party]; ok {
			return bal
		}
		bal := v.balanceOf(party).Clone()
		pending[party] = bal
		return bal
	}

	for i, t := range transfers {
		if t == nil || t.Shares == nil {
			return fmt.Errorf("transfer %d: %w", i, ErrInvalidAmount)
		}
		if len(t.From) == 0 || len(t.To) == 0 {
			return fmt.Errorf("transfer %d: %w", i, ErrMissingParty)
		}
		if t.Shares.IsZero() || t.From == t.To {
			continue
		}
		from := get(t.From)
		if from.LT(t.Shares) {
			return fmt.Errorf("transfer %d from %s: %w", i, t.From, ErrInsufficientShares)
		}
		from.Sub(from, t.Shares)
		to := get(t.To)
		to.Add(to, t.Shares)
	}

	for party, bal := range pending {
		if bal.IsZero() {
			delete(v.balances, party)
			continue
		}
		v.balances[party] = bal
	}

	if v.log.GetLevel() == logging.DebugLevel {
		for _, t := range transfers {
			v.log.Debug("shares transferred",
				logging.Asset(v.asset),
				logging.String("from", t.From),
				logging.String("to", t.To),
				logging.BigUint("shares", t.Shares),
			)
		}
	}
	return nil
}
