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

import "errors"

var (
	// ErrInvalidAmount signals a zero or missing amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrZeroShareResult signals a request which would move value
	// on one side with nothing issued or paid on the other.
	ErrZeroShareResult = errors.New("conversion yields a zero amount")
	// ErrOverflow signals a result which does not fit in 256 bits.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrInsufficientShares signals an owner burning or sending more shares than held.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrInsufficientLiquidity signals a withdrawal above the deposited assets,
	// unrealised interest cannot be withdrawn.
	ErrInsufficientLiquidity = errors.New("insufficient liquid assets")
	// ErrDepositTooLarge signals a deposit above the configured vault capacity.
	ErrDepositTooLarge = errors.New("deposit exceeds vault capacity")
	ErrVaultNotInitialised = errors.New("vault is not initialised")
	ErrInvalidVaultState   = errors.New("invalid vault state")
	ErrMissingParty        = errors.New("missing party")
	ErrUnknownOperation    = errors.New("unknown vault operation")
)
