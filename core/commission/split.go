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
	"strings"

	"code.vegaprotocol.io/vaults/libs/num"
)

// BasisPointsScale is the denominator of every split, 10_000 bps is 100%.
const BasisPointsScale uint64 = 10_000

var bpsScale = num.NewUint(BasisPointsScale)

// Policy defines what happens to the remainder of a split.
type Policy int

const (
	// PolicyExactComplement requires the protocol and builder bps to add up
	// to the scale, the builder receives whatever the protocol does not.
	PolicyExactComplement Policy = iota
	// PolicyResidualToProtocol floors both parts independently and sends
	// the rounding residual to the treasury. The bps may add up to less
	// than the scale.
	PolicyResidualToProtocol
)

func (p Policy) String() string {
	switch p {
	case PolicyExactComplement:
		return "exact-complement"
	case PolicyResidualToProtocol:
		return "residual-to-protocol"
	default:
		return "unknown"
	}
}

// PolicyFromString parses the configuration form of a policy.
func PolicyFromString(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact-complement":
		return PolicyExactComplement, nil
	case "residual-to-protocol":
		return PolicyResidualToProtocol, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Validate checks a split configuration against the policy.
func (p Policy) Validate(protocolBps, builderBps uint64) error {
	switch p {
	case PolicyExactComplement:
		return ValidateSplitConfiguration(protocolBps, builderBps)
	case PolicyResidualToProtocol:
		if protocolBps > BasisPointsScale || builderBps > BasisPointsScale ||
			protocolBps+builderBps > BasisPointsScale {
			return fmt.Errorf("%w: protocol %d bps and builder %d bps exceed %d",
				ErrInvalidSplitConfiguration, protocolBps, builderBps, BasisPointsScale)
		}
		return nil
	default:
		return ErrUnknownPolicy
	}
}

// ValidateSplitConfiguration checks both parts are in range and that together
// they cover the whole commission.
func ValidateSplitConfiguration(protocolBps, builderBps uint64) error {
	if protocolBps > BasisPointsScale || builderBps > BasisPointsScale {
		return fmt.Errorf("%w: protocol %d bps and builder %d bps must each be at most %d",
			ErrInvalidSplitConfiguration, protocolBps, builderBps, BasisPointsScale)
	}
	if protocolBps+builderBps != BasisPointsScale {
		return fmt.Errorf("%w: protocol %d bps and builder %d bps must add up to %d",
			ErrInvalidSplitConfiguration, protocolBps, builderBps, BasisPointsScale)
	}
	return nil
}

// SplitCommission floors each part of total independently and returns what
// neither part received as the residual, so
// protocol + builder + residual == total.
func SplitCommission(total *num.Uint, protocolBps, builderBps uint64) (protocol, builder, residual *num.Uint, err error) {
	if total == nil {
		return nil, nil, nil, ErrInvalidAmount
	}
	if err := PolicyResidualToProtocol.Validate(protocolBps, builderBps); err != nil {
		return nil, nil, nil, err
	}

	protocol = part(total, protocolBps)
	builder = part(total, builderBps)
	// both parts are floors of total * bps / scale with bps summing to at
	// most the scale, the subtraction cannot underflow
	residual = num.UintZero().Sub(total, num.Sum(protocol, builder))
	return protocol, builder, residual, nil
}

// part returns floor(total * bps / scale).
func part(total *num.Uint, bps uint64) *num.Uint {
	// bps is at most the scale so the result is at most total, no overflow
	p, _ := num.MulDivFloor(total, num.NewUint(bps), bpsScale)
	return p
}

// Distribution is the outcome of splitting a commission.
type Distribution struct {
	Total *num.Uint
	// Protocol is everything going to the treasury, Residual included.
	Protocol *num.Uint
	Builder  *num.Uint
	// Residual is the rounding dust routed to the treasury, always zero
	// under the exact complement policy.
	Residual *num.Uint

	Treasury     string
	BuilderParty string
}

// HasBuilder tells whether part of the commission goes to a builder.
func (d *Distribution) HasBuilder() bool {
	return len(d.BuilderParty) > 0
}

// Distribute splits total between protocol and builder according to policy.
func Distribute(policy Policy, total *num.Uint, protocolBps, builderBps uint64) (*Distribution, error) {
	if total == nil {
		return nil, ErrInvalidAmount
	}
	if err := policy.Validate(protocolBps, builderBps); err != nil {
		return nil, err
	}

	d := &Distribution{Total: total.Clone()}
	switch policy {
	case PolicyExactComplement:
		d.Protocol = part(total, protocolBps)
		d.Builder = num.UintZero().Sub(total, d.Protocol)
		d.Residual = num.UintZero()
	case PolicyResidualToProtocol:
		protocol, builder, residual, err := SplitCommission(total, protocolBps, builderBps)
		if err != nil {
			return nil, err
		}
		d.Protocol = num.Sum(protocol, residual)
		d.Builder = builder
		d.Residual = residual
	}
	return d, nil
}
