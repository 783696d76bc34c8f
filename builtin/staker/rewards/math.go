// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"

	"github.com/vechain/nftstaker/builtin/reverts"
)

// Precision scales the per-unit index so that small rates survive the division by total units.
var Precision = uint256.NewInt(1e18)

// lastTimeApplicable clamps now against the end of the funding period.
func lastTimeApplicable(now, periodFinish uint64) uint64 {
	return min(now, periodFinish)
}

// accrue returns stored + elapsed*rate*Precision/total.
// The division floors; with no staked units the index does not move.
func accrue(stored *uint256.Int, elapsed uint64, rate, total *uint256.Int) (*uint256.Int, error) {
	if total.IsZero() || elapsed == 0 || rate.IsZero() {
		return stored.Clone(), nil
	}
	x := uint256.NewInt(elapsed)
	if _, overflow := x.MulOverflow(x, rate); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	if _, overflow := x.MulOverflow(x, Precision); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	x.Div(x, total)
	if _, overflow := x.AddOverflow(x, stored); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return x, nil
}

// nextRate computes the rate of a new funding period of duration starting at now.
// The reward left over from an active period rolls into the new one.
func nextRate(amount, rate *uint256.Int, now, periodFinish, duration uint64) (*uint256.Int, error) {
	total := amount.Clone()
	if now < periodFinish {
		leftover := uint256.NewInt(periodFinish - now)
		if _, overflow := leftover.MulOverflow(leftover, rate); overflow {
			return nil, reverts.ErrArithmeticOverflow
		}
		if _, overflow := total.AddOverflow(total, leftover); overflow {
			return nil, reverts.ErrArithmeticOverflow
		}
	}
	return total.Div(total, uint256.NewInt(duration)), nil
}

// Earned returns settled + units*(index-snapshot)/Precision.
func Earned(units uint64, index, snapshot, settled *uint256.Int) (*uint256.Int, error) {
	if index.Lt(snapshot) {
		// the index never decreases, a snapshot ahead of it is corrupt state
		return nil, reverts.ErrArithmeticOverflow
	}
	delta := new(uint256.Int).Sub(index, snapshot)
	if _, overflow := delta.MulOverflow(delta, uint256.NewInt(units)); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	delta.Div(delta, Precision)
	if _, overflow := delta.AddOverflow(delta, settled); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return delta, nil
}
