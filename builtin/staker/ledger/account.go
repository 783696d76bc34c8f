// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
)

// Account is the per account bookkeeping of staked units and reward.
// Settled is exact as of Snapshot; reward since then is derived from the index.
type Account struct {
	Staked   uint64
	Snapshot *uint256.Int
	Settled  *uint256.Int
}

func (a *Account) normalize() *Account {
	if a.Snapshot == nil {
		a.Snapshot = new(uint256.Int)
	}
	if a.Settled == nil {
		a.Settled = new(uint256.Int)
	}
	return a
}

// IsEmpty returns whether the account holds nothing.
func (a *Account) IsEmpty() bool {
	return a.Staked == 0 && (a.Settled == nil || a.Settled.IsZero())
}
