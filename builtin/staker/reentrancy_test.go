// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/thor"
)

// hookedCustody calls back into the staker while moving an asset.
type hookedCustody struct {
	AssetCustody
	hook     func() error
	swallow  bool
	reentry  error
	failNext bool
}

func (c *hookedCustody) TransferAsset(from, to thor.Address, id *uint256.Int) error {
	if c.failNext {
		return errors.New("custody unavailable")
	}
	if c.hook != nil {
		c.reentry = c.hook()
		if c.reentry != nil && !c.swallow {
			return c.reentry
		}
	}
	return c.AssetCustody.TransferAsset(from, to, id)
}

func TestReentrantCallIsRejected(t *testing.T) {
	f := newFixture(t)
	custody := &hookedCustody{AssetCustody: f.nft}
	f.staker.assets = custody

	custody.hook = func() error {
		return f.staker.Stake(alice, ids(2), t0)
	}
	err := f.staker.Stake(alice, ids(1), t0)
	assert.ErrorIs(t, err, reverts.ErrReentrantCall)

	n, err := f.staker.BalanceOf(alice)
	require.NoError(t, err)
	assert.Zero(t, n)

	// the outer call completes when the custody ignores the failed nested call
	custody.swallow = true
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
	assert.ErrorIs(t, custody.reentry, reverts.ErrReentrantCall)

	// the guard is lowered again afterwards
	custody.hook = nil
	require.NoError(t, f.staker.Stake(alice, ids(2), t0))
	n, err = f.staker.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestCustodyFailureReverts(t *testing.T) {
	f := newFixture(t)
	custody := &hookedCustody{AssetCustody: f.nft}
	f.staker.assets = custody

	require.NoError(t, f.staker.SetStakingFee(owner, ether(5)))
	custody.failNext = true
	err := f.staker.Stake(alice, ids(1), t0)
	assert.EqualError(t, err, "custody unavailable")
	assert.False(t, reverts.IsRevertErr(err))

	// fee is refunded along with everything else
	assert.Equal(t, ether(100), f.balance(t, alice))
	staker, err := f.staker.StakerOf(uint256.NewInt(1))
	require.NoError(t, err)
	assert.True(t, staker.IsZero())

	custody.failNext = false
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
}
