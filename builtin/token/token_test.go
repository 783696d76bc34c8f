// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/lvldb"
	"github.com/vechain/nftstaker/state"
	"github.com/vechain/nftstaker/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	vtho  = thor.BytesToAddress([]byte("vtho"))
	other = thor.BytesToAddress([]byte("other"))
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	return stater.NewState()
}

func TestCollection(t *testing.T) {
	st := newState(t)
	c := NewCollection(solidity.NewContext(thor.BytesToAddress([]byte("nft")), st))

	id := uint256.NewInt(7)
	owner, err := c.OwnerOf(id)
	require.NoError(t, err)
	assert.True(t, owner.IsZero())

	require.NoError(t, c.Mint(alice, id))
	assert.ErrorIs(t, c.Mint(bob, id), ErrAssetExists)
	assert.ErrorIs(t, c.Mint(thor.Address{}, uint256.NewInt(8)), reverts.ErrZeroAddress)

	owner, _ = c.OwnerOf(id)
	assert.Equal(t, alice, owner)

	assert.ErrorIs(t, c.TransferAsset(bob, alice, id), reverts.ErrNotTokenOwner)
	assert.ErrorIs(t, c.TransferAsset(alice, bob, uint256.NewInt(99)), reverts.ErrNotTokenOwner)
	assert.ErrorIs(t, c.TransferAsset(alice, thor.Address{}, id), reverts.ErrZeroAddress)

	require.NoError(t, c.TransferAsset(alice, bob, id))
	owner, _ = c.OwnerOf(id)
	assert.Equal(t, bob, owner)

	n, _ := c.BalanceOf(alice)
	assert.Zero(t, n)
	n, _ = c.BalanceOf(bob)
	assert.Equal(t, uint64(1), n)

	minted, _ := c.TotalMinted()
	assert.Equal(t, uint64(1), minted.Uint64())
}

func TestLedger(t *testing.T) {
	st := newState(t)
	l := NewLedger(solidity.NewContext(thor.BytesToAddress([]byte("ledger")), st))

	require.NoError(t, l.Mint(vtho, alice, uint256.NewInt(100)))
	require.NoError(t, l.Mint(other, alice, uint256.NewInt(5)))

	assert.ErrorIs(t, l.Transfer(vtho, alice, bob, uint256.NewInt(101)), reverts.ErrInsufficientBalance)
	require.NoError(t, l.Transfer(vtho, alice, bob, uint256.NewInt(40)))

	bal, _ := l.BalanceOf(vtho, alice)
	assert.Equal(t, uint64(60), bal.Uint64())
	bal, _ = l.BalanceOf(vtho, bob)
	assert.Equal(t, uint64(40), bal.Uint64())
	bal, _ = l.BalanceOf(other, bob)
	assert.True(t, bal.IsZero(), "tokens are isolated")

	supply, _ := l.TotalSupply(vtho)
	assert.Equal(t, uint64(100), supply.Uint64())

	// draining to zero and transferring nothing are both fine
	require.NoError(t, l.Transfer(vtho, bob, alice, uint256.NewInt(40)))
	require.NoError(t, l.Transfer(vtho, bob, alice, uint256.NewInt(0)))
	bal, _ = l.BalanceOf(vtho, bob)
	assert.True(t, bal.IsZero())
}

func TestLedgerSupplyOverflow(t *testing.T) {
	st := newState(t)
	l := NewLedger(solidity.NewContext(thor.BytesToAddress([]byte("ledger")), st))

	max := new(uint256.Int).SetAllOne()
	require.NoError(t, l.Mint(vtho, alice, max))
	assert.ErrorIs(t, l.Mint(vtho, bob, uint256.NewInt(1)), reverts.ErrArithmeticOverflow)
}
