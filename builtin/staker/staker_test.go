// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/builtin/token"
	"github.com/vechain/nftstaker/lvldb"
	"github.com/vechain/nftstaker/state"
	"github.com/vechain/nftstaker/thor"
)

const (
	t0   = uint64(1_700_000_000)
	day  = uint64(86400)
	week = 7 * day
)

var (
	owner      = thor.BytesToAddress([]byte("owner"))
	alice      = thor.BytesToAddress([]byte("alice"))
	bob        = thor.BytesToAddress([]byte("bob"))
	stakerAddr = thor.BytesToAddress([]byte("staker"))
	nftAddr    = thor.BytesToAddress([]byte("nft"))
	ledgerAddr = thor.BytesToAddress([]byte("ledger"))
	rewardAddr = thor.BytesToAddress([]byte("reward"))
	otherAddr  = thor.BytesToAddress([]byte("other"))
)

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e18))
}

func ids(n ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, 0, len(n))
	for _, v := range n {
		out = append(out, uint256.NewInt(v))
	}
	return out
}

// within asserts that got is at most tolerance below want and never above it.
func within(t *testing.T, want, got *uint256.Int, tolerance uint64) {
	t.Helper()
	require.False(t, got.Gt(want), "got %v above %v", got, want)
	diff := new(uint256.Int).Sub(want, got)
	assert.False(t, diff.Gt(uint256.NewInt(tolerance)), "diff %v", diff)
}

type fixture struct {
	st     *state.State
	staker *Staker
	nft    *token.Collection
	tokens *token.Ledger
}

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	return stater.NewState()
}

// newFixture mints ids 1-10 to alice and 11-20 to bob, and reward tokens to everyone.
func newFixture(t *testing.T) *fixture {
	st := newState(t)
	f := &fixture{
		st:     st,
		nft:    token.NewCollection(solidity.NewContext(nftAddr, st)),
		tokens: token.NewLedger(solidity.NewContext(ledgerAddr, st)),
	}
	for i := uint64(1); i <= 20; i++ {
		holder := alice
		if i > 10 {
			holder = bob
		}
		require.NoError(t, f.nft.Mint(holder, uint256.NewInt(i)))
	}
	require.NoError(t, f.tokens.Mint(rewardAddr, owner, ether(10_000)))
	require.NoError(t, f.tokens.Mint(rewardAddr, alice, ether(100)))
	require.NoError(t, f.tokens.Mint(rewardAddr, bob, ether(100)))
	require.NoError(t, f.tokens.Mint(otherAddr, stakerAddr, ether(3)))

	f.staker = New(stakerAddr, st, f.nft, f.tokens)
	require.NoError(t, f.staker.Initialize(Config{
		Owner:           owner,
		StakingAsset:    nftAddr,
		RewardToken:     rewardAddr,
		RewardsDuration: week,
	}))
	return f
}

func (f *fixture) balance(t *testing.T, holder thor.Address) *uint256.Int {
	bal, err := f.tokens.BalanceOf(rewardAddr, holder)
	require.NoError(t, err)
	return bal
}

func (f *fixture) earned(t *testing.T, addr thor.Address, now uint64) *uint256.Int {
	e, err := f.staker.Earned(addr, now)
	require.NoError(t, err)
	return e
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)

	o, err := f.staker.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, o)
	isOwner, err := f.staker.IsOwner(owner)
	require.NoError(t, err)
	assert.True(t, isOwner)
	isOwner, err = f.staker.IsOwner(alice)
	require.NoError(t, err)
	assert.False(t, isOwner)

	sched, err := f.staker.Schedule()
	require.NoError(t, err)
	assert.Equal(t, week, sched.Duration)

	err = f.staker.Initialize(Config{Owner: alice, StakingAsset: nftAddr, RewardToken: rewardAddr, RewardsDuration: week})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	fresh := New(stakerAddr, newState(t), f.nft, f.tokens)
	err = fresh.Initialize(Config{Owner: owner, StakingAsset: nftAddr, RewardToken: rewardAddr})
	assert.ErrorIs(t, err, reverts.ErrZeroDuration)
	err = fresh.Initialize(Config{Owner: owner, RewardToken: rewardAddr, RewardsDuration: week})
	assert.ErrorIs(t, err, reverts.ErrZeroAddress)
}

func TestSingleStakerEarnsFullRate(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))

	within(t, ether(100), f.earned(t, alice, t0+day), day)

	reward, err := f.staker.Claim(alice, t0+day)
	require.NoError(t, err)
	within(t, ether(100), reward, day)
	assert.Equal(t, new(uint256.Int).Add(ether(100), reward), f.balance(t, alice))

	// nothing left right after claiming
	assert.True(t, f.earned(t, alice, t0+day).IsZero())
	_, err = f.staker.Claim(alice, t0+day)
	assert.ErrorIs(t, err, reverts.ErrNotHaveReward)
}

func TestRewardSplitsByUnits(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
	require.NoError(t, f.staker.Stake(bob, ids(11), t0+day))

	within(t, ether(150), f.earned(t, alice, t0+2*day), 2*day)
	within(t, ether(50), f.earned(t, bob, t0+2*day), 2*day)
}

func TestProportionalToUnits(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1, 2, 3), t0))
	require.NoError(t, f.staker.Stake(bob, ids(11), t0))

	within(t, ether(75), f.earned(t, alice, t0+day), day)
	within(t, ether(25), f.earned(t, bob, t0+day), day)
}

func TestAccrualStopsAtPeriodFinish(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))

	atEnd := f.earned(t, alice, t0+week)
	assert.Equal(t, atEnd, f.earned(t, alice, t0+2*week))
	within(t, ether(700), atEnd, week)

	applicable, err := f.staker.LastTimeRewardApplicable(t0 + 2*week)
	require.NoError(t, err)
	assert.Equal(t, t0+week, applicable)
}

func TestFundRollsLeftoverOver(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
	// half way through, top up with the same amount
	require.NoError(t, f.staker.Fund(owner, ether(700), t0+week/2))

	forDuration, err := f.staker.RewardForDuration()
	require.NoError(t, err)
	within(t, ether(1050), forDuration, 2*week)

	total := f.earned(t, alice, t0+week/2+week)
	within(t, ether(1400), total, 2*week)
}

func TestStakingFeeChargedOncePerCall(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.SetStakingFee(owner, ether(5)))
	require.NoError(t, f.staker.Stake(alice, ids(1, 2, 3), t0))

	assert.Equal(t, ether(95), f.balance(t, alice))
	assert.Equal(t, ether(10_005), f.balance(t, owner))

	n, err := f.staker.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestStakingFeeInsufficientBalance(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.SetStakingFee(owner, ether(500)))
	err := f.staker.Stake(alice, ids(1), t0)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	holder, err := f.nft.OwnerOf(uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, alice, holder)
}

func TestStakeValidation(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.staker.Stake(alice, nil, t0), reverts.ErrEmptyAssetList)
	assert.ErrorIs(t, f.staker.Stake(alice, ids(1, 1), t0), reverts.ErrOwnershipConflict)
	assert.ErrorIs(t, f.staker.Stake(alice, ids(11), t0), reverts.ErrNotTokenOwner)
	assert.ErrorIs(t, f.staker.Stake(thor.Address{}, ids(1), t0), reverts.ErrZeroAddress)

	assert.ErrorIs(t, f.staker.Stake(alice, []*uint256.Int{uint256.NewInt(1), nil}, t0), reverts.ErrInvalidAssetID)

	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
	assert.ErrorIs(t, f.staker.Stake(alice, ids(1), t0), reverts.ErrOwnershipConflict)
}

func TestStakeAssetStakedByAnother(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Stake(alice, ids(1), t0))

	assert.ErrorIs(t, f.staker.Stake(bob, ids(1), t0), reverts.ErrOwnershipConflict)
	// the whole call reverts, 11 stays with bob
	assert.ErrorIs(t, f.staker.Stake(bob, ids(11, 1), t0), reverts.ErrOwnershipConflict)
	// held by alice but never staked
	assert.ErrorIs(t, f.staker.Stake(bob, ids(2), t0), reverts.ErrNotTokenOwner)

	holder, err := f.nft.OwnerOf(uint256.NewInt(11))
	require.NoError(t, err)
	assert.Equal(t, bob, holder)
	staker, err := f.staker.StakerOf(uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, alice, staker)
	units, err := f.staker.BalanceOf(bob)
	require.NoError(t, err)
	assert.Zero(t, units)
}

func TestStakeMovesCustody(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Stake(alice, ids(1, 2), t0))

	for _, id := range ids(1, 2) {
		holder, err := f.nft.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, stakerAddr, holder)

		staker, err := f.staker.StakerOf(id)
		require.NoError(t, err)
		assert.Equal(t, alice, staker)
	}
	total, err := f.staker.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total.Uint64())

	require.NoError(t, f.staker.Unstake(alice, ids(2), t0+day))
	holder, err := f.nft.OwnerOf(uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, alice, holder)
	staker, err := f.staker.StakerOf(uint256.NewInt(2))
	require.NoError(t, err)
	assert.True(t, staker.IsZero())
}

func TestStakeRevertsAsAWhole(t *testing.T) {
	f := newFixture(t)

	// 11 belongs to bob, after 1 and 2 were already moved
	err := f.staker.Stake(alice, ids(1, 2, 11), t0)
	assert.ErrorIs(t, err, reverts.ErrNotTokenOwner)

	for _, id := range ids(1, 2) {
		holder, err := f.nft.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, alice, holder)
		staker, err := f.staker.StakerOf(id)
		require.NoError(t, err)
		assert.True(t, staker.IsZero())
	}
	n, err := f.staker.BalanceOf(alice)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.staker.Events())
}

func TestUnstakeValidation(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Stake(alice, ids(1, 2), t0))
	require.NoError(t, f.staker.Stake(bob, ids(11), t0))

	assert.ErrorIs(t, f.staker.Unstake(alice, nil, t0), reverts.ErrEmptyAssetList)
	assert.ErrorIs(t, f.staker.Unstake(alice, ids(11), t0), reverts.ErrNotTokenOwner)
	assert.ErrorIs(t, f.staker.Unstake(alice, ids(3), t0), reverts.ErrNotTokenOwner)
	assert.ErrorIs(t, f.staker.Unstake(alice, ids(1, 1), t0), reverts.ErrNotTokenOwner)
	assert.ErrorIs(t, f.staker.Unstake(alice, []*uint256.Int{nil}, t0), reverts.ErrInvalidAssetID)

	n, err := f.staker.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestExit(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1, 2), t0))

	reward, err := f.staker.Exit(alice, ids(1, 2), t0+day)
	require.NoError(t, err)
	within(t, ether(100), reward, day)

	n, err := f.staker.BalanceOf(alice)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, f.earned(t, alice, t0+2*day).IsZero())
}

func TestExitWithoutRewardKeepsStake(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
	_, err := f.staker.Exit(alice, ids(1), t0+day)
	assert.ErrorIs(t, err, reverts.ErrNotHaveReward)

	staker, err := f.staker.StakerOf(uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, alice, staker)
}

func TestPause(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Stake(alice, ids(1), t0))
	assert.ErrorIs(t, f.staker.SetPaused(alice, true), reverts.ErrNotOwner)
	require.NoError(t, f.staker.SetPaused(owner, true))

	assert.ErrorIs(t, f.staker.Stake(alice, ids(2), t0), reverts.ErrPaused)
	assert.ErrorIs(t, f.staker.Unstake(alice, ids(1), t0), reverts.ErrPaused)
	_, err := f.staker.Claim(alice, t0)
	assert.ErrorIs(t, err, reverts.ErrPaused)
	_, err = f.staker.Exit(alice, ids(1), t0)
	assert.ErrorIs(t, err, reverts.ErrPaused)
	assert.ErrorIs(t, f.staker.Fund(owner, ether(1), t0), reverts.ErrPaused)

	// administration stays available
	require.NoError(t, f.staker.SetStakingFee(owner, ether(1)))
	require.NoError(t, f.staker.SetRewardsDuration(owner, day, t0))

	events := len(f.staker.Events())
	require.NoError(t, f.staker.SetPaused(owner, true))
	assert.Len(t, f.staker.Events(), events)

	require.NoError(t, f.staker.SetPaused(owner, false))
	require.NoError(t, f.staker.Unstake(alice, ids(1), t0))
}

func TestOwnerOnly(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.staker.Fund(alice, ether(1), t0), reverts.ErrNotOwner)
	assert.ErrorIs(t, f.staker.SetRewardsDuration(alice, day, t0), reverts.ErrNotOwner)
	assert.ErrorIs(t, f.staker.SetStakingFee(alice, ether(1)), reverts.ErrNotOwner)
	assert.ErrorIs(t, f.staker.Recover(alice, otherAddr, ether(1)), reverts.ErrNotOwner)
	assert.ErrorIs(t, f.staker.TransferOwnership(alice, alice), reverts.ErrNotOwner)
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.staker.TransferOwnership(owner, thor.Address{}), reverts.ErrZeroAddress)
	require.NoError(t, f.staker.TransferOwnership(owner, bob))

	o, err := f.staker.Owner()
	require.NoError(t, err)
	assert.Equal(t, bob, o)
	assert.ErrorIs(t, f.staker.SetStakingFee(owner, ether(1)), reverts.ErrNotOwner)
	require.NoError(t, f.staker.SetStakingFee(bob, ether(1)))
}

func TestSetRewardsDuration(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.staker.SetRewardsDuration(owner, 0, t0), reverts.ErrZeroDuration)
	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	assert.ErrorIs(t, f.staker.SetRewardsDuration(owner, day, t0+day), reverts.ErrMustWaitForPeriodEnd)
	require.NoError(t, f.staker.SetRewardsDuration(owner, day, t0+week))

	sched, err := f.staker.Schedule()
	require.NoError(t, err)
	assert.Equal(t, day, sched.Duration)
}

func TestFundRequiresPoolBalance(t *testing.T) {
	f := newFixture(t)

	// owner only has 10000
	err := f.staker.Fund(owner, ether(20_000), t0)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	assert.Equal(t, ether(700), f.balance(t, stakerAddr))

	// rewards recovered out of the pool no longer back the next period
	require.NoError(t, f.staker.Recover(owner, rewardAddr, ether(700)))
	err = f.staker.Fund(owner, ether(1), t0+day)
	assert.ErrorIs(t, err, reverts.ErrInsufficientRewardBalance)
}

func TestRecover(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.staker.Recover(owner, nftAddr, uint256.NewInt(1)), reverts.ErrCannotRecoverStakingAsset)
	require.NoError(t, f.staker.Recover(owner, otherAddr, ether(3)))

	bal, err := f.tokens.BalanceOf(otherAddr, owner)
	require.NoError(t, err)
	assert.Equal(t, ether(3), bal)
	assert.ErrorIs(t, f.staker.Recover(owner, otherAddr, ether(1)), reverts.ErrInsufficientBalance)
}

func TestRewardStrandedWhileNothingStaked(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1), t0+day))

	// the first day was paid to nobody
	within(t, ether(600), f.earned(t, alice, t0+week), week)
}

func TestViewsDoNotMutate(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staker.Fund(owner, ether(700), t0))
	require.NoError(t, f.staker.Stake(alice, ids(1), t0))

	before, err := f.staker.Schedule()
	require.NoError(t, err)
	_, err = f.staker.RewardPerUnit(t0 + day)
	require.NoError(t, err)
	f.earned(t, alice, t0+day)
	after, err := f.staker.Schedule()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
