// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/thor"
)

type randomOp struct {
	Kind    uint8
	Bob     bool
	Cross   bool
	First   uint8
	Count   uint8
	Advance uint16
}

func (op randomOp) ids(who thor.Address) []*uint256.Int {
	base := uint64(op.First%10) + 1
	// Cross picks from the other account's assets
	if (who == bob) != op.Cross {
		base += 10
	}
	n := uint64(op.Count%3) + 1
	out := make([]*uint256.Int, 0, n)
	for i := uint64(0); i < n && base+i <= 20; i++ {
		out = append(out, uint256.NewInt(base+i))
	}
	return out
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		var ops []randomOp
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(30, 60).Fuzz(&ops)
		runRandomOps(t, ops)
	}
}

// expectedStakeErr walks ids the way Stake checks them: an id already staked by
// anyone conflicts, an id held by someone else is not the caller's.
func expectedStakeErr(t *testing.T, f *fixture, who thor.Address, ids []*uint256.Int) error {
	for _, id := range ids {
		staker, err := f.staker.StakerOf(id)
		require.NoError(t, err)
		if !staker.IsZero() {
			return reverts.ErrOwnershipConflict
		}
		holder, err := f.nft.OwnerOf(id)
		require.NoError(t, err)
		if holder != who {
			return reverts.ErrNotTokenOwner
		}
	}
	return nil
}

func runRandomOps(t *testing.T, ops []randomOp) {
	f := newFixture(t)

	now := t0
	funded := new(uint256.Int)
	claimed := new(uint256.Int)
	lastIndex := new(uint256.Int)

	for _, op := range ops {
		now += uint64(op.Advance) * 60
		who := alice
		if op.Bob {
			who = bob
		}

		var err error
		switch op.Kind % 6 {
		case 0:
			stakeIDs := op.ids(who)
			want := expectedStakeErr(t, f, who, stakeIDs)
			err = f.staker.Stake(who, stakeIDs, now)
			if want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, want)
			}
		case 1:
			err = f.staker.Unstake(who, op.ids(who), now)
		case 2:
			var reward *uint256.Int
			if reward, err = f.staker.Claim(who, now); err == nil {
				claimed.Add(claimed, reward)
			}
		case 3:
			var reward *uint256.Int
			if reward, err = f.staker.Exit(who, op.ids(who), now); err == nil {
				claimed.Add(claimed, reward)
			}
		case 4:
			if err = f.staker.Fund(owner, ether(70), now); err == nil {
				funded.Add(funded, ether(70))
			}
		case 5:
			err = f.staker.SetRewardsDuration(owner, uint64(op.Advance%7+1)*day, now)
		}
		if err != nil {
			require.True(t, reverts.IsRevertErr(err), "unexpected error %v", err)
		}

		// units are conserved across accounts, records and custody
		var records uint64
		for i := uint64(1); i <= 20; i++ {
			id := uint256.NewInt(i)
			staker, err := f.staker.StakerOf(id)
			require.NoError(t, err)
			holder, err := f.nft.OwnerOf(id)
			require.NoError(t, err)
			if staker.IsZero() {
				assert.NotEqual(t, stakerAddr, holder)
			} else {
				records++
				assert.Equal(t, stakerAddr, holder)
			}
		}
		a, err := f.staker.BalanceOf(alice)
		require.NoError(t, err)
		b, err := f.staker.BalanceOf(bob)
		require.NoError(t, err)
		total, err := f.staker.TotalStaked()
		require.NoError(t, err)
		assert.Equal(t, records, a+b)
		assert.Equal(t, records, total.Uint64())

		// the index never goes back
		sched, err := f.staker.Schedule()
		require.NoError(t, err)
		assert.False(t, sched.RewardPerUnit.Lt(lastIndex))
		lastIndex = sched.RewardPerUnit

		// no reward out of thin air
		owed := new(uint256.Int).Add(f.earned(t, alice, now), f.earned(t, bob, now))
		owed.Add(owed, claimed)
		assert.False(t, owed.Gt(funded), "owed %v funded %v", owed, funded)
	}
}
