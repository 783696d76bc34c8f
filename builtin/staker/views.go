// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/staker/ledger"
	"github.com/vechain/nftstaker/builtin/staker/rewards"
	"github.com/vechain/nftstaker/thor"
)

//
// Getters - no state change
//

// Owner returns the owner, zero before initialization.
func (s *Staker) Owner() (thor.Address, error) {
	owner, err := s.owner.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

// IsOwner tells whether addr holds the owner role.
func (s *Staker) IsOwner(addr thor.Address) (bool, error) {
	owner, err := s.Owner()
	if err != nil {
		return false, err
	}
	return !owner.IsZero() && owner == addr, nil
}

func (s *Staker) Paused() (bool, error) {
	paused, err := s.paused.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get paused")
	}
	return paused, nil
}

func (s *Staker) StakingFee() (*uint256.Int, error) {
	fee, err := s.stakingFee.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking fee")
	}
	return fee, nil
}

// StakingAsset returns the address of the staked collection.
func (s *Staker) StakingAsset() (thor.Address, error) {
	addr, err := s.stakingAsset.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get staking asset")
	}
	return addr, nil
}

// RewardToken returns the address of the token rewards are paid in.
func (s *Staker) RewardToken() (thor.Address, error) {
	addr, err := s.rewardToken.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get reward token")
	}
	return addr, nil
}

// BalanceOf returns the number of assets staked by addr.
func (s *Staker) BalanceOf(addr thor.Address) (uint64, error) {
	acc, err := s.ledger.Account(addr)
	if err != nil {
		return 0, err
	}
	return acc.Staked, nil
}

// Account returns the raw ledger account of addr.
func (s *Staker) Account(addr thor.Address) (*ledger.Account, error) {
	return s.ledger.Account(addr)
}

func (s *Staker) TotalStaked() (*uint256.Int, error) {
	return s.rewards.TotalStaked()
}

func (s *Staker) LastTimeRewardApplicable(now uint64) (uint64, error) {
	return s.rewards.LastTimeApplicable(now)
}

func (s *Staker) RewardPerUnit(now uint64) (*uint256.Int, error) {
	return s.rewards.RewardPerUnit(now)
}

// Earned returns the reward addr could claim at now.
func (s *Staker) Earned(addr thor.Address, now uint64) (*uint256.Int, error) {
	index, err := s.rewards.RewardPerUnit(now)
	if err != nil {
		return nil, err
	}
	return s.ledger.Earned(addr, index)
}

func (s *Staker) RewardForDuration() (*uint256.Int, error) {
	return s.rewards.RewardForDuration()
}

// StakerOf returns who staked id, or the zero address.
func (s *Staker) StakerOf(id *uint256.Int) (thor.Address, error) {
	return s.ledger.StakerOf(id)
}

func (s *Staker) Schedule() (*rewards.Schedule, error) {
	return s.rewards.Schedule()
}
