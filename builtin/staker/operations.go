// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/thor"
)

//
// Participant operations
//

// Stake moves ids from caller into custody and credits one unit per asset.
// A non-zero staking fee is charged once per call in the reward token.
func (s *Staker) Stake(caller thor.Address, ids []*uint256.Int, now uint64) error {
	return s.atomic("stake", caller, func() error {
		return s.stake(caller, ids, now)
	})
}

func (s *Staker) stake(caller thor.Address, ids []*uint256.Int, now uint64) error {
	if err := s.requireNotPaused(); err != nil {
		return err
	}
	if caller.IsZero() {
		return reverts.ErrZeroAddress
	}
	if err := requireIDs(ids); err != nil {
		return err
	}
	seen := make(map[uint256.Int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[*id]; ok {
			return reverts.ErrOwnershipConflict
		}
		seen[*id] = struct{}{}
	}

	if err := s.settle(caller, now); err != nil {
		return err
	}

	fee, err := s.StakingFee()
	if err != nil {
		return err
	}
	if !fee.IsZero() {
		if err := s.chargeFee(caller, fee); err != nil {
			return err
		}
	}

	for _, id := range ids {
		staker, err := s.ledger.StakerOf(id)
		if err != nil {
			return err
		}
		if !staker.IsZero() {
			return reverts.ErrOwnershipConflict
		}
		holder, err := s.assets.OwnerOf(id)
		if err != nil {
			return err
		}
		if holder != caller {
			return reverts.ErrNotTokenOwner
		}
		if err := s.ledger.Assign(id, caller); err != nil {
			return err
		}
		if err := s.assets.TransferAsset(caller, s.addr, id); err != nil {
			return err
		}
	}
	if err := s.ledger.AddUnits(caller, uint64(len(ids))); err != nil {
		return err
	}
	return s.emit(evStaked, []thor.Bytes32{addressTopic(caller)}, uint256.NewInt(uint64(len(ids))).ToBig(), bigs(ids))
}

// requireIDs rejects an empty list and missing ids.
func requireIDs(ids []*uint256.Int) error {
	if len(ids) == 0 {
		return reverts.ErrEmptyAssetList
	}
	for _, id := range ids {
		if id == nil {
			return reverts.ErrInvalidAssetID
		}
	}
	return nil
}

func (s *Staker) chargeFee(caller thor.Address, fee *uint256.Int) error {
	token, err := s.RewardToken()
	if err != nil {
		return err
	}
	owner, err := s.Owner()
	if err != nil {
		return err
	}
	return s.tokens.Transfer(token, caller, owner, fee)
}

// Unstake returns ids to caller and debits one unit per asset.
func (s *Staker) Unstake(caller thor.Address, ids []*uint256.Int, now uint64) error {
	return s.atomic("unstake", caller, func() error {
		return s.unstake(caller, ids, now)
	})
}

func (s *Staker) unstake(caller thor.Address, ids []*uint256.Int, now uint64) error {
	if err := s.requireNotPaused(); err != nil {
		return err
	}
	if err := requireIDs(ids); err != nil {
		return err
	}
	if err := s.settle(caller, now); err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.ledger.Release(id, caller); err != nil {
			return err
		}
		if err := s.assets.TransferAsset(s.addr, caller, id); err != nil {
			return err
		}
	}
	if err := s.ledger.RemoveUnits(caller, uint64(len(ids))); err != nil {
		return err
	}
	return s.emit(evUnstaked, []thor.Bytes32{addressTopic(caller)}, uint256.NewInt(uint64(len(ids))).ToBig(), bigs(ids))
}

// Claim pays the settled reward of caller and returns the amount paid.
func (s *Staker) Claim(caller thor.Address, now uint64) (reward *uint256.Int, err error) {
	err = s.atomic("claim", caller, func() error {
		reward, err = s.claim(caller, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *Staker) claim(caller thor.Address, now uint64) (*uint256.Int, error) {
	if err := s.requireNotPaused(); err != nil {
		return nil, err
	}
	if err := s.settle(caller, now); err != nil {
		return nil, err
	}
	reward, err := s.ledger.DrainReward(caller)
	if err != nil {
		if errors.Is(err, reverts.ErrNoRewardAvailable) {
			return nil, reverts.ErrNotHaveReward
		}
		return nil, err
	}
	token, err := s.RewardToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Transfer(token, s.addr, caller, reward); err != nil {
		return nil, err
	}
	if err := s.emit(evClaimed, []thor.Bytes32{addressTopic(caller)}, reward.ToBig()); err != nil {
		return nil, err
	}
	return reward, nil
}

// Exit unstakes ids and claims the reward in one operation.
// When there is no reward to claim nothing is unstaked either.
func (s *Staker) Exit(caller thor.Address, ids []*uint256.Int, now uint64) (reward *uint256.Int, err error) {
	err = s.atomic("exit", caller, func() error {
		if err := s.unstake(caller, ids, now); err != nil {
			return err
		}
		reward, err = s.claim(caller, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

//
// Owner operations
//

// Fund moves amount of the reward token from caller into the pool and starts a new period at now.
// Whatever was left of a running period rolls into the new one.
func (s *Staker) Fund(caller thor.Address, amount *uint256.Int, now uint64) error {
	return s.atomic("fund", caller, func() error {
		if err := s.requireOwner(caller); err != nil {
			return err
		}
		if err := s.requireNotPaused(); err != nil {
			return err
		}
		if err := s.settle(thor.Address{}, now); err != nil {
			return err
		}
		token, err := s.RewardToken()
		if err != nil {
			return err
		}
		if err := s.tokens.Transfer(token, caller, s.addr, amount); err != nil {
			return err
		}
		pool, err := s.tokens.BalanceOf(token, s.addr)
		if err != nil {
			return err
		}
		rate, err := s.rewards.Fund(amount, now, pool)
		if err != nil {
			return err
		}
		logger.Debug("funded", "amount", amount.Dec(), "rate", rate.Dec())
		return s.emit(evFunded, nil, amount.ToBig())
	})
}

// SetPaused switches the pause gate. Setting the current value does nothing.
func (s *Staker) SetPaused(caller thor.Address, paused bool) error {
	return s.atomic("set-paused", caller, func() error {
		if err := s.requireOwner(caller); err != nil {
			return err
		}
		current, err := s.Paused()
		if err != nil {
			return err
		}
		if current == paused {
			return nil
		}
		s.paused.Set(paused)
		return s.emit(evPauseChanged, nil, paused)
	})
}

// SetRewardsDuration changes the length of the next funding periods.
func (s *Staker) SetRewardsDuration(caller thor.Address, duration, now uint64) error {
	return s.atomic("set-duration", caller, func() error {
		if err := s.requireOwner(caller); err != nil {
			return err
		}
		if err := s.rewards.SetDuration(duration, now); err != nil {
			return err
		}
		return s.emit(evRewardsDurationUpdated, nil, uint256.NewInt(duration).ToBig())
	})
}

// SetStakingFee changes the fee charged per stake call. Zero disables it.
func (s *Staker) SetStakingFee(caller thor.Address, fee *uint256.Int) error {
	return s.atomic("set-fee", caller, func() error {
		if err := s.requireOwner(caller); err != nil {
			return err
		}
		s.stakingFee.Set(fee)
		return s.emit(evStakingFeeUpdated, nil, fee.ToBig())
	})
}

// Recover sends amount of token held by the staker to the owner.
// The staking asset can never be recovered.
func (s *Staker) Recover(caller, token thor.Address, amount *uint256.Int) error {
	return s.atomic("recover", caller, func() error {
		if err := s.requireOwner(caller); err != nil {
			return err
		}
		asset, err := s.StakingAsset()
		if err != nil {
			return err
		}
		if token == asset {
			return reverts.ErrCannotRecoverStakingAsset
		}
		if err := s.tokens.Transfer(token, s.addr, caller, amount); err != nil {
			return err
		}
		return s.emit(evRecovered, nil, common.Address(token), amount.ToBig())
	})
}

// TransferOwnership hands the owner role to newOwner.
func (s *Staker) TransferOwnership(caller, newOwner thor.Address) error {
	return s.atomic("transfer-ownership", caller, func() error {
		if err := s.requireOwner(caller); err != nil {
			return err
		}
		if newOwner.IsZero() {
			return reverts.ErrZeroAddress
		}
		s.owner.Set(newOwner)
		return s.emit(evOwnershipTransferred, []thor.Bytes32{addressTopic(caller), addressTopic(newOwner)})
	})
}
