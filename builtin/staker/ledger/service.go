// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/builtin/staker/rewards"
	"github.com/vechain/nftstaker/thor"
)

var (
	slotAccounts     = thor.BytesToBytes32([]byte("accounts"))
	slotAssetStakers = thor.BytesToBytes32([]byte("asset-stakers"))
)

// Service is the account ledger: staked units and reward per account, staker per asset.
// Unit totals are mirrored into the reward index engine.
type Service struct {
	accounts *solidity.Mapping[thor.Address, *Account]
	stakers  *solidity.Mapping[*uint256.Int, thor.Address]
	index    *rewards.Service
}

func New(sctx *solidity.Context, index *rewards.Service) *Service {
	return &Service{
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
		stakers:  solidity.NewMapping[*uint256.Int, thor.Address](sctx, slotAssetStakers),
		index:    index,
	}
}

// Account returns the account of addr. Accounts never interacted with are zero.
func (s *Service) Account(addr thor.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc.normalize(), nil
}

func (s *Service) setAccount(addr thor.Address, acc *Account) error {
	if err := s.accounts.Set(addr, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// Settle resolves the reward of addr up to index and moves its snapshot to index.
// The zero address stands for no account and settles nothing.
func (s *Service) Settle(addr thor.Address, index *uint256.Int) error {
	if addr.IsZero() {
		return nil
	}
	acc, err := s.Account(addr)
	if err != nil {
		return err
	}
	settled, err := rewards.Earned(acc.Staked, index, acc.Snapshot, acc.Settled)
	if err != nil {
		return err
	}
	acc.Settled = settled
	acc.Snapshot = index.Clone()
	return s.setAccount(addr, acc)
}

// Earned projects the reward of addr at index without settling it.
func (s *Service) Earned(addr thor.Address, index *uint256.Int) (*uint256.Int, error) {
	acc, err := s.Account(addr)
	if err != nil {
		return nil, err
	}
	return rewards.Earned(acc.Staked, index, acc.Snapshot, acc.Settled)
}

// AddUnits credits units to addr and to the global total.
func (s *Service) AddUnits(addr thor.Address, units uint64) error {
	acc, err := s.Account(addr)
	if err != nil {
		return err
	}
	if acc.Staked > ^uint64(0)-units {
		return reverts.ErrArithmeticOverflow
	}
	acc.Staked += units
	if err := s.setAccount(addr, acc); err != nil {
		return err
	}
	return s.index.AddStaked(units)
}

// RemoveUnits debits units from addr and from the global total.
// It fails with InsufficientStakedUnits when addr holds fewer.
func (s *Service) RemoveUnits(addr thor.Address, units uint64) error {
	acc, err := s.Account(addr)
	if err != nil {
		return err
	}
	if acc.Staked < units {
		return reverts.ErrInsufficientStakedUnits
	}
	acc.Staked -= units
	if err := s.setAccount(addr, acc); err != nil {
		return err
	}
	return s.index.SubStaked(units)
}

// DrainReward zeroes the settled reward of addr and returns it.
// It fails with NoRewardAvailable when there is nothing settled.
func (s *Service) DrainReward(addr thor.Address) (*uint256.Int, error) {
	acc, err := s.Account(addr)
	if err != nil {
		return nil, err
	}
	if acc.Settled.IsZero() {
		return nil, reverts.ErrNoRewardAvailable
	}
	reward := acc.Settled
	acc.Settled = new(uint256.Int)
	if err := s.setAccount(addr, acc); err != nil {
		return nil, err
	}
	return reward, nil
}

// StakerOf returns who staked id, or the zero address.
func (s *Service) StakerOf(id *uint256.Int) (thor.Address, error) {
	staker, err := s.stakers.Get(id)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get asset staker")
	}
	return staker, nil
}

// Assign records addr as the staker of id.
// It fails with OwnershipConflict when id is already staked.
func (s *Service) Assign(id *uint256.Int, addr thor.Address) error {
	if addr.IsZero() {
		return reverts.ErrZeroAddress
	}
	staker, err := s.StakerOf(id)
	if err != nil {
		return err
	}
	if !staker.IsZero() {
		return reverts.ErrOwnershipConflict
	}
	if err := s.stakers.Set(id, addr); err != nil {
		return errors.Wrap(err, "failed to set asset staker")
	}
	return nil
}

// Release clears the staker of id.
// It fails with NotTokenOwner unless addr staked id.
func (s *Service) Release(id *uint256.Int, addr thor.Address) error {
	staker, err := s.StakerOf(id)
	if err != nil {
		return err
	}
	if staker.IsZero() || staker != addr {
		return reverts.ErrNotTokenOwner
	}
	s.stakers.Delete(id)
	return nil
}
