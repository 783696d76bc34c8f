// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/builtin/staker/ledger"
	"github.com/vechain/nftstaker/builtin/staker/rewards"
	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/state"
	"github.com/vechain/nftstaker/thor"
	"github.com/vechain/nftstaker/tx"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

var (
	slotOwner        = thor.BytesToBytes32([]byte("owner"))
	slotPaused       = thor.BytesToBytes32([]byte("paused"))
	slotStakingFee   = thor.BytesToBytes32([]byte("staking-fee"))
	slotStakingAsset = thor.BytesToBytes32([]byte("staking-asset"))
	slotRewardToken  = thor.BytesToBytes32([]byte("reward-token"))
	slotEntered      = thor.BytesToBytes32([]byte("reentrancy-status"))
)

// ErrAlreadyInitialized is returned when initializing a staker twice.
var ErrAlreadyInitialized = reverts.New("AlreadyInitialized", "staker already initialized")

// AssetCustody moves non-fungible assets between holders.
type AssetCustody interface {
	TransferAsset(from, to thor.Address, id *uint256.Int) error
	OwnerOf(id *uint256.Int) (thor.Address, error)
}

// TokenLedger moves fungible tokens between holders.
type TokenLedger interface {
	Transfer(token, from, to thor.Address, amount *uint256.Int) error
	BalanceOf(token, holder thor.Address) (*uint256.Int, error)
}

// Config is the initial configuration of a staker.
type Config struct {
	Owner           thor.Address
	StakingAsset    thor.Address
	RewardToken     thor.Address
	RewardsDuration uint64
	StakingFee      *uint256.Int
	Paused          bool
}

// Staker is the staking ledger deployed at one address.
// Every mutating operation advances the reward index and settles the caller before applying its effect.
type Staker struct {
	addr   thor.Address
	state  *state.State
	assets AssetCustody
	tokens TokenLedger

	owner        *solidity.Address
	paused       *solidity.Bool
	stakingFee   *solidity.Uint256
	stakingAsset *solidity.Address
	rewardToken  *solidity.Address
	entered      *solidity.Bool

	rewards *rewards.Service
	ledger  *ledger.Service

	events tx.Events
}

// New create a new instance.
func New(addr thor.Address, st *state.State, assets AssetCustody, tokens TokenLedger) *Staker {
	sctx := solidity.NewContext(addr, st)
	index := rewards.New(sctx)

	return &Staker{
		addr:   addr,
		state:  st,
		assets: assets,
		tokens: tokens,

		owner:        solidity.NewAddress(sctx, slotOwner),
		paused:       solidity.NewBool(sctx, slotPaused),
		stakingFee:   solidity.NewUint256(sctx, slotStakingFee),
		stakingAsset: solidity.NewAddress(sctx, slotStakingAsset),
		rewardToken:  solidity.NewAddress(sctx, slotRewardToken),
		entered:      solidity.NewBool(sctx, slotEntered),

		rewards: index,
		ledger:  ledger.New(sctx, index),
	}
}

// Address returns the custody address of the staker.
func (s *Staker) Address() thor.Address {
	return s.addr
}

// Events returns the events emitted by successful operations so far.
func (s *Staker) Events() tx.Events {
	return s.events
}

// Initialize writes the initial configuration. It can be done once.
func (s *Staker) Initialize(cfg Config) error {
	return s.atomic("initialize", thor.Address{}, func() error {
		owner, err := s.Owner()
		if err != nil {
			return err
		}
		if !owner.IsZero() {
			return ErrAlreadyInitialized
		}
		if cfg.Owner.IsZero() || cfg.StakingAsset.IsZero() || cfg.RewardToken.IsZero() {
			return reverts.ErrZeroAddress
		}
		if err := s.rewards.SetDuration(cfg.RewardsDuration, 0); err != nil {
			return err
		}
		s.owner.Set(cfg.Owner)
		s.stakingAsset.Set(cfg.StakingAsset)
		s.rewardToken.Set(cfg.RewardToken)
		s.paused.Set(cfg.Paused)
		if cfg.StakingFee != nil {
			s.stakingFee.Set(cfg.StakingFee)
		}
		return nil
	})
}

// atomic runs fn as one operation: guarded against re-entry and reverted as a whole on error.
func (s *Staker) atomic(op string, caller thor.Address, fn func() error) (err error) {
	logger.Debug("operation", "op", op, "caller", caller)

	checkpoint := s.state.NewCheckpoint()
	emitted := len(s.events)
	defer func() {
		if err != nil {
			s.state.RevertTo(checkpoint)
			s.events = s.events[:emitted]
			logger.Info("operation reverted", "op", op, "caller", caller, "err", err)
		}
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result(err)})
	}()

	entered, err := s.entered.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get reentrancy status")
	}
	if entered {
		return reverts.ErrReentrantCall
	}
	s.entered.Set(true)

	if err := fn(); err != nil {
		return err
	}
	s.entered.Set(false)
	return nil
}

func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case reverts.IsRevertErr(err):
		return "revert"
	default:
		return "error"
	}
}

func (s *Staker) requireOwner(caller thor.Address) error {
	owner, err := s.Owner()
	if err != nil {
		return err
	}
	if owner.IsZero() || caller != owner {
		return reverts.ErrNotOwner
	}
	return nil
}

func (s *Staker) requireNotPaused() error {
	paused, err := s.Paused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

// settle advances the index to now and settles addr against it.
func (s *Staker) settle(addr thor.Address, now uint64) error {
	index, err := s.rewards.Advance(now)
	if err != nil {
		return err
	}
	return s.ledger.Settle(addr, index)
}
