// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/thor"
)

var (
	slotRewardRate    = thor.BytesToBytes32([]byte("reward-rate"))
	slotPeriodFinish  = thor.BytesToBytes32([]byte("period-finish"))
	slotLastUpdate    = thor.BytesToBytes32([]byte("last-update-time"))
	slotRewardPerUnit = thor.BytesToBytes32([]byte("reward-per-unit-stored"))
	slotDuration      = thor.BytesToBytes32([]byte("rewards-duration"))
	slotTotalStaked   = thor.BytesToBytes32([]byte("total-staked"))
)

// Schedule is a snapshot of the funding schedule and the global index.
type Schedule struct {
	Rate          *uint256.Int
	PeriodFinish  uint64
	LastUpdate    uint64
	Duration      uint64
	RewardPerUnit *uint256.Int
	TotalStaked   *uint256.Int
}

// Service is the reward index engine. It owns the funding schedule,
// the per-unit index and the total of staked units.
type Service struct {
	rate          *solidity.Uint256
	periodFinish  *solidity.Uint64
	lastUpdate    *solidity.Uint64
	rewardPerUnit *solidity.Uint256
	duration      *solidity.Uint64
	totalStaked   *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		rate:          solidity.NewUint256(sctx, slotRewardRate),
		periodFinish:  solidity.NewUint64(sctx, slotPeriodFinish),
		lastUpdate:    solidity.NewUint64(sctx, slotLastUpdate),
		rewardPerUnit: solidity.NewUint256(sctx, slotRewardPerUnit),
		duration:      solidity.NewUint64(sctx, slotDuration),
		totalStaked:   solidity.NewUint256(sctx, slotTotalStaked),
	}
}

// Schedule reads the whole schedule.
func (s *Service) Schedule() (*Schedule, error) {
	rate, err := s.rate.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward rate")
	}
	finish, err := s.periodFinish.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get period finish")
	}
	last, err := s.lastUpdate.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get last update")
	}
	duration, err := s.duration.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rewards duration")
	}
	index, err := s.rewardPerUnit.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward per unit")
	}
	total, err := s.totalStaked.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total staked")
	}
	return &Schedule{
		Rate:          rate,
		PeriodFinish:  finish,
		LastUpdate:    last,
		Duration:      duration,
		RewardPerUnit: index,
		TotalStaked:   total,
	}, nil
}

// LastTimeApplicable returns min(now, periodFinish).
func (s *Service) LastTimeApplicable(now uint64) (uint64, error) {
	finish, err := s.periodFinish.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get period finish")
	}
	return lastTimeApplicable(now, finish), nil
}

// project computes the index as of now and the time it is valid for, without writing it.
func (s *Service) project(sched *Schedule, now uint64) (*uint256.Int, uint64, error) {
	applicable := lastTimeApplicable(now, sched.PeriodFinish)
	if applicable <= sched.LastUpdate {
		return sched.RewardPerUnit, sched.LastUpdate, nil
	}
	index, err := accrue(sched.RewardPerUnit, applicable-sched.LastUpdate, sched.Rate, sched.TotalStaked)
	if err != nil {
		return nil, 0, err
	}
	return index, applicable, nil
}

// RewardPerUnit returns the index projected to now. State is not touched.
func (s *Service) RewardPerUnit(now uint64) (*uint256.Int, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	index, _, err := s.project(sched, now)
	return index, err
}

// Advance brings the stored index up to now and returns it.
// The last update time moves forward even when nothing is staked,
// so reward of that interval is never allocated to anyone.
func (s *Service) Advance(now uint64) (*uint256.Int, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	index, applicable, err := s.project(sched, now)
	if err != nil {
		return nil, err
	}
	s.rewardPerUnit.Set(index)
	s.lastUpdate.Set(applicable)
	return index, nil
}

// Fund starts a new funding period of the configured duration at now.
// poolBalance is the reward token balance held after the funds came in.
// Callers must Advance to now first.
func (s *Service) Fund(amount *uint256.Int, now uint64, poolBalance *uint256.Int) (*uint256.Int, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	if sched.Duration == 0 {
		return nil, reverts.ErrZeroDuration
	}
	rate, err := nextRate(amount, sched.Rate, now, sched.PeriodFinish, sched.Duration)
	if err != nil {
		return nil, err
	}

	promised, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(sched.Duration))
	if overflow || promised.Gt(poolBalance) {
		return nil, reverts.ErrInsufficientRewardBalance
	}
	if now > ^uint64(0)-sched.Duration {
		return nil, reverts.ErrArithmeticOverflow
	}

	s.rate.Set(rate)
	s.lastUpdate.Set(now)
	s.periodFinish.Set(now + sched.Duration)
	return rate, nil
}

// Duration returns the length of funding periods.
func (s *Service) Duration() (uint64, error) {
	d, err := s.duration.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get rewards duration")
	}
	return d, nil
}

// SetDuration changes the length of future funding periods.
// It is locked while a period is running.
func (s *Service) SetDuration(duration, now uint64) error {
	if duration == 0 {
		return reverts.ErrZeroDuration
	}
	finish, err := s.periodFinish.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get period finish")
	}
	if now < finish {
		return reverts.ErrMustWaitForPeriodEnd
	}
	s.duration.Set(duration)
	return nil
}

// RewardForDuration returns rate*duration, the reward paid over a full period.
func (s *Service) RewardForDuration() (*uint256.Int, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	total, overflow := new(uint256.Int).MulOverflow(sched.Rate, uint256.NewInt(sched.Duration))
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	return total, nil
}

// TotalStaked returns the number of units staked by all accounts.
func (s *Service) TotalStaked() (*uint256.Int, error) {
	total, err := s.totalStaked.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total staked")
	}
	return total, nil
}

// AddStaked increases the total of staked units.
func (s *Service) AddStaked(units uint64) error {
	return s.totalStaked.Add(uint256.NewInt(units))
}

// SubStaked decreases the total of staked units.
func (s *Service) SubStaked(units uint64) error {
	if err := s.totalStaked.Sub(uint256.NewInt(units)); err != nil {
		if errors.Is(err, reverts.ErrArithmeticOverflow) {
			return reverts.ErrInsufficientStakedUnits
		}
		return err
	}
	return nil
}
