// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/nftstaker/thor"
)

// Overview is the global state of the staker.
type Overview struct {
	Address                  thor.Address          `json:"address"`
	Owner                    thor.Address          `json:"owner"`
	StakingAsset             thor.Address          `json:"stakingAsset"`
	RewardToken              thor.Address          `json:"rewardToken"`
	Paused                   bool                  `json:"paused"`
	StakingFee               *math.HexOrDecimal256 `json:"stakingFee"`
	RewardRate               *math.HexOrDecimal256 `json:"rewardRate"`
	PeriodFinish             uint64                `json:"periodFinish"`
	LastUpdateTime           uint64                `json:"lastUpdateTime"`
	RewardsDuration          uint64                `json:"rewardsDuration"`
	RewardPerUnit            *math.HexOrDecimal256 `json:"rewardPerUnit"`
	TotalStaked              *math.HexOrDecimal256 `json:"totalStaked"`
	RewardForDuration        *math.HexOrDecimal256 `json:"rewardForDuration"`
	LastTimeRewardApplicable uint64                `json:"lastTimeRewardApplicable"`
	Now                      uint64                `json:"now"`
	Seq                      uint64                `json:"seq"`
}

// Account is the position of one participant.
type Account struct {
	Address  thor.Address          `json:"address"`
	Staked   uint64                `json:"staked"`
	Earned   *math.HexOrDecimal256 `json:"earned"`
	Snapshot *math.HexOrDecimal256 `json:"snapshot"`
	Settled  *math.HexOrDecimal256 `json:"settled"`
	Balance  *math.HexOrDecimal256 `json:"balance"`
}

// Asset tells who holds an asset and who staked it.
type Asset struct {
	ID     *math.HexOrDecimal256 `json:"id"`
	Holder thor.Address          `json:"holder"`
	Staker *thor.Address         `json:"staker"`
}

// AssetsRequest moves assets of caller.
type AssetsRequest struct {
	Caller thor.Address            `json:"caller"`
	IDs    []*math.HexOrDecimal256 `json:"ids"`
}

type CallerRequest struct {
	Caller thor.Address `json:"caller"`
}

type AmountRequest struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type PausedRequest struct {
	Caller thor.Address `json:"caller"`
	Paused bool         `json:"paused"`
}

type DurationRequest struct {
	Caller   thor.Address `json:"caller"`
	Duration uint64       `json:"duration"`
}

type FeeRequest struct {
	Caller thor.Address          `json:"caller"`
	Fee    *math.HexOrDecimal256 `json:"fee"`
}

type RecoverRequest struct {
	Caller thor.Address          `json:"caller"`
	Token  thor.Address          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type OwnerRequest struct {
	Caller   thor.Address `json:"caller"`
	NewOwner thor.Address `json:"newOwner"`
}
