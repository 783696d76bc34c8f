// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"

	"github.com/vechain/nftstaker/thor"
)

// ErrRevert is a failed precondition of a ledger operation.
// An operation failing with ErrRevert leaves no state change and emits no event.
type ErrRevert struct {
	name    string
	message string
}

// New creates a revert with the given error name and human readable message.
func New(name, message string) *ErrRevert {
	return &ErrRevert{name: name, message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Name returns the error name, e.g. "NotTokenOwner".
func (e *ErrRevert) Name() string {
	return e.name
}

// Is reports whether target is a revert with the same name.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if errors.As(target, &t) {
		return t.name == e.name
	}
	return false
}

// Bytes returns the 4-byte selector of the custom error, keccak256("Name()")[:4].
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	return thor.Keccak256([]byte(e.name + "()")).Bytes()[:4]
}

// IsRevertErr reports whether err is, or wraps, an ErrRevert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Errors raised by ledger operations.
var (
	ErrZeroAddress               = New("ZeroAddress", "zero address")
	ErrZeroDuration              = New("ZeroDuration", "duration must be greater than zero")
	ErrMustWaitForPeriodEnd      = New("MustWaitForPeriodEnd", "reward period not finished")
	ErrEmptyAssetList            = New("EmptyAssetList", "asset list is empty")
	ErrInvalidAssetID            = New("InvalidAssetId", "asset id is missing")
	ErrNotTokenOwner             = New("NotTokenOwner", "caller does not own the asset")
	ErrOwnershipConflict         = New("OwnershipConflict", "asset is already staked")
	ErrInsufficientBalance       = New("InsufficientBalance", "insufficient balance")
	ErrInsufficientRewardBalance = New("InsufficientRewardBalance", "reward rate exceeds pool balance")
	ErrInsufficientStakedUnits   = New("InsufficientStakedUnits", "insufficient staked units")
	ErrNotHaveReward             = New("NotHaveReward", "no reward to claim")
	ErrNoRewardAvailable         = New("NoRewardAvailable", "no reward available")
	ErrCannotRecoverStakingAsset = New("CannotRecoverStakingAsset", "cannot recover the staking asset")
	ErrReentrantCall             = New("ReentrantCall", "reentrant call")
	ErrArithmeticOverflow        = New("ArithmeticOverflow", "arithmetic overflow")
	ErrNotOwner                  = New("NotOwner", "caller is not the owner")
	ErrPaused                    = New("Paused", "staking is paused")
)
