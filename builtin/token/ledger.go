// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/thor"
)

var (
	slotBalances = thor.BytesToBytes32([]byte("token-balances"))
	slotSupplies = thor.BytesToBytes32([]byte("token-supplies"))
)

// balanceKey addresses the balance of holder in token.
type balanceKey struct {
	token  thor.Address
	holder thor.Address
}

func (k balanceKey) Bytes() []byte {
	return append(k.token.Bytes(), k.holder.Bytes()...)
}

// Ledger keeps balances of any number of fungible tokens, each identified by an address.
type Ledger struct {
	balances *solidity.Mapping[balanceKey, *uint256.Int]
	supplies *solidity.Mapping[thor.Address, *uint256.Int]
}

// NewLedger binds the ledger deployed at sctx's address.
func NewLedger(sctx *solidity.Context) *Ledger {
	return &Ledger{
		balances: solidity.NewMapping[balanceKey, *uint256.Int](sctx, slotBalances),
		supplies: solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotSupplies),
	}
}

// BalanceOf returns the balance of holder in token.
func (l *Ledger) BalanceOf(token, holder thor.Address) (*uint256.Int, error) {
	bal, err := l.balances.Get(balanceKey{token, holder})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// TotalSupply returns the minted amount of token.
func (l *Ledger) TotalSupply(token thor.Address) (*uint256.Int, error) {
	supply, err := l.supplies.Get(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get supply")
	}
	return supply, nil
}

// Mint credits amount of token to to.
func (l *Ledger) Mint(token, to thor.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	supply, err := l.TotalSupply(token)
	if err != nil {
		return err
	}
	if _, overflow := supply.AddOverflow(supply, amount); overflow {
		return reverts.ErrArithmeticOverflow
	}
	if err := l.supplies.Set(token, supply); err != nil {
		return errors.Wrap(err, "failed to set supply")
	}
	bal, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	// cannot overflow, balance <= supply
	bal.Add(bal, amount)
	return l.setBalance(token, to, bal)
}

// Transfer moves amount of token from from to to.
// It fails with InsufficientBalance, leaving balances untouched, when from is short.
func (l *Ledger) Transfer(token, from, to thor.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	fromBal, err := l.BalanceOf(token, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	toBal, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(token, from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.setBalance(token, to, toBal.Add(toBal, amount))
}

func (l *Ledger) setBalance(token, holder thor.Address, bal *uint256.Int) error {
	key := balanceKey{token, holder}
	if bal.IsZero() {
		l.balances.Delete(key)
		return nil
	}
	if err := l.balances.Set(key, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
