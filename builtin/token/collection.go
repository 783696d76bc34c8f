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
	slotOwners   = thor.BytesToBytes32([]byte("asset-owners"))
	slotHoldings = thor.BytesToBytes32([]byte("asset-holdings"))
	slotMinted   = thor.BytesToBytes32([]byte("asset-minted"))
)

// ErrAssetExists is returned when minting an id twice.
var ErrAssetExists = reverts.New("AssetExists", "asset already minted")

// Collection is a non-fungible asset registry kept in state.
// Each asset id has exactly one holder once minted.
type Collection struct {
	address  thor.Address
	owners   *solidity.Mapping[*uint256.Int, thor.Address]
	holdings *solidity.Mapping[thor.Address, uint64]
	minted   *solidity.Uint256
}

// NewCollection binds the collection deployed at sctx's address.
func NewCollection(sctx *solidity.Context) *Collection {
	return &Collection{
		address:  sctx.Address(),
		owners:   solidity.NewMapping[*uint256.Int, thor.Address](sctx, slotOwners),
		holdings: solidity.NewMapping[thor.Address, uint64](sctx, slotHoldings),
		minted:   solidity.NewUint256(sctx, slotMinted),
	}
}

// Address returns the address identifying this collection.
func (c *Collection) Address() thor.Address {
	return c.address
}

// OwnerOf returns the holder of id, or the zero address if it was never minted.
func (c *Collection) OwnerOf(id *uint256.Int) (thor.Address, error) {
	owner, err := c.owners.Get(id)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get asset owner")
	}
	return owner, nil
}

// BalanceOf returns how many assets holder has.
func (c *Collection) BalanceOf(holder thor.Address) (uint64, error) {
	n, err := c.holdings.Get(holder)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get holdings")
	}
	return n, nil
}

// TotalMinted returns the number of assets ever minted.
func (c *Collection) TotalMinted() (*uint256.Int, error) {
	return c.minted.Get()
}

// Mint creates id held by to.
func (c *Collection) Mint(to thor.Address, id *uint256.Int) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	owner, err := c.OwnerOf(id)
	if err != nil {
		return err
	}
	if !owner.IsZero() {
		return ErrAssetExists
	}
	if err := c.owners.Set(id, to); err != nil {
		return errors.Wrap(err, "failed to set asset owner")
	}
	if err := c.adjust(to, 1); err != nil {
		return err
	}
	return c.minted.Add(uint256.NewInt(1))
}

// TransferAsset moves id from from to to. It fails with NotTokenOwner unless from holds id.
func (c *Collection) TransferAsset(from, to thor.Address, id *uint256.Int) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	owner, err := c.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != from {
		return reverts.ErrNotTokenOwner
	}
	if from == to {
		return nil
	}
	if err := c.owners.Set(id, to); err != nil {
		return errors.Wrap(err, "failed to set asset owner")
	}
	if err := c.adjust(from, -1); err != nil {
		return err
	}
	return c.adjust(to, 1)
}

func (c *Collection) adjust(holder thor.Address, delta int) error {
	n, err := c.BalanceOf(holder)
	if err != nil {
		return err
	}
	if delta < 0 {
		n--
	} else {
		n++
	}
	if err := c.holdings.Set(holder, n); err != nil {
		return errors.Wrap(err, "failed to set holdings")
	}
	return nil
}
