// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/nftstaker/thor"
)

// DevAccounts are the well known accounts of the dev deployment.
var DevAccounts = []thor.Address{
	thor.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa"),
	thor.MustParseAddress("0x435933c8064b4ae76be665428e0307ef2ccfbd68"),
	thor.MustParseAddress("0x0f872421dc479f3c11edd89512731814d0598db5"),
}

// DevConfig is a ready to use deployment: the first dev account owns the staker,
// every dev account holds ten assets and 10,000 reward tokens.
func DevConfig() *Config {
	cfg := &Config{
		Owner:           DevAccounts[0],
		Staker:          thor.BytesToAddress([]byte("NFTStaker")),
		Collection:      thor.BytesToAddress([]byte("Collection")),
		Ledger:          thor.BytesToAddress([]byte("Ledger")),
		RewardToken:     thor.BytesToAddress([]byte("Reward")),
		RewardsDuration: 7 * 24 * 3600,
		StakingFee:      "0",
	}
	for i, acc := range DevAccounts {
		ids := make([]uint64, 0, 10)
		for j := uint64(1); j <= 10; j++ {
			ids = append(ids, uint64(i)*10+j)
		}
		cfg.Assets = append(cfg.Assets, Assets{Holder: acc, IDs: ids})
		cfg.Tokens = append(cfg.Tokens, Tokens{Holder: acc, Amount: "10000000000000000000000"})
	}
	return cfg
}
