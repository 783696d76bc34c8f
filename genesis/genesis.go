// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstaker/builtin/staker"
	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Config describes a deployment and its initial balances.
type Config struct {
	Owner           thor.Address `yaml:"owner"`
	Staker          thor.Address `yaml:"staker"`
	Collection      thor.Address `yaml:"collection"`
	Ledger          thor.Address `yaml:"ledger"`
	RewardToken     thor.Address `yaml:"reward_token"`
	RewardsDuration uint64       `yaml:"rewards_duration"` // seconds
	StakingFee      string       `yaml:"staking_fee"`      // decimal, reward token units
	Paused          bool         `yaml:"paused"`
	Assets          []Assets     `yaml:"assets"`
	Tokens          []Tokens     `yaml:"tokens"`
}

// Assets mints ids of the collection to holder.
type Assets struct {
	Holder thor.Address `yaml:"holder"`
	IDs    []uint64     `yaml:"ids"`
}

// Tokens mints amount of token to holder. Token defaults to the reward token.
type Tokens struct {
	Holder thor.Address  `yaml:"holder"`
	Token  *thor.Address `yaml:"token,omitempty"`
	Amount string        `yaml:"amount"`
}

// Load reads a yaml config. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}
	return &cfg, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", s, err)
	}
	return v, nil
}

// Validate checks the config without touching any state.
func (c *Config) Validate() error {
	for name, addr := range map[string]thor.Address{
		"owner":        c.Owner,
		"staker":       c.Staker,
		"collection":   c.Collection,
		"ledger":       c.Ledger,
		"reward_token": c.RewardToken,
	} {
		if addr.IsZero() {
			return fmt.Errorf("%s: address must be set", name)
		}
	}
	if c.Staker == c.Collection || c.Staker == c.Ledger || c.Collection == c.Ledger {
		return errors.New("staker, collection and ledger must be distinct")
	}
	if c.RewardsDuration == 0 {
		return errors.New("rewards_duration must not be 0")
	}
	if _, err := parseAmount(c.StakingFee); err != nil {
		return errors.Wrap(err, "staking_fee")
	}

	seen := make(map[uint64]bool)
	for _, a := range c.Assets {
		if a.Holder.IsZero() {
			return errors.New("assets: holder must be set")
		}
		for _, id := range a.IDs {
			if seen[id] {
				return fmt.Errorf("assets: id %v minted twice", id)
			}
			seen[id] = true
		}
	}
	for _, t := range c.Tokens {
		if t.Holder.IsZero() {
			return errors.New("tokens: holder must be set")
		}
		if _, err := parseAmount(t.Amount); err != nil {
			return errors.Wrapf(err, "tokens: %v", t.Holder)
		}
	}
	return nil
}

// Addresses returns where the contracts of the deployment live.
func (c *Config) Addresses() runtime.Addresses {
	return runtime.Addresses{
		Staker:     c.Staker,
		Collection: c.Collection,
		Ledger:     c.Ledger,
	}
}

// Build writes the initial state through rt as its first operation.
// It returns false when rt was already initialized.
func Build(rt *runtime.Runtime, c *Config) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	fee, _ := parseAmount(c.StakingFee)

	var initialized bool
	if err := rt.View(func(env *runtime.Env) error {
		owner, err := env.Staker.Owner()
		initialized = !owner.IsZero()
		return err
	}); err != nil {
		return false, err
	}
	if initialized {
		logger.Debug("already initialized, skip genesis")
		return false, nil
	}

	receipt, err := rt.Execute("genesis", c.Owner, func(env *runtime.Env) error {
		if err := env.Staker.Initialize(staker.Config{
			Owner:           c.Owner,
			StakingAsset:    c.Collection,
			RewardToken:     c.RewardToken,
			RewardsDuration: c.RewardsDuration,
			StakingFee:      fee,
			Paused:          c.Paused,
		}); err != nil {
			return errors.Wrap(err, "initialize staker")
		}
		for _, a := range c.Assets {
			for _, id := range a.IDs {
				if err := env.Collection.Mint(a.Holder, uint256.NewInt(id)); err != nil {
					return errors.Wrapf(err, "mint asset %v", id)
				}
			}
		}
		for _, t := range c.Tokens {
			token := c.RewardToken
			if t.Token != nil {
				token = *t.Token
			}
			amount, _ := parseAmount(t.Amount)
			if err := env.Tokens.Mint(token, t.Holder, amount); err != nil {
				return errors.Wrapf(err, "mint %v to %v", token, t.Holder)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	logger.Info("genesis built", "seq", receipt.Seq, "owner", c.Owner, "staker", c.Staker)
	return true, nil
}
