// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/api/utils"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
)

type Staker struct {
	rt   *runtime.Runtime
	solo bool
}

// New create the staker api. Operations can only be posted in solo mode.
func New(rt *runtime.Runtime, solo bool) *Staker {
	return &Staker{rt, solo}
}

func (s *Staker) handleGetOverview(w http.ResponseWriter, _ *http.Request) error {
	var ov *Overview
	err := s.rt.View(func(env *runtime.Env) error {
		st := env.Staker
		sched, err := st.Schedule()
		if err != nil {
			return err
		}
		owner, err := st.Owner()
		if err != nil {
			return err
		}
		asset, err := st.StakingAsset()
		if err != nil {
			return err
		}
		token, err := st.RewardToken()
		if err != nil {
			return err
		}
		paused, err := st.Paused()
		if err != nil {
			return err
		}
		fee, err := st.StakingFee()
		if err != nil {
			return err
		}
		index, err := st.RewardPerUnit(env.Now)
		if err != nil {
			return err
		}
		forDuration, err := st.RewardForDuration()
		if err != nil {
			return err
		}
		applicable, err := st.LastTimeRewardApplicable(env.Now)
		if err != nil {
			return err
		}
		ov = &Overview{
			Address:                  st.Address(),
			Owner:                    owner,
			StakingAsset:             asset,
			RewardToken:              token,
			Paused:                   paused,
			StakingFee:               utils.Amount(fee),
			RewardRate:               utils.Amount(sched.Rate),
			PeriodFinish:             sched.PeriodFinish,
			LastUpdateTime:           sched.LastUpdate,
			RewardsDuration:          sched.Duration,
			RewardPerUnit:            utils.Amount(index),
			TotalStaked:              utils.Amount(sched.TotalStaked),
			RewardForDuration:        utils.Amount(forDuration),
			LastTimeRewardApplicable: applicable,
			Now:                      env.Now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	ov.Seq = s.rt.Seq()
	return utils.WriteJSON(w, ov)
}

func (s *Staker) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var acc *Account
	err = s.rt.View(func(env *runtime.Env) error {
		raw, err := env.Staker.Account(*addr)
		if err != nil {
			return err
		}
		earned, err := env.Staker.Earned(*addr, env.Now)
		if err != nil {
			return err
		}
		token, err := env.Staker.RewardToken()
		if err != nil {
			return err
		}
		balance, err := env.Tokens.BalanceOf(token, *addr)
		if err != nil {
			return err
		}
		acc = &Account{
			Address:  *addr,
			Staked:   raw.Staked,
			Earned:   utils.Amount(earned),
			Snapshot: utils.Amount(raw.Snapshot),
			Settled:  utils.Amount(raw.Settled),
			Balance:  utils.Amount(balance),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (s *Staker) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	id, err := uint256.FromDecimal(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var asset *Asset
	err = s.rt.View(func(env *runtime.Env) error {
		holder, err := env.Collection.OwnerOf(id)
		if err != nil {
			return err
		}
		if holder.IsZero() {
			return utils.NotFound(errors.New("asset not found"))
		}
		staker, err := env.Staker.StakerOf(id)
		if err != nil {
			return err
		}
		asset = &Asset{ID: utils.Amount(id), Holder: holder}
		if !staker.IsZero() {
			asset.Staker = &staker
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, asset)
}

// execute runs one operation on behalf of caller and responds its receipt.
func (s *Staker) execute(w http.ResponseWriter, op string, caller thor.Address, fn func(env *runtime.Env) (*uint256.Int, error)) error {
	if caller.IsZero() {
		return utils.BadRequest(errors.New("caller: required"))
	}
	var reward *uint256.Int
	receipt, err := s.rt.Execute(op, caller, func(env *runtime.Env) (err error) {
		reward, err = fn(env)
		return err
	})
	if err != nil {
		return err
	}
	out := utils.ConvertReceipt(receipt)
	out.Reward = utils.Amount(reward)
	return utils.WriteJSON(w, out)
}

func (s *Staker) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body AssetsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	ids, err := utils.ParseIDs(body.IDs)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "ids"))
	}
	return s.execute(w, "stake", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.Stake(env.Caller, ids, env.Now)
	})
}

func (s *Staker) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body AssetsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	ids, err := utils.ParseIDs(body.IDs)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "ids"))
	}
	return s.execute(w, "unstake", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.Unstake(env.Caller, ids, env.Now)
	})
}

func (s *Staker) handleExit(w http.ResponseWriter, req *http.Request) error {
	var body AssetsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	ids, err := utils.ParseIDs(body.IDs)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "ids"))
	}
	return s.execute(w, "exit", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return env.Staker.Exit(env.Caller, ids, env.Now)
	})
}

func (s *Staker) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "claim", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return env.Staker.Claim(env.Caller, env.Now)
	})
}

func (s *Staker) handleFund(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	return s.execute(w, "fund", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.Fund(env.Caller, amount, env.Now)
	})
}

func (s *Staker) handleSetPaused(w http.ResponseWriter, req *http.Request) error {
	var body PausedRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "set-paused", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.SetPaused(env.Caller, body.Paused)
	})
}

func (s *Staker) handleSetDuration(w http.ResponseWriter, req *http.Request) error {
	var body DurationRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "set-duration", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.SetRewardsDuration(env.Caller, body.Duration, env.Now)
	})
}

func (s *Staker) handleSetFee(w http.ResponseWriter, req *http.Request) error {
	var body FeeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	fee, err := utils.ParseAmount(body.Fee)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "fee"))
	}
	return s.execute(w, "set-fee", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.SetStakingFee(env.Caller, fee)
	})
}

func (s *Staker) handleRecover(w http.ResponseWriter, req *http.Request) error {
	var body RecoverRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	return s.execute(w, "recover", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.Recover(env.Caller, body.Token, amount)
	})
}

func (s *Staker) handleTransferOwnership(w http.ResponseWriter, req *http.Request) error {
	var body OwnerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "transfer-ownership", body.Caller, func(env *runtime.Env) (*uint256.Int, error) {
		return nil, env.Staker.TransferOwnership(env.Caller, body.NewOwner)
	})
}

func (s *Staker) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staker").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetOverview))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /staker/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/assets/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /staker/assets/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAsset))

	if !s.solo {
		return
	}
	for path, h := range map[string]utils.HandlerFunc{
		"/stake":    s.handleStake,
		"/unstake":  s.handleUnstake,
		"/exit":     s.handleExit,
		"/claim":    s.handleClaim,
		"/fund":     s.handleFund,
		"/paused":   s.handleSetPaused,
		"/duration": s.handleSetDuration,
		"/fee":      s.handleSetFee,
		"/recover":  s.handleRecover,
		"/owner":    s.handleTransferOwnership,
	} {
		sub.Path(path).
			Methods(http.MethodPost).
			Name("POST /staker" + path).
			HandlerFunc(utils.WrapHandlerFunc(h))
	}
}
