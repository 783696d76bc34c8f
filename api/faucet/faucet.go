// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package faucet

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/api/utils"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
)

// Request mints reward tokens and assets to To.
type Request struct {
	To     thor.Address            `json:"to"`
	Amount *math.HexOrDecimal256   `json:"amount"`
	IDs    []*math.HexOrDecimal256 `json:"ids"`
}

type Faucet struct {
	rt *runtime.Runtime
}

// New create the faucet, only mounted in solo mode.
func New(rt *runtime.Runtime) *Faucet {
	return &Faucet{rt}
}

func (f *Faucet) handleDrip(w http.ResponseWriter, req *http.Request) error {
	var body Request
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.To.IsZero() {
		return utils.BadRequest(errors.New("to: required"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	ids, err := utils.ParseIDs(body.IDs)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "ids"))
	}
	if amount.IsZero() && len(ids) == 0 {
		return utils.BadRequest(errors.New("nothing to mint"))
	}

	receipt, err := f.rt.Execute("faucet", body.To, func(env *runtime.Env) error {
		if !amount.IsZero() {
			token, err := env.Staker.RewardToken()
			if err != nil {
				return err
			}
			if err := env.Tokens.Mint(token, body.To, amount); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := env.Collection.Mint(body.To, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (f *Faucet) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /faucet").
		HandlerFunc(utils.WrapHandlerFunc(f.handleDrip))
}
