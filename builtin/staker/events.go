// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/abi"
	"github.com/vechain/nftstaker/thor"
	"github.com/vechain/nftstaker/tx"
)

const eventsJSON = `[
	{"type":"event","name":"Staked","anonymous":false,"inputs":[
		{"name":"user","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"tokenIds","type":"uint256[]","indexed":false}]},
	{"type":"event","name":"Unstaked","anonymous":false,"inputs":[
		{"name":"user","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"tokenIds","type":"uint256[]","indexed":false}]},
	{"type":"event","name":"Claimed","anonymous":false,"inputs":[
		{"name":"user","type":"address","indexed":true},
		{"name":"reward","type":"uint256","indexed":false}]},
	{"type":"event","name":"Funded","anonymous":false,"inputs":[
		{"name":"reward","type":"uint256","indexed":false}]},
	{"type":"event","name":"RewardsDurationUpdated","anonymous":false,"inputs":[
		{"name":"newDuration","type":"uint256","indexed":false}]},
	{"type":"event","name":"Recovered","anonymous":false,"inputs":[
		{"name":"token","type":"address","indexed":false},
		{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"PauseChanged","anonymous":false,"inputs":[
		{"name":"paused","type":"bool","indexed":false}]},
	{"type":"event","name":"StakingFeeUpdated","anonymous":false,"inputs":[
		{"name":"fee","type":"uint256","indexed":false}]},
	{"type":"event","name":"OwnershipTransferred","anonymous":false,"inputs":[
		{"name":"previousOwner","type":"address","indexed":true},
		{"name":"newOwner","type":"address","indexed":true}]}
]`

var (
	ABI = mustParseABI()

	evStaked                 = mustEvent("Staked")
	evUnstaked               = mustEvent("Unstaked")
	evClaimed                = mustEvent("Claimed")
	evFunded                 = mustEvent("Funded")
	evRewardsDurationUpdated = mustEvent("RewardsDurationUpdated")
	evRecovered              = mustEvent("Recovered")
	evPauseChanged           = mustEvent("PauseChanged")
	evStakingFeeUpdated      = mustEvent("StakingFeeUpdated")
	evOwnershipTransferred   = mustEvent("OwnershipTransferred")
)

func mustParseABI() *abi.ABI {
	a, err := abi.New([]byte(eventsJSON))
	if err != nil {
		panic(err)
	}
	return a
}

func mustEvent(name string) *abi.Event {
	ev, ok := ABI.EventByName(name)
	if !ok {
		panic("missing event " + name)
	}
	return ev
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

func bigs(ids []*uint256.Int) []*big.Int {
	out := make([]*big.Int, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.ToBig())
	}
	return out
}

func (s *Staker) emit(ev *abi.Event, indexed []thor.Bytes32, args ...any) error {
	data, err := ev.Encode(args...)
	if err != nil {
		return errors.Wrapf(err, "encode %s", ev.Name())
	}
	topics := make([]thor.Bytes32, 0, len(indexed)+1)
	topics = append(topics, ev.ID())
	topics = append(topics, indexed...)

	s.events = append(s.events, &tx.Event{
		Address: s.addr,
		Topics:  topics,
		Data:    data,
	})
	return nil
}

// DecodedEvent is a staker event with its arguments by name.
type DecodedEvent struct {
	Name string
	Args map[string]any
}

// DecodeEvent resolves ev against the staker events.
// Indexed addresses are taken from the topics.
func DecodeEvent(ev *tx.Event) (*DecodedEvent, error) {
	if len(ev.Topics) == 0 {
		return nil, errors.New("event without topics")
	}
	def, ok := ABI.EventByID(ev.Topics[0])
	if !ok {
		return nil, errors.Errorf("unknown event %v", ev.Topics[0])
	}
	args, err := def.DecodeMap(ev.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", def.Name())
	}
	switch def {
	case evStaked, evUnstaked, evClaimed:
		if len(ev.Topics) < 2 {
			return nil, errors.Errorf("%s: missing indexed user", def.Name())
		}
		args["user"] = thor.BytesToAddress(ev.Topics[1].Bytes())
	case evOwnershipTransferred:
		if len(ev.Topics) < 3 {
			return nil, errors.Errorf("%s: missing indexed owners", def.Name())
		}
		args["previousOwner"] = thor.BytesToAddress(ev.Topics[1].Bytes())
		args["newOwner"] = thor.BytesToAddress(ev.Topics[2].Bytes())
	}
	return &DecodedEvent{Name: def.Name(), Args: args}, nil
}
