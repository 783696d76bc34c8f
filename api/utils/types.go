// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/vechain/nftstaker/builtin/staker"
	"github.com/vechain/nftstaker/logdb"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
	"github.com/vechain/nftstaker/tx"
)

// Amount converts a 256-bit value to its JSON form.
func Amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseAmount converts a JSON amount to a 256-bit value. Nil reads as zero.
func ParseAmount(h *math.HexOrDecimal256) (*uint256.Int, error) {
	if h == nil {
		return new(uint256.Int), nil
	}
	b := (*big.Int)(h)
	if b.Sign() < 0 {
		return nil, errors.New("negative value")
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("value exceeds 256 bits")
	}
	return v, nil
}

// ParseIDs converts JSON asset ids.
func ParseIDs(hs []*math.HexOrDecimal256) ([]*uint256.Int, error) {
	ids := make([]*uint256.Int, 0, len(hs))
	for _, h := range hs {
		if h == nil {
			return nil, errors.New("null id")
		}
		id, err := ParseAmount(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Decoded is an event resolved against the staker ABI.
type Decoded struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// EventMeta locates an event in the operation sequence.
type EventMeta struct {
	Seq       uint64       `json:"seq"`
	Index     uint32       `json:"index"`
	Timestamp uint64       `json:"timestamp"`
	Caller    thor.Address `json:"caller"`
}

type Event struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Decoded *Decoded        `json:"decoded,omitempty"`
	Meta    *EventMeta      `json:"meta,omitempty"`
}

// Receipt is a committed operation.
type Receipt struct {
	Seq       uint64                `json:"seq"`
	Op        string                `json:"op"`
	Caller    thor.Address          `json:"caller"`
	Timestamp uint64                `json:"timestamp"`
	Events    []*Event              `json:"events"`
	Reward    *math.HexOrDecimal256 `json:"reward,omitempty"`
}

func decode(ev *tx.Event) *Decoded {
	d, err := staker.DecodeEvent(ev)
	if err != nil {
		return nil
	}
	args := make(map[string]any, len(d.Args))
	for k, v := range d.Args {
		switch v := v.(type) {
		case *big.Int:
			args[k] = (*math.HexOrDecimal256)(v)
		case []*big.Int:
			out := make([]*math.HexOrDecimal256, 0, len(v))
			for _, b := range v {
				out = append(out, (*math.HexOrDecimal256)(b))
			}
			args[k] = out
		case common.Address:
			args[k] = thor.Address(v)
		default:
			args[k] = v
		}
	}
	return &Decoded{Name: d.Name, Args: args}
}

// ConvertEvent converts a raw event to its JSON form.
func ConvertEvent(ev *tx.Event) *Event {
	out := &Event{
		Address: ev.Address,
		Topics:  make([]*thor.Bytes32, 0, len(ev.Topics)),
		Data:    hexutil.Encode(ev.Data),
		Decoded: decode(ev),
	}
	for i := range ev.Topics {
		out.Topics = append(out.Topics, &ev.Topics[i])
	}
	return out
}

// ConvertLogEvent converts a stored event to its JSON form.
func ConvertLogEvent(e *logdb.Event) *Event {
	raw := &tx.Event{Address: e.Address, Data: e.Data}
	for _, topic := range e.Topics {
		if topic != nil {
			raw.Topics = append(raw.Topics, *topic)
		}
	}
	out := ConvertEvent(raw)
	out.Meta = &EventMeta{
		Seq:       e.Seq,
		Index:     e.Index,
		Timestamp: e.Timestamp,
		Caller:    e.Caller,
	}
	return out
}

// ConvertReceipt converts a receipt to its JSON form.
func ConvertReceipt(r *runtime.Receipt) *Receipt {
	out := &Receipt{
		Seq:       r.Seq,
		Op:        r.Op,
		Caller:    r.Caller,
		Timestamp: r.Timestamp,
		Events:    make([]*Event, 0, len(r.Events)),
	}
	for i, ev := range r.Events {
		e := ConvertEvent(ev)
		e.Meta = &EventMeta{Seq: r.Seq, Index: uint32(i), Timestamp: r.Timestamp, Caller: r.Caller}
		out.Events = append(out.Events, e)
	}
	return out
}
