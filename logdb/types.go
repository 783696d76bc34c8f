// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/nftstaker/thor"
	"github.com/vechain/nftstaker/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	Seq       uint64 // sequence of the emitting operation
	Index     uint32 // position within the operation
	Timestamp uint64
	Caller    thor.Address
	Address   thor.Address
	Topics    [5]*thor.Bytes32
	Data      []byte
}

// newEvent converts tx.Event to Event.
func newEvent(seq uint64, index uint32, timestamp uint64, caller thor.Address, txEvent *tx.Event) *Event {
	ev := &Event{
		Seq:       seq,
		Index:     index,
		Timestamp: timestamp,
		Caller:    caller,
		Address:   txEvent.Address,
		Data:      txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address
	Caller  *thor.Address
	Topics  [5]*thor.Bytes32
}

// EventFilter selects events matching any of the criteria within the range.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
