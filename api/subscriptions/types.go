// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/nftstaker/api/utils"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
)

// EventFilter selects pushed events, nil fields match anything.
type EventFilter struct {
	Address *thor.Address
	Caller  *thor.Address
	Topics  [5]*thor.Bytes32
}

// Match returns the events of receipt passing the filter.
func (f *EventFilter) Match(receipt *runtime.Receipt) []*utils.Event {
	if f.Caller != nil && *f.Caller != receipt.Caller {
		return nil
	}
	converted := utils.ConvertReceipt(receipt)

	var out []*utils.Event
	for i, ev := range receipt.Events {
		if f.Address != nil && *f.Address != ev.Address {
			continue
		}
		matched := true
		for j, topic := range f.Topics {
			if topic == nil {
				continue
			}
			if j >= len(ev.Topics) || ev.Topics[j] != *topic {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, converted.Events[i])
		}
	}
	return out
}
