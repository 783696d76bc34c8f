// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/nftstaker/thor"
)

// Event is a log emitted by a ledger operation.
type Event struct {
	// address of the emitting contract
	Address thor.Address
	// indexed parameters, topic0 being the event id
	Topics []thor.Bytes32
	// non-indexed parameters, abi encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event
