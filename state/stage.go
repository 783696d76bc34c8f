// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaker/kv"
)

// Stage is the set of storage changes of a state.
type Stage struct {
	order   []storageKey
	changes map[storageKey]rlp.RawValue
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// writeTo puts all changes into the putter. Empty values delete the slot.
func (s *Stage) writeTo(p kv.Putter) error {
	for _, k := range s.order {
		v := s.changes[k]
		if len(v) == 0 {
			if err := p.Delete(k.dbKey()); err != nil {
				return err
			}
			continue
		}
		if err := p.Put(k.dbKey(), v); err != nil {
			return err
		}
	}
	return nil
}
