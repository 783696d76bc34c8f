// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Snapshot is a point-in-time read of Stats.
type Snapshot struct {
	Hit, Miss int64
	// Changed is set when the hit rate moved by at least 0.1% since the previous snapshot.
	Changed bool
}

// HitRate is hits over lookups, or 0 before the first lookup.
func (s Snapshot) HitRate() float64 {
	if s.Hit+s.Miss == 0 {
		return 0
	}
	return float64(s.Hit) / float64(s.Hit+s.Miss)
}

// Stats counts lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32
}

func (cs *Stats) Hit() int64  { return cs.hit.Add(1) }
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

func (cs *Stats) Snapshot() Snapshot {
	s := Snapshot{Hit: cs.hit.Load(), Miss: cs.miss.Load()}
	p := int32(s.HitRate() * 1000)
	s.Changed = cs.permille.Swap(p) != p
	return s
}
