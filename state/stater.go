// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/cache"
	"github.com/vechain/nftstaker/kv"
	"github.com/vechain/nftstaker/log"
)

var logger = log.WithContext("pkg", "state")

// storageBucket prefixes storage slots in the kv store.
const storageBucket = kv.Bucket("s")

// Stater creates states over one store and commits their stages.
type Stater struct {
	db    kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue]

	lastReport time.Time
}

// NewStater create a new stater. A cacheSize of 0 disables the read cache.
func NewStater(db kv.Store, cacheSize int) (*Stater, error) {
	s := &Stater{db: db}
	if cacheSize > 0 {
		c, err := cache.NewLRU[storageKey, rlp.RawValue](cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "create storage cache")
		}
		s.cache = c
	}
	return s, nil
}

// NewState create a new state object over the committed storage.
func (s *Stater) NewState() *State {
	return New(storageBucket.NewGetter(s.db), s.cache)
}

// Commit writes the stage into the store in one batch.
// The stage is either fully written or not at all.
func (s *Stater) Commit(stage *Stage) error {
	batch := s.db.NewBatch()
	if err := stage.writeTo(storageBucket.NewPutter(batch)); err != nil {
		return errors.Wrap(err, "stage changes")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	metricStorageWrites().Add(int64(stage.Len()))

	if s.cache != nil {
		for _, k := range stage.order {
			s.cache.Add(k, stage.changes[k])
		}
		s.reportCacheStats()
	}
	return nil
}

func (s *Stater) reportCacheStats() {
	if time.Since(s.lastReport) < 20*time.Second {
		return
	}
	s.lastReport = time.Now()

	snap := s.cache.Stats().Snapshot()
	if snap.Changed {
		logger.Debug("storage cache stats", "hit", snap.Hit, "miss", snap.Miss, "rate", snap.HitRate())
	}
	metricCacheHitMiss().SetWithLabel(snap.Hit, map[string]string{"type": "storage", "event": "hit"})
	metricCacheHitMiss().SetWithLabel(snap.Miss, map[string]string{"type": "storage", "event": "miss"})
}
