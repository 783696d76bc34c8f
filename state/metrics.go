// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/nftstaker/metrics"

var (
	metricStorageWrites = metrics.LazyLoadCounter("state_storage_writes_count")
	metricCacheHitMiss  = metrics.LazyLoadGaugeVec("cache_hit_miss_count", []string{"type", "event"})
)
