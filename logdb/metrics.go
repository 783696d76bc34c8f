// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "github.com/vechain/nftstaker/metrics"

var (
	metricQueryDuration = metrics.LazyLoadHistogramVec("logdb_query_duration_ms", []string{"type"}, []int64{1, 5, 10, 50, 100, 500, 1000, 5000})
	metricEventsWritten = metrics.LazyLoadCounter("logdb_events_written_count")
)
