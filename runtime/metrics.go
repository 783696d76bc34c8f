// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/nftstaker/metrics"

var (
	metricExecDuration = metrics.LazyLoadHistogramVec("runtime_execution_duration_ms", []string{"op", "result"}, []int64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
	metricSequence     = metrics.LazyLoadGauge("runtime_sequence")
	metricTotalStaked  = metrics.LazyLoadGauge("staker_total_staked_units")
)
