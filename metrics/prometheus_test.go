// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("count1")
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})
	hist := Histogram("hist1", []int64{1, 10, 100})
	histVec := HistogramVec("histVec1", []string{"zeroOrOne"}, nil)
	gauge := Gauge("gauge1")
	gaugeVec := GaugeVec("gaugeVec1", []string{"zeroOrOne"})

	count.Add(1)
	Counter("count1").Add(2)

	histTotal := 0
	for i := range 10 {
		label := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		hist.Observe(int64(i))
		histVec.ObserveWithLabels(int64(i), label)
		countVec.AddWithLabel(int64(i), label)
		gaugeVec.AddWithLabel(int64(i), label)
		histTotal += i
	}
	gauge.Set(40)
	gauge.Add(2)
	gaugeVec.SetWithLabel(-1, map[string]string{"zeroOrOne": "0"})

	metrics := gather(t)

	assert.Equal(t, float64(3), metrics["nftstaker_count1"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(histTotal), metrics["nftstaker_hist1"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, float64(42), metrics["nftstaker_gauge1"].Metric[0].GetGauge().GetValue())

	var countVecTotal float64
	for _, m := range metrics["nftstaker_countVec1"].Metric {
		countVecTotal += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(histTotal), countVecTotal)

	for _, m := range metrics["nftstaker_gaugeVec1"].Metric {
		if m.GetLabel()[0].GetValue() == "0" {
			assert.Equal(t, float64(-1), m.GetGauge().GetValue())
		} else {
			assert.Equal(t, float64(1+3+5+7+9), m.GetGauge().GetValue())
		}
	}
}

func TestPromHandler(t *testing.T) {
	InitializePrometheusMetrics()
	Counter("handler_probe").Add(1)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "nftstaker_handler_probe 1")
}
