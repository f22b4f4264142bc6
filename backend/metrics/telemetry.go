// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

/*
 *  Metrics package exposes the metrics of the Slice Manager service.
 */

package metrics

import (
	"fmt"
	"net/http"

	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EngineCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slicemgr_engine_cycles_total",
		Help: "Number of decision engine poll cycles completed",
	})
	EngineCycleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slicemgr_engine_cycle_failures_total",
		Help: "Number of poll cycles skipped because telemetry could not be fetched",
	})
	EngineMitigations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slicemgr_engine_mitigations_total",
		Help: "Number of mitigations applied by the decision engine",
	})
	EngineReversions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slicemgr_engine_reversions_total",
		Help: "Number of mitigations reverted by the decision engine",
	})
)

// InitMetrics serves the Prometheus scrape endpoint. Blocks, intended to
// run on its own goroutine.
func InitMetrics(port int) {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
		logger.InitLog.Errorf("could not open metrics port: %v", err)
	}
}
