// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/nftstaker/api/events"
	"github.com/vechain/nftstaker/api/faucet"
	healthAPI "github.com/vechain/nftstaker/api/health"
	"github.com/vechain/nftstaker/api/middleware"
	"github.com/vechain/nftstaker/api/staker"
	"github.com/vechain/nftstaker/api/subscriptions"
	"github.com/vechain/nftstaker/health"
	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	LogsLimit            uint64
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	SoloMode             bool
}

// New return api router and a func to close hijacked connections.
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staker.New(rt, opts.SoloMode).
		Mount(router, "/staker")
	events.New(rt.LogDB(), opts.LogsLimit).
		Mount(router, "/logs/event")
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")
	healthStatus := health.New(rt)
	healthAPI.New(healthStatus).
		Mount(router, "/node/health")
	if opts.SoloMode {
		faucet.New(rt).
			Mount(router, "/faucet")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	return handler.ServeHTTP, func() {
		subs.Close()
		healthStatus.Close()
	}
}
