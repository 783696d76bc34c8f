// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaker/api"
	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "stakerd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakerd",
		Usage:     "NFT staking reward ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			skipNTPFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "single user ledger for test & dev, with write endpoints enabled",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					persistFlag,
					cacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiLogsLimitFlag,
					apiSlowQueriesThresholdFlag,
					enableAPILogsFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					skipNTPFlag,
				},
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	if !ctx.IsSet(configFlag.Name) {
		return errors.Errorf("--%s is required, or use the solo command", configFlag.Name)
	}
	return run(ctx, false)
}

func soloAction(ctx *cli.Context) error {
	return run(ctx, true)
}

func run(ctx *cli.Context, solo bool) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	exitCtx := handleExitSignal()

	cfg := loadConfig(ctx, solo)

	if !ctx.Bool(skipNTPFlag.Name) {
		go checkClockOffset()
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var (
		instanceDir string
		dbs         *databases
	)
	if solo && !ctx.Bool(persistFlag.Name) {
		instanceDir = "Memory"
		dbs = openMemDatabases()
	} else {
		instanceDir = makeInstanceDir(ctx, cfg)
		dbs = openDatabases(ctx, instanceDir)
	}
	defer dbs.Close()

	rt := newRuntime(dbs, cfg)
	defer func() { logger.Info("closing runtime..."); rt.Close() }()

	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		SoloMode:             solo,
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	group, groupCtx := errgroup.WithContext(exitCtx)

	apiURL, apiSrv := startAPIServer(ctx, handler)
	group.Go(func() error { return serve(groupCtx, apiSrv) })

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsURL, metricsSrv := startMetricsServer(ctx)
		logger.Info("metrics server started", "url", metricsURL)
		group.Go(func() error { return serve(groupCtx, metricsSrv) })
	}

	if solo {
		printSoloStartupMessage(rt, cfg, instanceDir, apiURL)
	} else {
		printStartupMessage(rt, instanceDir, apiURL)
	}

	return group.Wait()
}
