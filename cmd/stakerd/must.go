// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaker/genesis"
	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/logdb"
	"github.com/vechain/nftstaker/lvldb"
	"github.com/vechain/nftstaker/metrics"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/state"
)

func initLogger(ctx *cli.Context) {
	level := log.FromVerbosity(ctx.Int(verbosityFlag.Name))
	var handler = log.JSONHandlerWithLevel(os.Stderr, level)
	if !ctx.Bool(jsonLogsFlag.Name) {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func loadConfig(ctx *cli.Context, solo bool) *genesis.Config {
	path := ctx.String(configFlag.Name)
	if path == "" {
		if !solo {
			fatal("no deployment file given")
		}
		return genesis.DevConfig()
	}
	cfg, err := genesis.Load(path)
	if err != nil {
		fatal(fmt.Sprintf("load deployment [%v]: %v", path, err))
	}
	return cfg
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

// makeInstanceDir keys the instance by the staker address, so deployments never share databases.
func makeInstanceDir(ctx *cli.Context, cfg *genesis.Config) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", cfg.Staker.Bytes()[14:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

type databases struct {
	main *lvldb.LevelDB
	log  *logdb.LogDB
	// number of storage slots kept in the state read cache
	stateCache int
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.log.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func openDatabases(ctx *cli.Context, instanceDir string) *databases {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// keep Go's GC from counting the database cache toward its trigger
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	mainDB, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}

	path := filepath.Join(instanceDir, "logs.db")
	logDB, err := logdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", path, err))
	}
	return &databases{main: mainDB, log: logDB, stateCache: cacheMB * 256}
}

func openMemDatabases() *databases {
	mainDB, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open memory main database: %v", err))
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open memory log database: %v", err))
	}
	return &databases{main: mainDB, log: logDB, stateCache: 4096}
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

// newRuntime opens the runtime on the databases and writes the deployment on first start.
func newRuntime(dbs *databases, cfg *genesis.Config) *runtime.Runtime {
	stater, err := state.NewStater(dbs.main, dbs.stateCache)
	if err != nil {
		fatal(fmt.Sprintf("open stater: %v", err))
	}
	rt, err := runtime.New(stater, dbs.log, cfg.Addresses(), runtime.SystemClock{})
	if err != nil {
		fatal(fmt.Sprintf("open runtime: %v", err))
	}
	built, err := genesis.Build(rt, cfg)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	if built {
		logger.Info("genesis written", "staker", cfg.Staker, "owner", cfg.Owner)
	}
	return rt
}

type server struct {
	srv      *http.Server
	listener net.Listener
}

func listen(addr string, handler http.Handler) (string, *server) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen addr [%v]: %v", addr, err))
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}
	return "http://" + listener.Addr().String() + "/", &server{srv: srv, listener: listener}
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, *server) {
	return listen(ctx.String(apiAddrFlag.Name), handler)
}

func startMetricsServer(ctx *cli.Context) (string, *server) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return listen(ctx.String(metricsAddrFlag.Name), mux)
}

// serve blocks until the server fails or ctx is done, then shuts it down.
func serve(ctx context.Context, s *server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shutdown server", "err", err)
		}
		<-errCh
		return nil
	}
}
